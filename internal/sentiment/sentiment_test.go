package sentiment

import "testing"

func TestLabelFor(t *testing.T) {
	tests := []struct {
		score int
		want  Label
	}{
		{5, VeryPositive},
		{3, VeryPositive},
		{2, Positive},
		{1, Positive},
		{0, Neutral},
		{-1, Negative},
		{-2, Negative},
		{-3, VeryNegative},
		{-10, VeryNegative},
	}

	for _, tt := range tests {
		if got := LabelFor(tt.score); got != tt.want {
			t.Errorf("LabelFor(%d) = %q, want %q", tt.score, got, tt.want)
		}
	}
}

func TestScore(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		wantScore int
		wantLabel Label
	}{
		{"empty", "", 0, Neutral},
		{"whitespace", "   \n\t", 0, Neutral},
		{"no scored words", "We stayed three nights in March.", 0, Neutral},
		{"strong praise", "Amazing stay, wonderful host!", 8, VeryPositive},
		{"mild praise", "The flat was clean.", 2, Positive},
		{"mild complaint", "Bit noisy at night.", -1, Negative},
		{"strong complaint", "Dirty and terrible, the worst place.", -8, VeryNegative},
		{"negated praise", "The bed was not comfortable.", -2, Negative},
		{"mixed", "Great location but the room was dirty.", 1, Positive},
		{"case and punctuation", "GREAT!!! Great... great?", 9, VeryPositive},
		{"less common words", "Exquisite views, but the host was inconsiderate.", 1, Positive},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Score(tt.text)
			if got.Score != tt.wantScore {
				t.Errorf("Score(%q).Score = %d, want %d", tt.text, got.Score, tt.wantScore)
			}
			if got.Label != tt.wantLabel {
				t.Errorf("Score(%q).Label = %q, want %q", tt.text, got.Label, tt.wantLabel)
			}
			if got.Label != LabelFor(got.Score) {
				t.Errorf("label %q does not follow score %d", got.Label, got.Score)
			}
		})
	}
}

func TestScore_Comparative(t *testing.T) {
	got := Score("Amazing stay, wonderful host!")
	if got.Comparative != 2 {
		t.Errorf("Comparative = %v, want 2", got.Comparative)
	}

	empty := Score("")
	if empty.Comparative != 0 {
		t.Errorf("empty Comparative = %v, want 0", empty.Comparative)
	}
}

func TestScore_Terms(t *testing.T) {
	got := Score("Lovely host, but the kitchen was filthy and not clean")

	wantPos := []string{"lovely"}
	wantNeg := []string{"filthy", "clean"}

	if len(got.Positive) != len(wantPos) || got.Positive[0] != wantPos[0] {
		t.Errorf("Positive = %v, want %v", got.Positive, wantPos)
	}
	if len(got.Negative) != len(wantNeg) {
		t.Fatalf("Negative = %v, want %v", got.Negative, wantNeg)
	}
	for i := range wantNeg {
		if got.Negative[i] != wantNeg[i] {
			t.Errorf("Negative[%d] = %q, want %q", i, got.Negative[i], wantNeg[i])
		}
	}
}

func TestScore_Idempotent(t *testing.T) {
	text := "Great views, friendly staff, but a noisy street."
	first := Score(text)
	for i := 0; i < 5; i++ {
		again := Score(text)
		if again.Score != first.Score || again.Label != first.Label || again.Comparative != first.Comparative {
			t.Fatalf("run %d differs: %+v vs %+v", i, again, first)
		}
	}
}

func TestScore_NeverNilTerms(t *testing.T) {
	got := Score("")
	if got.Positive == nil || got.Negative == nil {
		t.Error("term slices should be empty, not nil, so they encode as []")
	}
}

func TestLexicon(t *testing.T) {
	if len(lexicon) < 2000 {
		t.Fatalf("lexicon has %d words, embedded list not loaded", len(lexicon))
	}
	for _, n := range []string{"not", "no", "never"} {
		if _, ok := lexicon[n]; ok {
			t.Errorf("negator %q must not carry a valence", n)
		}
	}
}

func TestParseLexicon(t *testing.T) {
	words := parseLexicon("# comment\n\nsuperb\t5\nawful\t-3\n")
	if len(words) != 2 || words["superb"] != 5 || words["awful"] != -3 {
		t.Errorf("parseLexicon = %v", words)
	}

	for _, bad := range []string{"superb 5\n", "superb\tgreat\n", "superb\t9\n"} {
		func() {
			defer func() {
				if recover() == nil {
					t.Errorf("parseLexicon(%q) did not panic", bad)
				}
			}()
			parseLexicon(bad)
		}()
	}
}
