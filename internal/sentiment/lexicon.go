package sentiment

import (
	"bufio"
	_ "embed"
	"fmt"
	"strconv"
	"strings"
)

var negators = map[string]bool{
	"not": true, "no": true, "never": true, "without": true, "hardly": true,
	"don't": true, "dont": true, "doesn't": true, "doesnt": true,
	"didn't": true, "didnt": true, "isn't": true, "isnt": true,
	"wasn't": true, "wasnt": true, "weren't": true, "werent": true,
	"aren't": true, "arent": true, "can't": true, "cant": true,
	"couldn't": true, "couldnt": true, "won't": true, "wont": true,
	"wouldn't": true, "wouldnt": true, "shouldn't": true, "shouldnt": true,
}

// lexicon.tsv holds one "word<TAB>valence" pair per line, valences on the
// AFINN -5..+5 scale.
//
//go:embed lexicon.tsv
var lexiconData string

var lexicon = parseLexicon(lexiconData)

func parseLexicon(data string) map[string]int {
	words := make(map[string]int, 2048)
	scanner := bufio.NewScanner(strings.NewReader(data))
	for line := 1; scanner.Scan(); line++ {
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		word, value, ok := strings.Cut(text, "\t")
		if !ok {
			panic(fmt.Sprintf("sentiment: lexicon line %d: missing tab", line))
		}
		v, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil || v < -5 || v > 5 {
			panic(fmt.Sprintf("sentiment: lexicon line %d: bad valence %q", line, value))
		}
		words[strings.TrimSpace(word)] = v
	}
	return words
}
