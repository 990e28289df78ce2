package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/joshua-takyi/wanderlust/internal/ai"
	"github.com/joshua-takyi/wanderlust/internal/models"
)

// HistoryLimit is how many earlier turns are sent along with a new message.
const HistoryLimit = 10

type ChatInput struct {
	SessionID string
	UserID    *uuid.UUID
	Message   string
	Metadata  models.ConversationMetadata
}

type TravelPreferences struct {
	Budget      string   `json:"budget"`
	TravelStyle string   `json:"travelStyle"`
	Interests   []string `json:"interests"`
	Season      string   `json:"season"`
}

type ChatService struct {
	conversations models.ConversationRepo
	delegate      ai.Delegate
}

func NewChatService(conversations models.ConversationRepo, delegate ai.Delegate) *ChatService {
	return &ChatService{
		conversations: conversations,
		delegate:      delegate,
	}
}

// Chat answers one message. The user and assistant turns are stored only
// after the model has replied, so a failed call leaves the conversation
// untouched.
func (cs *ChatService) Chat(ctx context.Context, in ChatInput) (string, error) {
	in.Message = strings.TrimSpace(in.Message)
	if in.Message == "" {
		return "", invalid("message is required")
	}
	if in.SessionID == "" {
		return "", invalid("session is required")
	}

	conv, err := cs.conversations.FindOrCreateConversation(ctx, in.SessionID, in.UserID, in.Metadata)
	if err != nil {
		return "", fmt.Errorf("failed to load conversation: %w", err)
	}

	history := conv.RecentMessages(HistoryLimit)
	msgs := make([]ai.Message, 0, len(history)+1)
	for _, m := range history {
		msgs = append(msgs, ai.Message{Role: m.Role, Content: m.Content})
	}
	msgs = append(msgs, ai.Message{Role: ai.RoleUser, Content: in.Message})

	reply, err := cs.delegate.Complete(ctx, ai.Request{
		System:      travelAssistantPrompt,
		Messages:    msgs,
		MaxTokens:   ai.TaskChat.MaxTokens,
		Temperature: ai.TaskChat.Temperature,
	})
	if err != nil {
		return "", err
	}
	reply = strings.TrimSpace(reply)

	if err := cs.conversations.AppendMessage(ctx, conv, models.RoleUser, in.Message); err != nil {
		return "", fmt.Errorf("failed to save message: %w", err)
	}
	if err := cs.conversations.AppendMessage(ctx, conv, models.RoleAssistant, reply); err != nil {
		return "", fmt.Errorf("failed to save reply: %w", err)
	}
	return reply, nil
}

// History returns every stored turn of the session's active conversation,
// or none when the session has not chatted yet.
func (cs *ChatService) History(ctx context.Context, sessionID string) ([]models.ChatMessage, error) {
	if sessionID == "" {
		return []models.ChatMessage{}, nil
	}
	conv, err := cs.conversations.FindConversationBySession(ctx, sessionID)
	if errors.Is(err, models.ErrNotFound) {
		return []models.ChatMessage{}, nil
	}
	if err != nil {
		return nil, err
	}
	if conv.Messages == nil {
		return []models.ChatMessage{}, nil
	}
	return conv.Messages, nil
}

// ask sends a one-off prompt under the assistant persona.
func (cs *ChatService) ask(ctx context.Context, task ai.Task, prompt string) (string, error) {
	req := ai.Prompt(task, prompt)
	req.System = travelAssistantPrompt
	reply, err := cs.delegate.Complete(ctx, req)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(reply), nil
}

func (cs *ChatService) Itinerary(ctx context.Context, destination string, days int, interests []string) (string, error) {
	destination = strings.TrimSpace(destination)
	var msgs []string
	if destination == "" {
		msgs = append(msgs, "destination is required")
	}
	if days < 1 || days > 30 {
		msgs = append(msgs, "days must be between 1 and 30")
	}
	if len(msgs) > 0 {
		return "", invalid(msgs...)
	}
	return cs.ask(ctx, ai.TaskItinerary, itineraryPrompt(destination, days, interests))
}

func (cs *ChatService) Recommendations(ctx context.Context, prefs TravelPreferences) (string, error) {
	if prefs.Budget == "" {
		prefs.Budget = "moderate"
	}
	if prefs.TravelStyle == "" {
		prefs.TravelStyle = "balanced"
	}
	if prefs.Season == "" {
		prefs.Season = "any"
	}
	return cs.ask(ctx, ai.TaskRecommendations, recommendationsPrompt(prefs))
}
