package api

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"zask/internal/domain"
)

// ErrEmptyMessage is returned when there is nothing to send
var ErrEmptyMessage = errors.New("message is empty")

// FeedbackType classifies a feedback mail
type FeedbackType string

const (
	FeedbackLike    FeedbackType = "like"
	FeedbackDislike FeedbackType = "dislike"
)

// ParseFeedbackType accepts "like" or "dislike"
func ParseFeedbackType(s string) (FeedbackType, bool) {
	switch t := FeedbackType(strings.ToLower(strings.TrimSpace(s))); t {
	case FeedbackLike, FeedbackDislike:
		return t, true
	}
	return "", false
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// SendChat posts the conversation so far and returns the assistant's reply
func (c *Client) SendChat(ctx context.Context, history []domain.ChatMessage) (string, error) {
	if len(history) == 0 || strings.TrimSpace(history[len(history)-1].Text) == "" {
		return "", ErrEmptyMessage
	}

	in := struct {
		Messages []chatMessage `json:"messages"`
	}{Messages: make([]chatMessage, 0, len(history))}
	for _, m := range history {
		role := "assistant"
		if m.Sender == domain.SenderUser {
			role = "user"
		}
		in.Messages = append(in.Messages, chatMessage{Role: role, Content: m.Text})
	}

	var out struct {
		Reply string `json:"reply"`
	}
	if err := c.do(ctx, http.MethodPost, "/chat", in, &out); err != nil {
		return "", err
	}
	return out.Reply, nil
}

// SendFeedback mails a like or dislike with a message to the developers
func (c *Client) SendFeedback(ctx context.Context, kind FeedbackType, message string) error {
	if strings.TrimSpace(message) == "" {
		return ErrEmptyMessage
	}
	in := struct {
		Type    FeedbackType `json:"type"`
		Message string       `json:"message"`
	}{Type: kind, Message: message}
	return c.do(ctx, http.MethodPost, "/email", in, nil)
}
