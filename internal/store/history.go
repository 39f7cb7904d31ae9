package store

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"zask/internal/domain"
)

// maxTitle bounds chat titles, counted in runes
const maxTitle = 40

// History returns all chats, newest first. A missing file is an empty history.
func (s *Store) History() ([]domain.Chat, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history()
}

func (s *Store) history() ([]domain.Chat, error) {
	var chats []domain.Chat
	if err := s.read(historyFile, &chats); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return chats, nil
}

// Chat returns one chat by id
func (s *Store) Chat(id string) (*domain.Chat, error) {
	chats, err := s.History()
	if err != nil {
		return nil, err
	}
	for i := range chats {
		if chats[i].ID == id {
			return &chats[i], nil
		}
	}
	return nil, fmt.Errorf("chat %s: %w", id, ErrNotFound)
}

// Find resolves an id or a unique id prefix, as printed by a history listing
func (s *Store) Find(prefix string) (*domain.Chat, error) {
	chats, err := s.History()
	if err != nil {
		return nil, err
	}
	var found *domain.Chat
	for i := range chats {
		switch {
		case chats[i].ID == prefix:
			return &chats[i], nil
		case prefix != "" && strings.HasPrefix(chats[i].ID, prefix):
			if found != nil {
				return nil, fmt.Errorf("chat %s: %w", prefix, ErrAmbiguous)
			}
			found = &chats[i]
		}
	}
	if found == nil {
		return nil, fmt.Errorf("chat %s: %w", prefix, ErrNotFound)
	}
	return found, nil
}

// Latest returns the most recent chat or ErrNotFound
func (s *Store) Latest() (*domain.Chat, error) {
	chats, err := s.History()
	if err != nil {
		return nil, err
	}
	if len(chats) == 0 {
		return nil, ErrNotFound
	}
	return &chats[0], nil
}

// NewChat starts a chat titled after its first message and puts it on top
func (s *Store) NewChat(first string) (*domain.Chat, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	chats, err := s.history()
	if err != nil {
		return nil, err
	}
	chat := domain.Chat{ID: uuid.NewString(), Title: title(first), Messages: []domain.ChatMessage{}}
	chats = append([]domain.Chat{chat}, chats...)
	if err := s.write(historyFile, chats); err != nil {
		return nil, err
	}
	return &chat, nil
}

// Append adds messages to chat id; ids are assigned to messages without one
func (s *Store) Append(id string, msgs ...domain.ChatMessage) (*domain.Chat, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	chats, err := s.history()
	if err != nil {
		return nil, err
	}
	for i := range chats {
		if chats[i].ID != id {
			continue
		}
		for _, m := range msgs {
			if m.ID == "" {
				m.ID = uuid.NewString()
			}
			chats[i].Messages = append(chats[i].Messages, m)
		}
		if err := s.write(historyFile, chats); err != nil {
			return nil, err
		}
		return &chats[i], nil
	}
	return nil, fmt.Errorf("chat %s: %w", id, ErrNotFound)
}

// DeleteChat removes chat id from history
func (s *Store) DeleteChat(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	chats, err := s.history()
	if err != nil {
		return err
	}
	for i := range chats {
		if chats[i].ID == id {
			chats = append(chats[:i], chats[i+1:]...)
			return s.write(historyFile, chats)
		}
	}
	return fmt.Errorf("chat %s: %w", id, ErrNotFound)
}

func title(first string) string {
	r := []rune(first)
	if len(r) > maxTitle {
		return string(r[:maxTitle]) + "…"
	}
	return first
}
