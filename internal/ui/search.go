package ui

import (
	"context"
	"errors"

	"zask/internal/eventbus"
	"zask/internal/search"
)

// notifyingSearcher reports searches where every backend failed
type notifyingSearcher struct {
	search.Searcher
	bus eventbus.EventBus
}

func (s notifyingSearcher) Search(ctx context.Context, q search.Query) (search.Result, error) {
	res, err := s.Searcher.Search(ctx, q)
	var exhausted *search.ExhaustedError
	if errors.As(err, &exhausted) {
		s.bus.Publish(eventbus.SearchFailedEvent{Query: q.Text, Err: err})
	}
	return res, err
}
