package search

import (
	"strings"

	"zask/internal/domain"
)

const (
	// DefaultPageSize is the page size of a fresh lookup
	DefaultPageSize = 30
	// DefaultLoadMoreSize is the page size of each incremental lookup
	DefaultLoadMoreSize = 10
)

// Status summarises what the dropdown should show
type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusFailed
	StatusEmpty
	StatusResults
)

// Session is the state of one lookup input. It is not safe for concurrent
// use; the owning component is its only writer.
//
// Every request gets a sequence number. A response is applied only if it is
// newer than the last applied one and not older than the latest fresh
// request, so a slow earlier answer can never overwrite a later one.
type Session struct {
	QueryText       string
	Results         []domain.SearchResult
	IsLoading       bool
	LastError       string
	HasMore         bool
	DropdownVisible bool

	pageSize     int
	loadMoreSize int
	debouncer    *Debouncer

	offset int
	// resultsText is the query the current results were fetched for
	resultsText string

	seq      uint64
	freshSeq uint64
	applied  uint64
}

// NewSession creates a session. Non-positive sizes fall back to 30 and 10.
func NewSession(pageSize, loadMoreSize int, debouncer *Debouncer) *Session {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if loadMoreSize <= 0 {
		loadMoreSize = DefaultLoadMoreSize
	}
	if debouncer == nil {
		debouncer = NewDebouncer(DefaultDebounce)
	}
	return &Session{
		pageSize:     pageSize,
		loadMoreSize: loadMoreSize,
		debouncer:    debouncer,
	}
}

// Debouncer returns the session's debouncer
func (s *Session) Debouncer() *Debouncer {
	return s.debouncer
}

// Offset is the number of items fetched so far in this session
func (s *Session) Offset() int {
	return s.offset
}

// SetText records the input text. Empty text resets the session at once and
// cancels any pending trigger; otherwise a new debounce tag is returned for
// the caller to arm a timer with.
func (s *Session) SetText(text string) (uint64, bool) {
	s.QueryText = text
	if strings.TrimSpace(text) == "" {
		s.Reset()
		return 0, false
	}

	s.LastError = ""
	s.DropdownVisible = true
	return s.debouncer.Schedule(), true
}

// Fire is called when the timer for tag elapses. It returns the fresh
// request to execute, or false when the tag is stale.
func (s *Session) Fire(tag uint64) (Request, bool) {
	if !s.debouncer.Ready(tag) {
		return Request{}, false
	}
	if strings.TrimSpace(s.QueryText) == "" {
		return Request{}, false
	}

	s.seq++
	s.freshSeq = s.seq
	s.IsLoading = true
	s.LastError = ""
	s.DropdownVisible = true

	return Request{
		Seq:  s.seq,
		Mode: ModeFresh,
		Query: Query{
			Text:     s.QueryText,
			PageSize: s.pageSize,
			Page:     1,
		},
	}, true
}

// LoadMore returns the next incremental request, or false while a request is
// in flight, when the last page was short, or when the text has changed since
// the results were fetched.
func (s *Session) LoadMore() (Request, bool) {
	if !s.HasMore || s.IsLoading || strings.TrimSpace(s.QueryText) == "" {
		return Request{}, false
	}
	if s.debouncer.Pending() || s.QueryText != s.resultsText {
		return Request{}, false
	}

	s.seq++
	s.IsLoading = true

	return Request{
		Seq:  s.seq,
		Mode: ModeLoadMore,
		Query: Query{
			Text:     s.QueryText,
			PageSize: s.loadMoreSize,
			Offset:   len(s.Results),
		},
	}, true
}

// NearEnd reports whether cursor is within threshold rows of the last result
func (s *Session) NearEnd(cursor, threshold int) bool {
	if len(s.Results) == 0 {
		return false
	}
	return cursor >= len(s.Results)-1-threshold
}

// Apply merges a response into the session and reports whether it was used
func (s *Session) Apply(r Response) bool {
	if r.Seq <= s.applied || r.Seq < s.freshSeq {
		return false
	}
	s.applied = r.Seq
	s.IsLoading = s.applied != s.seq

	if r.Query.Text != s.QueryText {
		return false
	}
	if r.Mode == ModeLoadMore && r.Query.Text != s.resultsText {
		return false
	}

	if r.Err != nil {
		s.LastError = r.Err.Error()
		s.HasMore = false
		if r.Mode == ModeFresh {
			s.Results = nil
			s.offset = 0
			s.resultsText = r.Query.Text
		}
		return true
	}

	s.LastError = ""
	switch r.Mode {
	case ModeLoadMore:
		s.Results = append(s.Results, r.Items...)
	default:
		s.Results = append([]domain.SearchResult(nil), r.Items...)
		s.resultsText = r.Query.Text
	}
	s.offset = len(s.Results)
	s.HasMore = len(r.Items) == r.Query.PageSize
	return true
}

// Select picks the result at index, closes the dropdown and puts the
// chosen name into the input. Requests still in flight are abandoned.
func (s *Session) Select(index int) (domain.SearchResult, bool) {
	if index < 0 || index >= len(s.Results) {
		return domain.SearchResult{}, false
	}
	item := s.Results[index]

	s.debouncer.Cancel()
	s.applied = s.seq
	s.IsLoading = false
	s.QueryText = item.Name
	s.DropdownVisible = false
	return item, true
}

// Close hides the dropdown without touching results
func (s *Session) Close() {
	s.DropdownVisible = false
}

// Reset empties the session and abandons pending and in-flight requests
func (s *Session) Reset() {
	s.debouncer.Cancel()
	s.applied = s.seq
	s.Results = nil
	s.IsLoading = false
	s.LastError = ""
	s.HasMore = false
	s.offset = 0
	s.resultsText = ""
	s.DropdownVisible = false
}

// Status reports what the dropdown should show
func (s *Session) Status() Status {
	switch {
	case s.LastError != "" && len(s.Results) == 0:
		return StatusFailed
	case len(s.Results) > 0:
		return StatusResults
	case s.IsLoading || s.debouncer.Pending():
		return StatusLoading
	case strings.TrimSpace(s.QueryText) != "" && s.applied > 0:
		return StatusEmpty
	default:
		return StatusIdle
	}
}
