package search

import (
	"fmt"

	"zask/internal/domain"
)

// Mode distinguishes a fresh lookup from an incremental page
type Mode int

const (
	ModeFresh Mode = iota
	ModeLoadMore
)

func (m Mode) String() string {
	if m == ModeLoadMore {
		return "load-more"
	}
	return "fresh"
}

// Query is one lookup against a backend. Fresh lookups use Page 1;
// load-more lookups leave Page at 0 and carry an Offset instead.
type Query struct {
	Text     string
	PageSize int
	Offset   int
	Page     int
}

// UsesPage reports whether the query is expressed as a page number
func (q Query) UsesPage() bool {
	return q.Page > 0
}

func (q Query) key() string {
	return fmt.Sprintf("%s\x00%d\x00%d\x00%d", q.Text, q.PageSize, q.Offset, q.Page)
}

// Request is a query issued by a Session, tagged with its sequence number
type Request struct {
	Seq   uint64
	Mode  Mode
	Query Query
}

// Response is the outcome of executing a Request
type Response struct {
	Request
	Items   []domain.SearchResult
	Backend string
	Err     error
}
