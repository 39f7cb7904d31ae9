package search

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"zask/internal/domain"
)

// restColumns is the minimal player card projection requested from the table
const restColumns = "name,type,subtype,team,year,position,ovr"

// RESTBackend queries a PostgREST table (Supabase style) with the public anon key
type RESTBackend struct {
	name    string
	baseURL string
	table   string
	anonKey string
	client  *http.Client
}

// NewRESTBackend creates a backend for {baseURL}/rest/v1/{table}
func NewRESTBackend(name, baseURL, table, anonKey string, client *http.Client) *RESTBackend {
	if client == nil {
		client = http.DefaultClient
	}
	return &RESTBackend{
		name:    name,
		baseURL: strings.TrimRight(baseURL, "/"),
		table:   table,
		anonKey: anonKey,
		client:  client,
	}
}

func (b *RESTBackend) Name() string {
	return b.name
}

// Search selects rows whose name contains the query text, case-insensitively.
// Page-style queries are translated to an offset.
func (b *RESTBackend) Search(ctx context.Context, q Query) ([]domain.SearchResult, error) {
	offset := q.Offset
	if q.UsesPage() {
		offset = (q.Page - 1) * q.PageSize
	}

	params := url.Values{}
	params.Set("select", restColumns)
	params.Set("name", "ilike."+ilikePattern(q.Text))
	params.Set("limit", strconv.Itoa(q.PageSize))
	params.Set("offset", strconv.Itoa(offset))

	endpoint := fmt.Sprintf("%s/rest/v1/%s?%s", b.baseURL, url.PathEscape(b.table), params.Encode())

	header := http.Header{}
	header.Set("apikey", b.anonKey)
	header.Set("Authorization", "Bearer "+b.anonKey)

	body, err := get(ctx, b.client, b.name, endpoint, header)
	if err != nil {
		return nil, err
	}

	items, err := decodeResults(body)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", b.name, err)
	}
	return items, nil
}

// ilikePattern wraps text in PostgREST wildcards. Reserved characters in the
// user text are stripped so they cannot alter the filter.
func ilikePattern(text string) string {
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case '*', '%', ',', '(', ')':
			return -1
		}
		return r
	}, text)
	return "*" + cleaned + "*"
}
