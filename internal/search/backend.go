package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"zask/internal/domain"
)

// maxBodySize caps how much of a search response is read
const maxBodySize = 4 << 20

// Backend is one search candidate in the fallback chain
type Backend interface {
	Name() string
	Search(ctx context.Context, q Query) ([]domain.SearchResult, error)
}

// StatusError reports a non-2xx answer from a backend
type StatusError struct {
	Backend string
	Code    int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: HTTP %d %s", e.Backend, e.Code, http.StatusText(e.Code))
}

// HTTPBackend queries the zask players search endpoint
type HTTPBackend struct {
	name    string
	baseURL string
	client  *http.Client
}

// NewHTTPBackend creates a backend for {baseURL}/players/search.
// The client should carry the cookie jar holding the user's session.
func NewHTTPBackend(name, baseURL string, client *http.Client) *HTTPBackend {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPBackend{
		name:    name,
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
	}
}

func (b *HTTPBackend) Name() string {
	return b.name
}

// Search issues GET /players/search?q=&limit=&page|offset=
func (b *HTTPBackend) Search(ctx context.Context, q Query) ([]domain.SearchResult, error) {
	params := url.Values{}
	params.Set("q", q.Text)
	params.Set("limit", strconv.Itoa(q.PageSize))
	if q.UsesPage() {
		params.Set("page", strconv.Itoa(q.Page))
	} else {
		params.Set("offset", strconv.Itoa(q.Offset))
	}

	endpoint := b.baseURL + "/players/search?" + params.Encode()
	body, err := get(ctx, b.client, b.name, endpoint, nil)
	if err != nil {
		return nil, err
	}

	items, err := decodeResults(body)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", b.name, err)
	}
	return items, nil
}

// get performs the request and returns the body of a 2xx response
func get(ctx context.Context, client *http.Client, name, endpoint string, header http.Header) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build request: %w", name, err)
	}
	req.Header.Set("Accept", "application/json")
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodySize))
		return nil, &StatusError{Backend: name, Code: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("%s: failed to read response: %w", name, err)
	}
	return body, nil
}

// decodeResults accepts either a bare array of results or an object with a
// "results" array. Any other shape carries zero results.
func decodeResults(body []byte) ([]domain.SearchResult, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return nil, nil
	}

	var rows []wireResult
	switch body[0] {
	case '[':
		if err := json.Unmarshal(body, &rows); err != nil {
			return nil, fmt.Errorf("failed to decode results: %w", err)
		}
	case '{':
		var envelope struct {
			Results []wireResult `json:"results"`
		}
		if err := json.Unmarshal(body, &envelope); err != nil {
			return nil, fmt.Errorf("failed to decode results: %w", err)
		}
		rows = envelope.Results
	default:
		if !json.Valid(body) {
			return nil, fmt.Errorf("failed to decode results: invalid JSON")
		}
		return nil, nil
	}

	items := make([]domain.SearchResult, 0, len(rows))
	for _, r := range rows {
		items = append(items, r.toDomain())
	}
	return items, nil
}

// wireResult tolerates the loose typing of the different backends:
// the REST table calls the card type "type", and year or ovr may arrive as
// either strings or numbers.
type wireResult struct {
	Name     string          `json:"name"`
	CardType *string         `json:"cardType"`
	Type     *string         `json:"type"`
	Subtype  *string         `json:"subtype"`
	Team     *string         `json:"team"`
	Year     *flexString     `json:"year"`
	Position *string         `json:"position"`
	OVR      json.RawMessage `json:"ovr"`
}

func (w wireResult) toDomain() domain.SearchResult {
	item := domain.SearchResult{
		Name:     w.Name,
		CardType: w.CardType,
		Subtype:  w.Subtype,
		Team:     w.Team,
		Position: w.Position,
	}
	if item.CardType == nil {
		item.CardType = w.Type
	}
	if w.Year != nil {
		y := string(*w.Year)
		item.Year = &y
	}
	item.OVR = parseOVR(w.OVR)
	return item
}

// flexString decodes a JSON string or number into a string
type flexString string

func (s *flexString) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*s = flexString(v)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("year: %w", err)
	}
	*s = flexString(n.String())
	return nil
}

// parseOVR reads a JSON number or numeric string. Anything else, including
// an empty string, is treated as absent so one bad row does not fail a page.
func parseOVR(raw json.RawMessage) *float64 {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}
	text := string(raw)
	if raw[0] == '"' {
		if err := json.Unmarshal(raw, &text); err != nil {
			return nil
		}
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil {
		return nil
	}
	return &f
}
