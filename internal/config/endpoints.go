package config

import "strings"

// EndpointKind selects the wire protocol of a search candidate
type EndpointKind int

const (
	// KindSearchAPI speaks the zask players search API (q/limit/page|offset)
	KindSearchAPI EndpointKind = iota
	// KindREST queries a PostgREST style table directly
	KindREST
)

func (k EndpointKind) String() string {
	switch k {
	case KindSearchAPI:
		return "search-api"
	case KindREST:
		return "rest"
	default:
		return "unknown"
	}
}

// Endpoint describes one search candidate
type Endpoint struct {
	Name    string
	Kind    EndpointKind
	URL     string
	AnonKey string
	Table   string
}

// Endpoints is the ordered list of search candidates, resolved once at startup
type Endpoints struct {
	Candidates []Endpoint
}

// Endpoints resolves the fallback chain: primary API, local development
// backend, then the REST table. Candidates without an address are left out,
// as is a REST candidate without an anon key.
func (c *Config) Endpoints() Endpoints {
	var eps Endpoints

	if primary := c.API.ResolvedBaseURL(); primary != "" {
		eps.Candidates = append(eps.Candidates, Endpoint{
			Name: "primary",
			Kind: KindSearchAPI,
			URL:  primary,
		})
	}

	if local := strings.TrimRight(strings.TrimSpace(c.Search.LocalURL), "/"); local != "" {
		eps.Candidates = append(eps.Candidates, Endpoint{
			Name: "local",
			Kind: KindSearchAPI,
			URL:  local,
		})
	}

	rest := c.Search.REST
	if url := strings.TrimRight(strings.TrimSpace(rest.URL), "/"); url != "" && rest.AnonKey != "" {
		eps.Candidates = append(eps.Candidates, Endpoint{
			Name:    "rest",
			Kind:    KindREST,
			URL:     url,
			AnonKey: rest.AnonKey,
			Table:   rest.Table,
		})
	}

	return eps
}
