//go:build e2e && unix

package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

// fakeBackend serves the zask API endpoints the app talks to
type fakeBackend struct {
	srv *httptest.Server

	mu       sync.Mutex
	signedIn bool
	team     map[string]any
	queries  []string
	saved    []map[string]any
	chats    [][]map[string]string
	feedback []map[string]string
}

func newFakeBackend(t *testing.T, signedIn bool) *fakeBackend {
	t.Helper()
	fb := &fakeBackend{signedIn: signedIn}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/auth/session", func(w http.ResponseWriter, r *http.Request) {
		fb.mu.Lock()
		defer fb.mu.Unlock()
		if !fb.signedIn {
			writeJSON(w, map[string]any{})
			return
		}
		writeJSON(w, map[string]any{"user": map[string]string{"name": "홍길동", "email": "hong@example.com"}})
	})
	mux.HandleFunc("POST /api/auth/signout", func(w http.ResponseWriter, r *http.Request) {
		fb.mu.Lock()
		fb.signedIn = false
		fb.mu.Unlock()
		writeJSON(w, map[string]any{})
	})
	mux.HandleFunc("GET /api/user/team", func(w http.ResponseWriter, r *http.Request) {
		fb.mu.Lock()
		defer fb.mu.Unlock()
		writeJSON(w, map[string]any{"team": fb.team})
	})
	mux.HandleFunc("POST /api/user/team", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		fb.mu.Lock()
		fb.saved = append(fb.saved, body)
		fb.team = body
		fb.mu.Unlock()
		writeJSON(w, map[string]any{"ok": true})
	})
	mux.HandleFunc("GET /api/players/search", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query().Get("q")
		fb.mu.Lock()
		fb.queries = append(fb.queries, q)
		fb.mu.Unlock()

		var rows []map[string]any
		for _, p := range catalog {
			if strings.Contains(p["name"].(string), q) {
				rows = append(rows, p)
			}
		}
		writeJSON(w, map[string]any{"results": rows})
	})
	mux.HandleFunc("POST /api/chat", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Messages []map[string]string `json:"messages"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		fb.mu.Lock()
		fb.chats = append(fb.chats, body.Messages)
		fb.mu.Unlock()
		writeJSON(w, map[string]string{"reply": "선발 투수는 양현종을 추천합니다"})
	})
	mux.HandleFunc("POST /api/email", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		fb.mu.Lock()
		fb.feedback = append(fb.feedback, body)
		fb.mu.Unlock()
		writeJSON(w, map[string]bool{"ok": true})
	})

	fb.srv = httptest.NewServer(mux)
	t.Cleanup(fb.srv.Close)
	return fb
}

// URL is the API base the app should use
func (fb *fakeBackend) URL() string {
	return fb.srv.URL + "/api"
}

func (fb *fakeBackend) Queries() []string {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	return append([]string(nil), fb.queries...)
}

func (fb *fakeBackend) Saved() []map[string]any {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	return append([]map[string]any(nil), fb.saved...)
}

var catalog = []map[string]any{
	{"name": "이종범", "cardType": "임팩트", "team": "해태", "position": "SS", "ovr": 102},
	{"name": "이종범", "cardType": "시그니처", "year": "1997", "team": "해태", "position": "SS", "ovr": 99},
	{"name": "양현종", "cardType": "골든글러브", "year": "2017", "team": "KIA", "position": "SP", "ovr": 101},
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
