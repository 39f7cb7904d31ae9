package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zask/internal/domain"
)

func newTestClient(t *testing.T, h http.HandlerFunc, opts ...Option) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL+"/api/", time.Second, opts...)
}

func TestFetchTeam(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/user/team", r.URL.Path)
		w.Write([]byte(`{"team":{"totalSetDeckScore":"1200","totalOvr":"88","players":{"SS":{"name":"박찬호","year":"2024"}}}}`))
	})

	team, err := c.FetchTeam(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "1200", team.TotalSetDeckScore)
	assert.Equal(t, "박찬호", team.Players["SS"].Get(domain.FieldName))
}

func TestFetchTeamMissing(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	})

	team, err := c.FetchTeam(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, team.Players)
	assert.Empty(t, team.Players)
}

func TestSaveTeam(t *testing.T) {
	var got domain.Team
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusCreated)
	})

	team := domain.NewTeam()
	team.TotalOvr = "90"
	team.Players["C"] = domain.PlayerRecord{domain.FieldName: "양의지"}
	require.NoError(t, c.SaveTeam(context.Background(), team))

	assert.Equal(t, "90", got.TotalOvr)
	assert.Equal(t, "양의지", got.Players["C"][domain.FieldName])
}

func TestStatusError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, err := c.FetchTeam(context.Background())
	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusUnauthorized, se.Code)
	assert.Equal(t, "/user/team", se.Path)
	assert.Contains(t, err.Error(), "401")
}

func TestFetchSession(t *testing.T) {
	signedIn := true
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if signedIn {
			w.Write([]byte(`{"user":{"name":"홍길동","email":"h@example.com"},"expires":"2026-12-01"}`))
			return
		}
		w.Write([]byte(`{}`))
	})

	sess, err := c.FetchSession(context.Background())
	require.NoError(t, err)
	require.NotNil(t, sess)
	assert.Equal(t, "홍길동", sess.User.Name)

	signedIn = false
	sess, err = c.FetchSession(context.Background())
	require.NoError(t, err)
	assert.Nil(t, sess)
}

func TestSessionCookieIsSent(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		ck, err := r.Cookie("authjs.session-token")
		if !assert.NoError(t, err) {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		assert.Equal(t, "abc", ck.Value)
		w.Write([]byte(`{}`))
	}, WithSessionCookie("authjs.session-token=abc"))

	_, err := c.FetchSession(context.Background())
	require.NoError(t, err)
}

func TestSignOut(t *testing.T) {
	var path string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
	})

	require.NoError(t, c.SignOut(context.Background()))
	assert.Equal(t, "/api/auth/signout", path)
	assert.Contains(t, c.SignInURL(), "/api/auth/signin/google")
}

func TestSendChatMapsRoles(t *testing.T) {
	var body struct {
		Messages []chatMessage `json:"messages"`
	}
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/chat", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.Write([]byte(`{"reply":"김도영을 추천해요"}`))
	})

	reply, err := c.SendChat(context.Background(), []domain.ChatMessage{
		{Sender: domain.SenderUser, Text: "3루수 추천"},
		{Sender: domain.SenderAI, Text: "예산은?"},
		{Sender: domain.SenderUser, Text: "무제한"},
	})
	require.NoError(t, err)
	assert.Equal(t, "김도영을 추천해요", reply)
	assert.Equal(t, []chatMessage{
		{Role: "user", Content: "3루수 추천"},
		{Role: "assistant", Content: "예산은?"},
		{Role: "user", Content: "무제한"},
	}, body.Messages)
}

func TestSendChatEmpty(t *testing.T) {
	c := NewClient("http://127.0.0.1:1", time.Second)
	_, err := c.SendChat(context.Background(), nil)
	assert.ErrorIs(t, err, ErrEmptyMessage)
	_, err = c.SendChat(context.Background(), []domain.ChatMessage{{Sender: domain.SenderUser, Text: "  "}})
	assert.ErrorIs(t, err, ErrEmptyMessage)
}

func TestSendFeedback(t *testing.T) {
	var raw []byte
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/email", r.URL.Path)
		raw, _ = io.ReadAll(r.Body)
	})

	kind, ok := ParseFeedbackType("Dislike")
	require.True(t, ok)
	require.NoError(t, c.SendFeedback(context.Background(), kind, "검색이 느려요"))
	assert.JSONEq(t, `{"type":"dislike","message":"검색이 느려요"}`, string(raw))

	_, ok = ParseFeedbackType("meh")
	assert.False(t, ok)
	assert.ErrorIs(t, c.SendFeedback(context.Background(), FeedbackLike, ""), ErrEmptyMessage)
}
