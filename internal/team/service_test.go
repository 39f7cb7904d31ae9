package team

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zask/internal/domain"
	"zask/internal/eventbus"
)

type fakeBackend struct {
	mu      sync.Mutex
	team    *domain.Team
	saved   *domain.Team
	sess    *domain.Session
	err     error
	sessErr error
}

func (f *fakeBackend) FetchTeam(ctx context.Context) (*domain.Team, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.team, f.err
}

func (f *fakeBackend) SaveTeam(ctx context.Context, team *domain.Team) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saved = team
	return f.err
}

func (f *fakeBackend) FetchSession(ctx context.Context) (*domain.Session, error) {
	return f.sess, f.sessErr
}

type memCache struct {
	sess *domain.Session
}

func (m *memCache) LoadSession() (*domain.Session, error) {
	if m.sess == nil {
		return nil, errors.New("not found")
	}
	return m.sess, nil
}

func (m *memCache) SaveSession(sess *domain.Session) error {
	m.sess = sess
	return nil
}

func waitFor(t *testing.T, bus eventbus.EventBus, typ eventbus.EventType) <-chan eventbus.DomainEvent {
	t.Helper()
	ch := make(chan eventbus.DomainEvent, 1)
	unsub := bus.Subscribe(typ, func(e eventbus.DomainEvent) {
		select {
		case ch <- e:
		default:
		}
	})
	t.Cleanup(unsub)
	return ch
}

func receive(t *testing.T, ch <-chan eventbus.DomainEvent) eventbus.DomainEvent {
	t.Helper()
	select {
	case e := <-ch:
		return e
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
		return nil
	}
}

func TestLoadRequestPublishesTeam(t *testing.T) {
	bus := eventbus.New()
	defer bus.Close()

	team := domain.NewTeam()
	team.TotalOvr = "87"
	svc := NewService(bus, &fakeBackend{team: team}, nil, time.Second)
	defer svc.Close()

	loaded := waitFor(t, bus, eventbus.EventTeamLoaded)
	bus.Publish(eventbus.TeamLoadRequestedEvent{})

	e := receive(t, loaded).(eventbus.TeamLoadedEvent)
	assert.Equal(t, "87", e.Team.TotalOvr)
}

func TestSaveFailurePublishesError(t *testing.T) {
	bus := eventbus.New()
	defer bus.Close()

	svc := NewService(bus, &fakeBackend{err: errors.New("401")}, nil, time.Second)
	defer svc.Close()

	failed := waitFor(t, bus, eventbus.EventError)
	bus.Publish(eventbus.TeamSaveRequestedEvent{Team: domain.NewTeam()})

	e := receive(t, failed).(eventbus.ErrorEvent)
	assert.EqualError(t, e.Err, "401")
	assert.NotEmpty(t, e.Message)
}

func TestSaveSendsTeam(t *testing.T) {
	bus := eventbus.New()
	defer bus.Close()

	backend := &fakeBackend{}
	svc := NewService(bus, backend, nil, time.Second)
	defer svc.Close()

	saved := waitFor(t, bus, eventbus.EventTeamSaved)
	team := domain.NewTeam()
	team.Players["SP1"] = domain.PlayerRecord{domain.FieldName: "류현진"}
	bus.Publish(eventbus.TeamSaveRequestedEvent{Team: team, Revision: 7})

	e := receive(t, saved).(eventbus.TeamSavedEvent)
	assert.Equal(t, uint64(7), e.Revision)
	backend.mu.Lock()
	defer backend.mu.Unlock()
	require.NotNil(t, backend.saved)
	assert.Equal(t, "류현진", backend.saved.Players["SP1"].Get(domain.FieldName))
}

func TestResolveSession(t *testing.T) {
	bus := eventbus.New()
	defer bus.Close()

	user := &domain.User{Name: "홍길동"}
	cache := &memCache{}
	backend := &fakeBackend{sess: &domain.Session{User: user}}
	svc := NewService(bus, backend, cache, time.Second)
	defer svc.Close()

	resolved := waitFor(t, bus, eventbus.EventSessionResolved)
	got := svc.ResolveSession(context.Background())
	assert.Equal(t, user, got)
	assert.Equal(t, user, receive(t, resolved).(eventbus.SessionResolvedEvent).User)
	require.NotNil(t, cache.sess, "session is cached")

	backend.sess, backend.sessErr = nil, errors.New("offline")
	assert.Equal(t, user, svc.ResolveSession(context.Background()), "cache is used when offline")

	backend.sessErr = nil
	assert.Nil(t, svc.ResolveSession(context.Background()))
	assert.Nil(t, cache.sess, "signed-out answer clears the cache")
}
