// Package team loads and saves the user's roster through the API.
package team

import (
	"context"
	"sync"
	"time"

	"zask/internal/domain"
	"zask/internal/eventbus"
	"zask/internal/logging"
)

// Backend is the part of the API client the service needs
type Backend interface {
	FetchTeam(ctx context.Context) (*domain.Team, error)
	SaveTeam(ctx context.Context, team *domain.Team) error
	FetchSession(ctx context.Context) (*domain.Session, error)
}

// SessionCache remembers the last known login across runs
type SessionCache interface {
	LoadSession() (*domain.Session, error)
	SaveSession(sess *domain.Session) error
}

// Service loads and saves the roster in response to bus events
type Service interface {
	Load(ctx context.Context) (*domain.Team, error)
	Save(ctx context.Context, team *domain.Team) error
	ResolveSession(ctx context.Context) *domain.User
	Close()
}

type service struct {
	bus     eventbus.EventBus
	backend Backend
	cache   SessionCache
	timeout time.Duration

	wg       sync.WaitGroup
	unsubs   []func()
	inflight sync.Mutex
}

// NewService subscribes to team requests on bus. cache may be nil.
func NewService(bus eventbus.EventBus, backend Backend, cache SessionCache, timeout time.Duration) Service {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	s := &service{bus: bus, backend: backend, cache: cache, timeout: timeout}

	s.unsubs = append(s.unsubs, bus.Subscribe(eventbus.EventTeamLoadRequested, func(e eventbus.DomainEvent) {
		if _, ok := e.(eventbus.TeamLoadRequestedEvent); !ok {
			return
		}
		s.run(func(ctx context.Context) {
			team, err := s.Load(ctx)
			if err != nil {
				bus.Publish(eventbus.ErrorEvent{Message: "팀 정보를 불러오지 못했습니다", Err: err})
				return
			}
			bus.Publish(eventbus.TeamLoadedEvent{Team: team})
		})
	}))

	s.unsubs = append(s.unsubs, bus.Subscribe(eventbus.EventTeamSaveRequested, func(e eventbus.DomainEvent) {
		event, ok := e.(eventbus.TeamSaveRequestedEvent)
		if !ok {
			return
		}
		s.run(func(ctx context.Context) {
			if err := s.Save(ctx, event.Team); err != nil {
				bus.Publish(eventbus.ErrorEvent{Message: "저장에 실패했습니다", Err: err})
				return
			}
			bus.Publish(eventbus.TeamSavedEvent{Revision: event.Revision})
		})
	}))

	return s
}

// run executes fn with a timeout; saves and loads are serialized
func (s *service) run(fn func(ctx context.Context)) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.inflight.Lock()
		defer s.inflight.Unlock()

		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()
		fn(ctx)
	}()
}

func (s *service) Load(ctx context.Context) (*domain.Team, error) {
	start := time.Now()
	team, err := s.backend.FetchTeam(ctx)
	logger := logging.Ctx(ctx)
	if err != nil {
		logger.Error().Err(err).Str(logging.FieldComponent, "team").Msg("team load failed")
		return nil, err
	}
	logger.Info().
		Str(logging.FieldComponent, "team").
		Int(logging.FieldCount, len(team.Players)).
		Dur(logging.FieldLatency, time.Since(start)).
		Msg("team loaded")
	return team, nil
}

func (s *service) Save(ctx context.Context, team *domain.Team) error {
	if team == nil {
		team = domain.NewTeam()
	}
	logger := logging.Ctx(ctx)
	if err := s.backend.SaveTeam(ctx, team); err != nil {
		logger.Error().Err(err).Str(logging.FieldComponent, "team").Msg("team save failed")
		return err
	}
	logger.Info().Str(logging.FieldComponent, "team").Int(logging.FieldCount, len(team.Players)).Msg("team saved")
	return nil
}

// ResolveSession asks the server who is signed in, falling back to the
// cached user when the server is unreachable, and publishes the outcome.
func (s *service) ResolveSession(ctx context.Context) *domain.User {
	logger := logging.Ctx(ctx)

	sess, err := s.backend.FetchSession(ctx)
	switch {
	case err == nil && sess != nil:
		if s.cache != nil {
			if err := s.cache.SaveSession(sess); err != nil {
				logger.Warn().Err(err).Msg("failed to cache session")
			}
		}
	case err == nil:
		if s.cache != nil {
			if err := s.cache.SaveSession(nil); err != nil {
				logger.Warn().Err(err).Msg("failed to clear cached session")
			}
		}
	default:
		logger.Warn().Err(err).Str(logging.FieldComponent, "team").Msg("session check failed, using cache")
		sess = nil
		if s.cache != nil {
			sess, _ = s.cache.LoadSession()
		}
	}

	var user *domain.User
	if sess != nil {
		user = sess.User
	}
	s.bus.Publish(eventbus.SessionResolvedEvent{User: user})
	return user
}

// Close unsubscribes and waits for running requests
func (s *service) Close() {
	for _, unsub := range s.unsubs {
		unsub()
	}
	s.wg.Wait()
}
