package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"

	"zask/internal/api"
	"zask/internal/config"
	"zask/internal/eventbus"
	"zask/internal/logging"
	"zask/internal/search"
	"zask/internal/store"
	"zask/internal/team"
	"zask/internal/ui"
)

const usage = `zask - 컴투스프로야구 팀 관리 도우미

Usage:
  zask [flags]                          팀 편집기 열기
  zask ask [--new] <질문...>            AI에게 질문하기
  zask history [id]                     대화 기록 보기
  zask feedback <like|dislike> <내용>   개발자에게 의견 보내기
  zask login [--cookie name=value]      로그인 세션 등록
  zask logout                           로그아웃
  zask init                             기본 설정 파일 만들기

Flags:
`

// app bundles what every command needs
type app struct {
	bus       eventbus.EventBus
	configSvc config.ConfigService
	cfg       *config.Config
	client    *api.Client
	store     *store.Store
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "zask: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	command := ""
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		command, args = args[0], args[1:]
	}

	flags := pflag.NewFlagSet("zask", pflag.ContinueOnError)
	configPath := flags.StringP("config", "c", "", "config file (default "+config.DefaultDir()+"/config.toml)")
	flags.String("log-level", "", "log level: debug, info, warn, error")
	flags.String("api", "", "API base URL")
	flags.String("data-dir", "", "directory for the session cache, chat history and log")
	newChat := flags.Bool("new", false, "ask: start a new conversation")
	cookie := flags.String("cookie", "", "login: session cookie copied from the browser")
	flags.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
		flags.PrintDefaults()
	}
	if err := flags.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}

	bus := eventbus.New()
	defer bus.Close()

	configSvc := config.NewConfigServiceWithBus(*configPath, flags, bus)
	cfg, err := configSvc.Load()
	if err != nil {
		return err
	}

	closeLog, err := logging.Init(cfg.Log)
	if err != nil {
		return err
	}
	defer closeLog()

	logger := logging.L()
	logger.Info().
		Str("command", command).
		Str("config", configSvc.Path()).
		Str("api", cfg.API.ResolvedBaseURL()).
		Msg("starting zask")

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	ctx = logging.WithLogger(ctx, logger)
	defer audit(bus, logger)()

	a := &app{
		bus:       bus,
		configSvc: configSvc,
		cfg:       cfg,
		client:    newClient(cfg),
		store:     store.New(cfg.DataDir),
	}

	rest := flags.Args()
	switch command {
	case "", "edit":
		return a.runEditor(ctx)
	case "ask":
		return a.runAsk(ctx, rest, *newChat)
	case "history":
		return a.runHistory(rest)
	case "feedback":
		return a.runFeedback(ctx, rest)
	case "login":
		return a.runLogin(ctx, *cookie)
	case "logout":
		return a.runLogout(ctx)
	case "init":
		return a.runInit()
	default:
		flags.Usage()
		return fmt.Errorf("unknown command %q", command)
	}
}

// audit logs domain events nothing else consumes. The returned function
// unsubscribes.
func audit(bus eventbus.EventBus, logger zerolog.Logger) func() {
	unsubs := []func(){
		bus.Subscribe(eventbus.EventPlayerSelected, func(e eventbus.DomainEvent) {
			ev := e.(eventbus.PlayerSelectedEvent)
			logger.Info().
				Str(logging.FieldEvent, string(ev.Type())).
				Str(logging.FieldPosition, ev.Position).
				Str("player", ev.Player.Name).
				Msg("roster slot filled")
		}),
		bus.Subscribe(eventbus.EventSearchFailed, func(e eventbus.DomainEvent) {
			ev := e.(eventbus.SearchFailedEvent)
			logger.Warn().
				Str(logging.FieldEvent, string(ev.Type())).
				Str(logging.FieldQuery, ev.Query).
				Err(ev.Err).
				Msg("player search failed on every backend")
		}),
		bus.Subscribe(eventbus.EventConfigSaved, func(e eventbus.DomainEvent) {
			logger.Info().Str(logging.FieldEvent, string(e.Type())).Msg("config saved")
		}),
	}
	return func() {
		for _, u := range unsubs {
			u()
		}
	}
}

func newClient(cfg *config.Config) *api.Client {
	return api.NewClient(cfg.API.ResolvedBaseURL(), cfg.API.Timeout,
		api.WithSessionCookie(cfg.API.SessionCookie))
}

// runEditor opens the roster editor
func (a *app) runEditor(ctx context.Context) error {
	bus := a.bus
	teamSvc := team.NewService(bus, a.client, a.store, a.cfg.API.Timeout)
	defer teamSvc.Close()

	chain := search.NewChainFromEndpoints(a.cfg.Endpoints(), a.client.HTTPClient(), a.cfg.Search.Timeout)
	logger := logging.Ctx(ctx)
	logger.Info().Strs("candidates", chain.Backends()).Msg("search chain ready")

	model := ui.NewModel(bus, a.cfg, chain)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	// Set up event forwarding to UI
	eventChan := make(chan eventbus.DomainEvent, 100)
	forward := func(e eventbus.DomainEvent) {
		select {
		case eventChan <- e:
		default:
			logger.Warn().Str(logging.FieldEvent, string(e.Type())).Msg("event channel full, dropping event")
		}
	}
	for _, t := range []eventbus.EventType{
		eventbus.EventTeamLoaded,
		eventbus.EventTeamSaved,
		eventbus.EventSessionResolved,
		eventbus.EventError,
	} {
		defer bus.Subscribe(t, forward)()
	}

	go func() {
		for {
			select {
			case event := <-eventChan:
				p.Send(ui.EventMsg{Event: event})
			case <-ctx.Done():
				return
			}
		}
	}()

	go teamSvc.ResolveSession(ctx)

	_, err := p.Run()
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("error running program: %w", err)
	}
	return nil
}
