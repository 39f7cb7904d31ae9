package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/mattn/go-isatty"
	"github.com/noborus/ov/oviewer"

	"zask/internal/api"
	"zask/internal/domain"
	"zask/internal/logging"
	"zask/internal/store"
)

// runAsk sends a question to the assistant, continuing the latest
// conversation unless newChat is set
func (a *app) runAsk(ctx context.Context, args []string, newChat bool) error {
	question := strings.TrimSpace(strings.Join(args, " "))
	if question == "" {
		return api.ErrEmptyMessage
	}

	chat, err := a.store.Latest()
	if newChat || errors.Is(err, store.ErrNotFound) {
		chat, err = a.store.NewChat(question)
	}
	if err != nil {
		return err
	}

	msg := domain.ChatMessage{ID: uuid.NewString(), Sender: domain.SenderUser, Text: question}
	chat, err = a.store.Append(chat.ID, msg)
	if err != nil {
		return err
	}

	logger := logging.Ctx(ctx)
	logger.Info().Str("chat", chat.ID).Int(logging.FieldCount, len(chat.Messages)).Msg("asking")

	reply, err := a.client.SendChat(ctx, chat.Messages)
	if err != nil {
		return fmt.Errorf("질문 전송 실패: %w", err)
	}
	if _, err := a.store.Append(chat.ID, domain.ChatMessage{Sender: domain.SenderAI, Text: reply}); err != nil {
		return err
	}

	fmt.Println(reply)
	return nil
}

// runHistory lists saved conversations, newest first. Given an id it shows
// that transcript, paged when stdout is a terminal.
func (a *app) runHistory(args []string) error {
	if len(args) > 0 {
		chat, err := a.store.Find(args[0])
		if err != nil {
			return err
		}
		text := transcript(chat)
		if !isatty.IsTerminal(os.Stdout.Fd()) {
			fmt.Print(text)
			return nil
		}
		return page(text)
	}

	chats, err := a.store.History()
	if err != nil {
		return err
	}
	if len(chats) == 0 {
		fmt.Println("대화 기록이 없습니다")
		return nil
	}
	for _, c := range chats {
		fmt.Printf("%s  %-42s %d\n", shortID(c.ID), c.Title, len(c.Messages))
	}
	return nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func transcript(chat *domain.Chat) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", chat.Title)
	for _, m := range chat.Messages {
		who := "나"
		if m.Sender != domain.SenderUser {
			who = "ZASK"
		}
		fmt.Fprintf(&b, "[%s]\n%s\n\n", who, m.Text)
	}
	return b.String()
}

// page shows text in the ov pager
func page(text string) error {
	root, err := oviewer.NewRoot(strings.NewReader(text))
	if err != nil {
		return err
	}

	config := oviewer.NewConfig()
	config.IsWriteOnExit = false
	config.IsWriteOriginal = false
	root.SetConfig(config)

	return root.Run()
}

func (a *app) runFeedback(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return errors.New("usage: zask feedback <like|dislike> <message>")
	}
	kind, ok := api.ParseFeedbackType(args[0])
	if !ok {
		return fmt.Errorf("unknown feedback type %q", args[0])
	}
	if err := a.client.SendFeedback(ctx, kind, strings.Join(args[1:], " ")); err != nil {
		return fmt.Errorf("피드백 전송 실패: %w", err)
	}
	fmt.Println("소중한 의견 감사합니다!")
	return nil
}

// runLogin stores a browser session cookie in the config and verifies it.
// Without a cookie it prints where to sign in.
func (a *app) runLogin(ctx context.Context, cookie string) error {
	if cookie == "" {
		fmt.Printf("브라우저에서 로그인하세요: %s\n", a.client.SignInURL())
		fmt.Println("로그인 후 세션 쿠키를 복사해 다음과 같이 등록합니다:")
		fmt.Println("  zask login --cookie 'name=value'")
		return nil
	}

	a.cfg.API.SessionCookie = cookie
	client := newClient(a.cfg)
	sess, err := client.FetchSession(ctx)
	if err != nil {
		return fmt.Errorf("세션 확인 실패: %w", err)
	}
	if sess == nil {
		return errors.New("로그인되지 않은 쿠키입니다")
	}
	if err := a.saveCookie(cookie); err != nil {
		return err
	}
	if err := a.store.SaveSession(sess); err != nil {
		logger := logging.Ctx(ctx)
		logger.Warn().Err(err).Msg("failed to cache session")
	}
	fmt.Printf("%s (%s) 님으로 로그인했습니다\n", sess.User.Name, sess.User.Email)
	return nil
}

func (a *app) runLogout(ctx context.Context) error {
	if err := a.client.SignOut(ctx); err != nil {
		logger := logging.Ctx(ctx)
		logger.Warn().Err(err).Msg("sign out request failed")
	}
	if err := a.store.ClearSession(); err != nil {
		return err
	}
	if a.cfg.API.SessionCookie != "" {
		a.cfg.API.SessionCookie = ""
		if err := a.saveCookie(""); err != nil {
			return err
		}
	}
	fmt.Println("로그아웃했습니다")
	return nil
}

// saveCookie stores cookie in the config file without persisting env or flag overrides
func (a *app) saveCookie(cookie string) error {
	fileCfg, err := a.configSvc.LoadFile()
	if err != nil {
		return err
	}
	fileCfg.API.SessionCookie = cookie
	return a.configSvc.Save(fileCfg)
}

// runInit writes the default settings to the config file if none exists
func (a *app) runInit() error {
	path := a.configSvc.Path()
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists", path)
	}
	fileCfg, err := a.configSvc.LoadFile()
	if err != nil {
		return err
	}
	if err := a.configSvc.Save(fileCfg); err != nil {
		return err
	}
	fmt.Println("wrote", path)
	return nil
}
