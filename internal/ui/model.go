package ui

import (
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"zask/internal/config"
	"zask/internal/domain"
	"zask/internal/eventbus"
	"zask/internal/logging"
	"zask/internal/roster"
	"zask/internal/search"
	"zask/internal/ui/logic"
	"zask/internal/ui/lookup"
	"zask/internal/ui/views"
)

// teamRow is the slot index of the team-score row; positions follow it
const teamRow = 0

type mode int

const (
	modeBrowse mode = iota
	modeEdit
	modeConfirmQuit
)

// Model represents the roster editor
type Model struct {
	bus    eventbus.EventBus
	config *config.Config

	form       *roster.Form
	nav        *logic.Navigator
	fieldIndex int
	mode       mode

	lookup lookup.Model
	input  textinput.Model

	width    int
	height   int
	help     help.Model
	keys     KeyMap
	showHelp bool
	renderer *views.Renderer

	user       *domain.User
	loading    bool
	saving     bool
	status     string
	statusKind views.StatusKind
	statusID   int
}

// NewModel creates the editor. searcher backs the player name lookup.
func NewModel(bus eventbus.EventBus, cfg *config.Config, searcher search.Searcher) *Model {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	renderer := views.NewRenderer(views.NewStyles())
	if bus != nil && searcher != nil {
		searcher = notifyingSearcher{Searcher: searcher, bus: bus}
	}

	ti := textinput.New()
	ti.CharLimit = 60
	ti.Prompt = "› "

	m := &Model{
		bus:      bus,
		config:   cfg,
		form:     roster.NewForm(nil),
		nav:      logic.NewNavigator(len(roster.Positions) + 1),
		input:    ti,
		help:     help.New(),
		keys:     DefaultKeyMap(),
		renderer: renderer,
		lookup: lookup.New(searcher, lookup.Options{
			Debounce:     cfg.Search.Debounce,
			PageSize:     cfg.Search.PageSize,
			LoadMoreSize: cfg.Search.LoadMoreSize,
			Threshold:    cfg.Search.LoadMoreThreshold,
			Styles:       renderer.Styles(),
		}),
	}
	m.nav.SetSelectedIndex(1)
	return m
}

// Form exposes the edited roster
func (m *Model) Form() *roster.Form {
	return m.form
}

// Init requests the saved team
func (m *Model) Init() tea.Cmd {
	m.requestLoad()
	return textinput.Blink
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.nav.SetViewportHeight(msg.Height - 10)
		m.lookup.SetWidth(msg.Width/2 - 16)
		m.input.Width = msg.Width/2 - 16
		return m, nil

	case EventMsg:
		return m, m.handleEvent(msg.Event)

	case clearStatusMsg:
		if msg.id == m.statusID {
			m.status = ""
		}
		return m, nil

	case lookup.SelectedMsg:
		if msg.ID != m.lookup.ID() {
			return m, nil
		}
		return m, m.applySelection(msg.Item)

	case tea.KeyMsg:
		return m, m.handleKey(msg)
	}

	// Everything else belongs to the inputs: debounce ticks, search
	// results and cursor blinks.
	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.lookup, cmd = m.lookup.Update(msg)
	cmds = append(cmds, cmd)
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if key.Matches(msg, m.keys.ForceQ) {
		return tea.Quit
	}

	switch m.mode {
	case modeConfirmQuit:
		switch msg.String() {
		case "y", "Y":
			return tea.Quit
		case "n", "N", "esc":
			m.mode = modeBrowse
		}
		return nil
	case modeEdit:
		return m.handleEditKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		if m.form.Dirty() {
			m.mode = modeConfirmQuit
			return nil
		}
		return tea.Quit
	case key.Matches(msg, m.keys.Up):
		m.nav.MoveUp()
		m.clampField()
	case key.Matches(msg, m.keys.Down):
		m.nav.MoveDown()
		m.clampField()
	case key.Matches(msg, m.keys.PageUp):
		m.nav.PageUp()
		m.clampField()
	case key.Matches(msg, m.keys.PageDown):
		m.nav.PageDown()
		m.clampField()
	case key.Matches(msg, m.keys.Next):
		m.moveField(1)
	case key.Matches(msg, m.keys.Prev):
		m.moveField(-1)
	case key.Matches(msg, m.keys.Edit):
		return m.startEdit()
	case key.Matches(msg, m.keys.Clear):
		cmd, _ := m.commit("")
		return cmd
	case key.Matches(msg, m.keys.Save):
		return m.requestSave()
	case key.Matches(msg, m.keys.Reload):
		if m.form.Dirty() {
			return m.setStatus("저장되지 않은 변경이 있습니다. 저장 후 다시 불러오세요", views.StatusWarn)
		}
		m.requestLoad()
	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		m.help.ShowAll = m.showHelp
	}
	return nil
}

func (m *Model) handleEditKey(msg tea.KeyMsg) tea.Cmd {
	field := m.currentField()

	if field.Lookup {
		// The dropdown owns navigation keys while it is open.
		if !m.lookup.DropdownOpen() {
			switch {
			case msg.Type == tea.KeyEnter, key.Matches(msg, m.keys.Cancel):
				return m.finishEdit(m.lookup.Value())
			case msg.Type == tea.KeyTab:
				cmd, ok := m.commit(m.lookup.Value())
				if ok {
					m.stopEdit()
					m.moveField(1)
				}
				return cmd
			}
		}
		var cmd tea.Cmd
		m.lookup, cmd = m.lookup.Update(msg)
		return cmd
	}

	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.stopEdit()
		return nil
	case msg.Type == tea.KeyEnter:
		return m.finishEdit(m.input.Value())
	case msg.Type == tea.KeyTab:
		cmd, ok := m.commit(m.input.Value())
		if ok {
			m.stopEdit()
			m.moveField(1)
		}
		return cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return cmd
}

func (m *Model) startEdit() tea.Cmd {
	field := m.currentField()
	pos, isTeam := m.currentPosition()

	if !isTeam && !m.form.FieldEditable(pos, field.Key) {
		return m.setStatus("임팩트 카드는 연도를 입력할 수 없습니다", views.StatusWarn)
	}

	m.mode = modeEdit
	if field.Lookup {
		m.lookup.SetValue(m.currentValue(field.Key))
		return m.lookup.Focus()
	}
	m.input.Placeholder = field.Placeholder
	m.input.SetValue(m.currentValue(field.Key))
	m.input.CursorEnd()
	return m.input.Focus()
}

// finishEdit stores value and leaves edit mode; a rejected value keeps the
// field open.
func (m *Model) finishEdit(value string) tea.Cmd {
	cmd, ok := m.commit(value)
	if ok {
		m.stopEdit()
	}
	return cmd
}

func (m *Model) stopEdit() {
	m.mode = modeBrowse
	m.lookup.Blur()
	m.input.Blur()
}

// commit writes value into the selected field
func (m *Model) commit(value string) (tea.Cmd, bool) {
	field := m.currentField()
	pos, isTeam := m.currentPosition()

	var err error
	if isTeam {
		err = m.form.SetTeamField(field.Key, value)
	} else {
		err = m.form.SetField(pos, field.Key, value)
	}
	switch {
	case errors.Is(err, roster.ErrYearLocked):
		m.stopEdit()
		return m.setStatus("임팩트 카드는 연도를 입력할 수 없습니다", views.StatusWarn), false
	case err != nil:
		return m.setStatus(err.Error(), views.StatusErr), false
	}
	return nil, true
}

func (m *Model) applySelection(item domain.SearchResult) tea.Cmd {
	pos, isTeam := m.currentPosition()
	if isTeam {
		return nil
	}
	if err := m.form.ApplySelection(pos, item); err != nil {
		return m.setStatus(err.Error(), views.StatusErr)
	}
	m.stopEdit()

	logger := logging.L()
	logger.Info().
		Str(logging.FieldComponent, "editor").
		Str(logging.FieldPosition, pos).
		Str(logging.FieldQuery, item.Name).
		Msg("player selected")
	if m.bus != nil {
		m.bus.Publish(eventbus.PlayerSelectedEvent{Position: pos, Player: item})
	}

	msg := fmt.Sprintf("%s: %s 선택", pos, item.Name)
	if !roster.IsYearEditable(m.form.Value(pos, domain.FieldCardType)) {
		msg += " (연도 고정)"
	}
	return m.setStatus(msg, views.StatusOK)
}

func (m *Model) handleEvent(e eventbus.DomainEvent) tea.Cmd {
	switch event := e.(type) {
	case eventbus.TeamLoadedEvent:
		m.loading = false
		m.form.Replace(event.Team)
		m.clampField()
		return m.setStatus(fmt.Sprintf("팀 정보를 불러왔습니다 (%d명)", len(event.Team.Players)), views.StatusOK)

	case eventbus.TeamSavedEvent:
		m.saving = false
		m.form.MarkSaved(event.Revision)
		return m.setStatus("팀 정보가 저장되었습니다", views.StatusOK)

	case eventbus.SessionResolvedEvent:
		m.user = event.User
		return nil

	case eventbus.ErrorEvent:
		m.loading = false
		m.saving = false
		text := event.Message
		if event.Err != nil {
			text = fmt.Sprintf("%s: %v", event.Message, event.Err)
		}
		return m.setStatus(text, views.StatusErr)
	}
	return nil
}

func (m *Model) requestLoad() {
	if m.bus == nil {
		return
	}
	m.loading = true
	m.bus.Publish(eventbus.TeamLoadRequestedEvent{})
}

func (m *Model) requestSave() tea.Cmd {
	if m.bus == nil || m.saving {
		return nil
	}
	if m.user == nil {
		return m.setStatus("로그인 후 저장할 수 있습니다", views.StatusWarn)
	}
	m.saving = true
	team, rev := m.form.Snapshot()
	m.bus.Publish(eventbus.TeamSaveRequestedEvent{Team: team, Revision: rev})
	return nil
}

// setStatus shows text and schedules it to be cleared
func (m *Model) setStatus(text string, kind views.StatusKind) tea.Cmd {
	m.statusID++
	m.status = text
	m.statusKind = kind
	id := m.statusID
	return tea.Tick(statusTTL, func(time.Time) tea.Msg {
		return clearStatusMsg{id: id}
	})
}

// currentPosition returns the selected roster slot, or isTeam for the
// team-score row
func (m *Model) currentPosition() (pos string, isTeam bool) {
	i := m.nav.SelectedIndex()
	if i == teamRow {
		return "", true
	}
	return roster.Positions[i-1], false
}

func (m *Model) fields() []roster.FieldSpec {
	if _, isTeam := m.currentPosition(); isTeam {
		return roster.TeamFields
	}
	return roster.PlayerFields
}

func (m *Model) currentField() roster.FieldSpec {
	return m.fields()[m.fieldIndex]
}

func (m *Model) currentValue(field string) string {
	pos, isTeam := m.currentPosition()
	if isTeam {
		return m.form.TeamValue(field)
	}
	return m.form.Value(pos, field)
}

func (m *Model) moveField(delta int) {
	n := len(m.fields())
	m.fieldIndex = (m.fieldIndex + delta + n) % n
}

func (m *Model) clampField() {
	if n := len(m.fields()); m.fieldIndex >= n {
		m.fieldIndex = n - 1
	}
}
