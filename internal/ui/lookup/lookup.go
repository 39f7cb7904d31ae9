// Package lookup is the player name field with its search-as-you-type
// dropdown.
package lookup

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"zask/internal/domain"
	"zask/internal/logging"
	"zask/internal/search"
	"zask/internal/ui/views"
)

var lastID atomic.Int64

func nextID() int {
	return int(lastID.Add(1))
}

// debounceMsg fires when the quiet period after a keystroke ends
type debounceMsg struct {
	id  int
	tag uint64
}

// resultMsg carries a finished search back to the event loop
type resultMsg struct {
	id   int
	resp search.Response
}

// SelectedMsg is emitted when the user picks a result
type SelectedMsg struct {
	ID   int
	Item domain.SearchResult
}

// KeyMap binds the dropdown keys
type KeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Select key.Binding
	Close  key.Binding
}

// DefaultKeyMap returns the standard bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up:     key.NewBinding(key.WithKeys("up", "ctrl+p"), key.WithHelp("↑", "이전")),
		Down:   key.NewBinding(key.WithKeys("down", "ctrl+n"), key.WithHelp("↓", "다음")),
		Select: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "선택")),
		Close:  key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "닫기")),
	}
}

// Options configures a Model
type Options struct {
	Debounce     time.Duration
	PageSize     int
	LoadMoreSize int
	// Threshold is how close to the last row the cursor must get before
	// the next page is requested
	Threshold int
	// MaxRows caps the visible dropdown height
	MaxRows int
	Styles  *views.Styles
	KeyMap  *KeyMap
}

// Model is a Bubble Tea component. The event loop is the only writer of
// its session; searches run inside commands and report back as messages.
type Model struct {
	id        int
	input     textinput.Model
	session   *search.Session
	searcher  search.Searcher
	delay     time.Duration
	threshold int
	maxRows   int
	cursor    int
	offset    int
	keys      KeyMap
	styles    *views.Styles
}

// New creates a lookup that queries searcher
func New(searcher search.Searcher, opts Options) Model {
	ti := textinput.New()
	ti.Placeholder = "선수 이름"
	ti.CharLimit = 40
	ti.Prompt = "› "

	if opts.MaxRows <= 0 {
		opts.MaxRows = 8
	}
	if opts.Threshold < 0 {
		opts.Threshold = 2
	}
	if opts.Styles == nil {
		opts.Styles = views.NewStyles()
	}
	keys := DefaultKeyMap()
	if opts.KeyMap != nil {
		keys = *opts.KeyMap
	}

	return Model{
		id:        nextID(),
		input:     ti,
		session:   search.NewSession(opts.PageSize, opts.LoadMoreSize, search.NewDebouncer(opts.Debounce)),
		searcher:  searcher,
		delay:     opts.Debounce,
		threshold: opts.Threshold,
		maxRows:   opts.MaxRows,
		keys:      keys,
		styles:    opts.Styles,
	}
}

// ID identifies this component in SelectedMsg
func (m Model) ID() int {
	return m.id
}

// Session exposes the search state for rendering and tests
func (m Model) Session() *search.Session {
	return m.session
}

// Cursor is the highlighted dropdown row
func (m Model) Cursor() int {
	return m.cursor
}

// Value returns the text in the input
func (m Model) Value() string {
	return m.input.Value()
}

// SetValue replaces the input text without searching
func (m *Model) SetValue(v string) {
	m.input.SetValue(v)
	m.input.CursorEnd()
	m.session.Reset()
	m.session.QueryText = v
	m.cursor, m.offset = 0, 0
}

// Focus gives the input keyboard focus
func (m *Model) Focus() tea.Cmd {
	return m.input.Focus()
}

// Blur removes focus and hides the dropdown
func (m *Model) Blur() {
	m.input.Blur()
	m.session.Close()
}

// Focused reports whether the input has focus
func (m Model) Focused() bool {
	return m.input.Focused()
}

// DropdownOpen reports whether the dropdown is showing, so a parent can
// leave navigation keys to it
func (m Model) DropdownOpen() bool {
	return m.session.DropdownVisible
}

// SetWidth sets the input width
func (m *Model) SetWidth(w int) {
	m.input.Width = w
}

// Keys returns the key bindings for a help line
func (m Model) Keys() KeyMap {
	return m.keys
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case debounceMsg:
		if msg.id != m.id {
			return m, nil
		}
		req, ok := m.session.Fire(msg.tag)
		if !ok {
			return m, nil
		}
		m.cursor, m.offset = 0, 0
		return m, m.fetch(req)

	case resultMsg:
		if msg.id != m.id {
			return m, nil
		}
		if m.session.Apply(msg.resp) {
			m.clampCursor()
		}
		return m, nil

	case tea.KeyMsg:
		if !m.input.Focused() {
			return m, nil
		}
		if m.session.DropdownVisible {
			if cmd, handled := m.handleDropdownKey(msg); handled {
				return m, cmd
			}
		}
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if after := m.input.Value(); after != before {
		return m, tea.Batch(cmd, m.textChanged(after))
	}
	return m, cmd
}

func (m *Model) handleDropdownKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch {
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.session.Results)-1 {
			m.cursor++
		}
		m.scroll()
		return m.maybeLoadMore(), true

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
		m.scroll()
		return nil, true

	case key.Matches(msg, m.keys.Select):
		item, ok := m.session.Select(m.cursor)
		if !ok {
			return nil, true
		}
		m.input.SetValue(item.Name)
		m.input.CursorEnd()
		m.cursor, m.offset = 0, 0
		id := m.id
		return func() tea.Msg { return SelectedMsg{ID: id, Item: item} }, true

	case key.Matches(msg, m.keys.Close):
		m.session.Close()
		return nil, true
	}
	return nil, false
}

// textChanged updates the session for new input text and arms the
// debounce timer. Empty text clears the dropdown immediately.
func (m *Model) textChanged(text string) tea.Cmd {
	m.cursor, m.offset = 0, 0
	tag, ok := m.session.SetText(text)
	if !ok {
		return nil
	}
	id := m.id
	return tea.Tick(m.delay, func(time.Time) tea.Msg {
		return debounceMsg{id: id, tag: tag}
	})
}

func (m *Model) maybeLoadMore() tea.Cmd {
	if !m.session.NearEnd(m.cursor, m.threshold) {
		return nil
	}
	req, ok := m.session.LoadMore()
	if !ok {
		return nil
	}
	return m.fetch(req)
}

// fetch runs req through the searcher off the event loop
func (m Model) fetch(req search.Request) tea.Cmd {
	id, searcher := m.id, m.searcher
	return func() tea.Msg {
		ctx := context.Background()
		logger := logging.L()
		logger.Debug().
			Str(logging.FieldComponent, "lookup").
			Str(logging.FieldQuery, req.Query.Text).
			Int(logging.FieldLimit, req.Query.PageSize).
			Int(logging.FieldOffset, req.Query.Offset).
			Uint64(logging.FieldSeq, req.Seq).
			Msg("search fired")

		res, err := searcher.Search(ctx, req.Query)
		return resultMsg{id: id, resp: search.Response{
			Request: req,
			Items:   res.Items,
			Backend: res.Backend,
			Err:     err,
		}}
	}
}

func (m *Model) clampCursor() {
	if n := len(m.session.Results); m.cursor >= n {
		m.cursor = max(n-1, 0)
	}
	m.scroll()
}

// scroll keeps the cursor inside the visible window
func (m *Model) scroll() {
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+m.maxRows {
		m.offset = m.cursor - m.maxRows + 1
	}
}

func (m Model) View() string {
	input := m.input.View()
	if !m.session.DropdownVisible {
		return input
	}
	return lipgloss.JoinVertical(lipgloss.Left, input, m.styles.Dropdown.Render(m.dropdown()))
}

func (m Model) dropdown() string {
	s := m.session
	var b strings.Builder

	switch s.Status() {
	case search.StatusFailed:
		b.WriteString(m.styles.StatusError.Render("검색 실패: " + s.LastError))
		return b.String()
	case search.StatusLoading:
		b.WriteString(m.styles.StatusLoading.Render("검색 중..."))
		return b.String()
	case search.StatusEmpty:
		b.WriteString(m.styles.Dim.Render("검색 결과가 없습니다"))
		return b.String()
	case search.StatusIdle:
		b.WriteString(m.styles.Dim.Render("이름을 입력하세요"))
		return b.String()
	}

	end := min(m.offset+m.maxRows, len(s.Results))
	for i := m.offset; i < end; i++ {
		if i > m.offset {
			b.WriteString("\n")
		}
		b.WriteString(m.row(i, s.Results[i]))
	}

	switch {
	case s.IsLoading:
		b.WriteString("\n" + m.styles.StatusLoading.Render("더 불러오는 중..."))
	case s.LastError != "":
		b.WriteString("\n" + m.styles.StatusError.Render(s.LastError))
	case s.HasMore:
		b.WriteString("\n" + m.styles.Dim.Render(fmt.Sprintf("%d건 · ↓ 더 보기", len(s.Results))))
	}
	return b.String()
}

func (m Model) row(i int, r domain.SearchResult) string {
	meta := Describe(r)
	line := r.Name
	if meta != "" {
		line += "  " + m.styles.DropdownMeta.Render(meta)
	}
	if i == m.cursor {
		return m.styles.DropdownFocus.Render("▸ " + line)
	}
	return m.styles.DropdownItem.Render("  " + line)
}

// Describe renders the optional attributes of a result on one line
func Describe(r domain.SearchResult) string {
	var parts []string
	for _, p := range []*string{r.CardType, r.Year, r.Team, r.Position} {
		if p != nil && *p != "" {
			parts = append(parts, *p)
		}
	}
	if r.OVR != nil {
		parts = append(parts, "OVR "+search.FormatOVR(*r.OVR))
	}
	return strings.Join(parts, " · ")
}
