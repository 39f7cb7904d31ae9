package ui

import "github.com/charmbracelet/bubbles/key"

// KeyMap holds the editor's key bindings and feeds the help line
type KeyMap struct {
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Next     key.Binding
	Prev     key.Binding
	Edit     key.Binding
	Clear    key.Binding
	Cancel   key.Binding
	Save     key.Binding
	Reload   key.Binding
	Help     key.Binding
	Quit     key.Binding
	ForceQ   key.Binding
}

// DefaultKeyMap returns the standard bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "위")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "아래")),
		PageUp:   key.NewBinding(key.WithKeys("pgup"), key.WithHelp("pgup", "위로 한 페이지")),
		PageDown: key.NewBinding(key.WithKeys("pgdown"), key.WithHelp("pgdn", "아래로 한 페이지")),
		Next:     key.NewBinding(key.WithKeys("tab", "right", "l"), key.WithHelp("tab/→", "다음 항목")),
		Prev:     key.NewBinding(key.WithKeys("shift+tab", "left", "h"), key.WithHelp("⇧tab/←", "이전 항목")),
		Edit:     key.NewBinding(key.WithKeys("enter", "e"), key.WithHelp("enter", "수정")),
		Clear:    key.NewBinding(key.WithKeys("x", "delete"), key.WithHelp("x", "지우기")),
		Cancel:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "취소")),
		Save:     key.NewBinding(key.WithKeys("ctrl+s", "s"), key.WithHelp("s", "저장")),
		Reload:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "다시 불러오기")),
		Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "도움말")),
		Quit:     key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "종료")),
		ForceQ:   key.NewBinding(key.WithKeys("ctrl+c")),
	}
}

// ShortHelp implements help.KeyMap
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Next, k.Edit, k.Save, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.PageUp, k.PageDown},
		{k.Next, k.Prev, k.Edit, k.Clear, k.Cancel},
		{k.Save, k.Reload, k.Help, k.Quit},
	}
}
