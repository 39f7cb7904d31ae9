package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// StatusKind colours the status line
type StatusKind int

const (
	StatusInfo StatusKind = iota
	StatusOK
	StatusWarn
	StatusErr
)

// SlotRow is one entry of the roster list
type SlotRow struct {
	Label   string
	Summary string
	Pitcher bool
	// Team marks the team-score row above the lineups
	Team bool
}

// FieldRow is one input of the detail panel
type FieldRow struct {
	Label       string
	Value       string
	Placeholder string
	Locked      bool
	// Editor is the rendered input while the field is being edited
	Editor string
}

// EditorState contains all the state needed for rendering the roster editor
type EditorState struct {
	Width  int
	Height int

	User      string
	Dirty     bool
	Loading   bool
	Saving    bool
	HelpView  string
	Confirm   string
	Status    string
	StatusFor StatusKind

	Slots         []SlotRow
	SelectedSlot  int
	VisibleStart  int
	VisibleEnd    int
	MoreAbove     bool
	MoreBelow     bool
	DetailTitle   string
	Fields        []FieldRow
	SelectedField int
	Editing       bool
}

// Renderer handles all view rendering
type Renderer struct {
	styles *Styles
}

// NewRenderer creates a new renderer
func NewRenderer(styles *Styles) *Renderer {
	if styles == nil {
		styles = NewStyles()
	}
	return &Renderer{styles: styles}
}

// Styles returns the renderer's styles
func (r *Renderer) Styles() *Styles {
	return r.styles
}

// Render renders the whole screen
func (r *Renderer) Render(st EditorState) string {
	var b strings.Builder

	b.WriteString(r.header(st))
	b.WriteString("\n")

	body := lipgloss.JoinHorizontal(lipgloss.Top,
		r.slotList(st),
		"  ",
		r.detail(st),
	)
	b.WriteString(body)
	b.WriteString("\n")
	b.WriteString(r.statusLine(st))
	if st.HelpView != "" {
		b.WriteString("\n")
		b.WriteString(r.styles.Help.Render(st.HelpView))
	}

	out := r.styles.Main.Render(b.String())
	if st.Confirm != "" && st.Width > 0 && st.Height > 0 {
		return lipgloss.Place(st.Width, st.Height, lipgloss.Center, lipgloss.Center,
			r.styles.Popup.Render(st.Confirm))
	}
	if st.Confirm != "" {
		return out + "\n" + r.styles.Popup.Render(st.Confirm)
	}
	return out
}

func (r *Renderer) header(st EditorState) string {
	title := r.styles.Title.Render("ZASK · 내 팀 정보")
	var who string
	if st.User != "" {
		who = r.styles.StatusSuccess.Render("● " + st.User)
	} else {
		who = r.styles.Dim.Render("○ 로그인하지 않음")
	}
	flags := ""
	switch {
	case st.Loading:
		flags = r.styles.StatusLoading.Render("  불러오는 중...")
	case st.Saving:
		flags = r.styles.StatusLoading.Render("  저장 중...")
	case st.Dirty:
		flags = r.styles.Highlight.Render("  ● 저장되지 않은 변경")
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, title, "   ", who, flags)
}

func (r *Renderer) slotList(st EditorState) string {
	var lines []string
	if st.MoreAbove {
		lines = append(lines, r.styles.Dim.Render("  ▲"))
	}

	section := ""
	for i := st.VisibleStart; i < st.VisibleEnd && i < len(st.Slots); i++ {
		slot := st.Slots[i]
		if s := slotSection(slot); s != section {
			section = s
			lines = append(lines, r.styles.Section.Render(section))
		}

		label := lipgloss.NewStyle().
			Foreground(PositionColor(slot.Pitcher)).
			Width(5).
			Render(slot.Label)
		if slot.Team {
			label = r.styles.Highlight.Width(5).Render(slot.Label)
		}
		line := fmt.Sprintf("%s %s", label, slot.Summary)
		if i == st.SelectedSlot {
			line = r.styles.SelectionBg.Render("▸ " + line)
		} else {
			line = "  " + line
		}
		lines = append(lines, line)
	}

	if st.MoreBelow {
		lines = append(lines, r.styles.Dim.Render("  ▼"))
	}
	return lipgloss.NewStyle().Width(34).Render(strings.Join(lines, "\n"))
}

func slotSection(slot SlotRow) string {
	switch {
	case slot.Team:
		return "팀"
	case slot.Pitcher:
		return "투수"
	default:
		return "타자"
	}
}

func (r *Renderer) detail(st EditorState) string {
	var lines []string
	lines = append(lines, r.styles.Section.Render(st.DetailTitle))

	for i, f := range st.Fields {
		label := r.styles.Label.Render(f.Label)
		var value string
		switch {
		case st.Editing && i == st.SelectedField && f.Editor != "":
			value = f.Editor
		case f.Locked:
			value = r.styles.Locked.Render(orDash(f.Value)) + r.styles.Dim.Render(" (고정)")
		case f.Value == "":
			value = r.styles.Dim.Render(orDash(f.Placeholder))
		default:
			value = r.styles.Value.Render(f.Value)
		}

		line := label + " " + value
		if i == st.SelectedField {
			line = r.styles.Prompt.Render("› ") + line
		} else {
			line = "  " + line
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func (r *Renderer) statusLine(st EditorState) string {
	if st.Status == "" {
		return r.styles.Status.Render(" ")
	}
	var s lipgloss.Style
	switch st.StatusFor {
	case StatusOK:
		s = r.styles.StatusSuccess
	case StatusWarn:
		s = r.styles.Highlight
	case StatusErr:
		s = r.styles.StatusError
	default:
		s = r.styles.StatusLoading
	}
	return r.styles.Status.Render(s.Render(st.Status))
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
