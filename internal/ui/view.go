package ui

import (
	"zask/internal/roster"
	"zask/internal/ui/views"
)

// View renders the editor
func (m *Model) View() string {
	return m.renderer.Render(m.viewState())
}

func (m *Model) viewState() views.EditorState {
	start, end := m.nav.VisibleRange()
	st := views.EditorState{
		Width:         m.width,
		Height:        m.height,
		Dirty:         m.form.Dirty(),
		Loading:       m.loading,
		Saving:        m.saving,
		Status:        m.status,
		StatusFor:     m.statusKind,
		SelectedSlot:  m.nav.SelectedIndex(),
		VisibleStart:  start,
		VisibleEnd:    end,
		MoreAbove:     m.nav.HasAbove(),
		MoreBelow:     m.nav.HasBelow(),
		SelectedField: m.fieldIndex,
		Editing:       m.mode == modeEdit,
		HelpView:      m.help.View(m.keys),
	}
	if m.user != nil {
		st.User = m.user.Name
		if st.User == "" {
			st.User = m.user.Email
		}
	}
	if m.mode == modeConfirmQuit {
		st.Confirm = "저장되지 않은 변경이 있습니다.\n그래도 종료할까요? (y/n)"
	}

	st.Slots = make([]views.SlotRow, 0, len(roster.Positions)+1)
	st.Slots = append(st.Slots, views.SlotRow{
		Label:   "팀",
		Summary: teamSummary(m.form),
		Team:    true,
	})
	for _, pos := range roster.Positions {
		st.Slots = append(st.Slots, views.SlotRow{
			Label:   pos,
			Summary: m.form.Summary(pos),
			Pitcher: roster.IsPitcher(pos),
		})
	}

	pos, isTeam := m.currentPosition()
	if isTeam {
		st.DetailTitle = "팀 점수"
	} else {
		st.DetailTitle = pos + " 선수 카드"
	}
	for i, f := range m.fields() {
		row := views.FieldRow{
			Label:       f.Label,
			Value:       m.currentValue(f.Key),
			Placeholder: f.Placeholder,
			Locked:      !isTeam && !m.form.FieldEditable(pos, f.Key),
		}
		if m.mode == modeEdit && i == m.fieldIndex {
			if f.Lookup {
				row.Editor = m.lookup.View()
			} else {
				row.Editor = m.input.View()
			}
		}
		st.Fields = append(st.Fields, row)
	}
	return st
}

func teamSummary(f *roster.Form) string {
	score := f.TeamValue(roster.TeamFieldSetDeckScore)
	ovr := f.TeamValue(roster.TeamFieldOvr)
	if score == "" && ovr == "" {
		return "미입력"
	}
	return "세트덱 " + orDash(score) + " · OVR " + orDash(ovr)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
