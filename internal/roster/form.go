package roster

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"zask/internal/domain"
	"zask/internal/search"
)

var (
	// ErrUnknownPosition is returned for a slot that is not on the roster
	ErrUnknownPosition = errors.New("unknown roster position")
	// ErrUnknownField is returned for a field that is not on the form
	ErrUnknownField = errors.New("unknown field")
	// ErrYearLocked is returned when editing the year of a year-less card
	ErrYearLocked = errors.New("year is fixed for this card type")
	// ErrNotNumeric is returned when a numeric field gets a non-number
	ErrNotNumeric = errors.New("value must be a number")
)

// Form is the roster editor's state
type Form struct {
	team  *domain.Team
	dirty bool
	// revision counts edits; it only ever grows
	revision uint64
}

// NewForm creates a form over team; a nil team starts empty
func NewForm(team *domain.Team) *Form {
	if team == nil {
		team = domain.NewTeam()
	}
	if team.Players == nil {
		team.Players = make(map[string]domain.PlayerRecord)
	}
	return &Form{team: team}
}

// Team returns the edited team. It must not leave the UI goroutine; use
// Snapshot to hand the roster to another goroutine.
func (f *Form) Team() *domain.Team {
	return f.team
}

// Snapshot returns a deep copy of the team and the revision it reflects
func (f *Form) Snapshot() (*domain.Team, uint64) {
	return f.team.Clone(), f.revision
}

// Revision identifies the current form state
func (f *Form) Revision() uint64 {
	return f.revision
}

// Replace swaps in a team loaded from the backend
func (f *Form) Replace(team *domain.Team) {
	rev := f.revision + 1
	*f = *NewForm(team)
	f.revision = rev
}

// Dirty reports whether the form has edits that were not saved
func (f *Form) Dirty() bool {
	return f.dirty
}

// MarkSaved clears the dirty flag if nothing was edited since the snapshot
// taken at revision
func (f *Form) MarkSaved(revision uint64) {
	if revision == f.revision {
		f.dirty = false
	}
}

func (f *Form) touch() {
	f.dirty = true
	f.revision++
}

// Player returns the record for pos, nil when nothing was entered yet
func (f *Form) Player(pos string) domain.PlayerRecord {
	return f.team.Players[pos]
}

// Value returns one field of a slot
func (f *Form) Value(pos, field string) string {
	return f.team.Players[pos].Get(field)
}

// FieldEditable reports whether field of pos accepts input. The year of a
// year-less card is read-only whatever its current value.
func (f *Form) FieldEditable(pos, field string) bool {
	if field != domain.FieldYear {
		return true
	}
	return IsYearEditable(f.Value(pos, domain.FieldCardType))
}

// SetField edits one field of a slot
func (f *Form) SetField(pos, field, value string) error {
	if !ValidPosition(pos) {
		return fmt.Errorf("%w: %s", ErrUnknownPosition, pos)
	}
	spec, ok := LookupField(field)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownField, field)
	}
	if !f.FieldEditable(pos, field) {
		return ErrYearLocked
	}
	if err := checkNumeric(spec, value); err != nil {
		return err
	}

	f.record(pos)[field] = value
	f.touch()
	return nil
}

// SetTeamField edits a team-wide score
func (f *Form) SetTeamField(field, value string) error {
	spec, ok := LookupField(field)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownField, field)
	}
	if err := checkNumeric(spec, value); err != nil {
		return err
	}

	switch field {
	case TeamFieldSetDeckScore:
		f.team.TotalSetDeckScore = value
	case TeamFieldOvr:
		f.team.TotalOvr = value
	default:
		return fmt.Errorf("%w: %s", ErrUnknownField, field)
	}
	f.touch()
	return nil
}

// TeamValue returns a team-wide score
func (f *Form) TeamValue(field string) string {
	switch field {
	case TeamFieldSetDeckScore:
		return f.team.TotalSetDeckScore
	case TeamFieldOvr:
		return f.team.TotalOvr
	}
	return ""
}

// ApplySelection writes a search result into the slot at pos
func (f *Form) ApplySelection(pos string, item domain.SearchResult) error {
	if !ValidPosition(pos) {
		return fmt.Errorf("%w: %s", ErrUnknownPosition, pos)
	}
	search.Propagate(item, f.record(pos))
	f.touch()
	return nil
}

// Summary returns the one-line header of a slot
func (f *Form) Summary(pos string) string {
	name := f.Value(pos, domain.FieldName)
	if name == "" {
		return "미입력"
	}
	parts := []string{name}
	if ct := f.Value(pos, domain.FieldCardType); ct != "" {
		parts = append(parts, ct)
	}
	if y := f.Value(pos, domain.FieldYear); y != "" {
		parts = append(parts, y)
	}
	if ovr := f.Value(pos, domain.FieldOVR); ovr != "" {
		parts = append(parts, "OVR "+ovr)
	}
	return strings.Join(parts, " · ")
}

func (f *Form) record(pos string) domain.PlayerRecord {
	rec := f.team.Players[pos]
	if rec == nil {
		rec = make(domain.PlayerRecord)
		f.team.Players[pos] = rec
	}
	return rec
}

func checkNumeric(spec FieldSpec, value string) error {
	if !spec.Numeric || value == "" {
		return nil
	}
	if _, err := strconv.ParseFloat(strings.TrimSpace(value), 64); err != nil {
		return fmt.Errorf("%s: %w", spec.Label, ErrNotNumeric)
	}
	return nil
}
