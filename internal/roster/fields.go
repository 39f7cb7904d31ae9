package roster

import "zask/internal/domain"

// FieldSpec describes one input of a player card form
type FieldSpec struct {
	Key         string
	Label       string
	Placeholder string
	Numeric     bool
	// Lookup marks the field backed by the player search
	Lookup bool
}

// PlayerFields is the per-player form in display order
var PlayerFields = []FieldSpec{
	{Key: domain.FieldName, Label: "선수명", Placeholder: "선수명 입력", Lookup: true},
	{Key: domain.FieldCardType, Label: "카드 종류", Placeholder: "예: SS, S"},
	{Key: domain.FieldSubtype, Label: "세부 종류"},
	{Key: domain.FieldYear, Label: "연도", Placeholder: "예: 2024"},
	{Key: domain.FieldPosition, Label: "포지션"},
	{Key: domain.FieldOVR, Label: "OVR", Numeric: true},
	{Key: domain.FieldUpgradeLevel, Label: "강화단계", Numeric: true},
	{Key: domain.FieldTrainingLevel, Label: "훈련단계", Numeric: true},
	{Key: domain.FieldAwakeningLevel, Label: "각성단계", Numeric: true},
	{Key: domain.FieldSkill1, Label: "스킬1", Placeholder: "스킬명"},
	{Key: domain.FieldSkill2, Label: "스킬2", Placeholder: "스킬명"},
	{Key: domain.FieldSkill3, Label: "스킬3", Placeholder: "스킬명"},
	{Key: domain.FieldPotential1, Label: "잠재력1", Placeholder: "잠재력"},
	{Key: domain.FieldPotential2, Label: "잠재력2", Placeholder: "잠재력"},
	{Key: domain.FieldPotential3, Label: "잠재력3", Placeholder: "잠재력"},
	{Key: domain.FieldPlayerSetDeckScore, Label: "세트덱 스코어", Placeholder: "0", Numeric: true},
}

// Team level score fields
const (
	TeamFieldSetDeckScore = "totalSetDeckScore"
	TeamFieldOvr          = "totalOvr"
)

// TeamFields are the team-wide inputs shown above the lineups
var TeamFields = []FieldSpec{
	{Key: TeamFieldSetDeckScore, Label: "세트덱 스코어", Placeholder: "0", Numeric: true},
	{Key: TeamFieldOvr, Label: "전체 OVR", Placeholder: "0", Numeric: true},
}

// LookupField returns the field definition for key
func LookupField(key string) (FieldSpec, bool) {
	for _, f := range PlayerFields {
		if f.Key == key {
			return f, true
		}
	}
	for _, f := range TeamFields {
		if f.Key == key {
			return f, true
		}
	}
	return FieldSpec{}, false
}
