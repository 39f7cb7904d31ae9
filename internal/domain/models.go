package domain

// SearchResult is one player card returned by a search backend.
// Optional attributes are nil when the backend did not send them.
type SearchResult struct {
	Name     string   `json:"name"`
	CardType *string  `json:"cardType,omitempty"`
	Subtype  *string  `json:"subtype,omitempty"`
	Team     *string  `json:"team,omitempty"`
	Year     *string  `json:"year,omitempty"`
	Position *string  `json:"position,omitempty"`
	OVR      *float64 `json:"ovr,omitempty"`
}

// PlayerRecord holds the form values of one roster slot (field name -> value)
type PlayerRecord map[string]string

// Get returns the value of a field, or "" when unset
func (r PlayerRecord) Get(field string) string {
	if r == nil {
		return ""
	}
	return r[field]
}

// Team is the roster a user keeps for the assistant to reference
type Team struct {
	TotalSetDeckScore string                  `json:"totalSetDeckScore"`
	TotalOvr          string                  `json:"totalOvr"`
	Players           map[string]PlayerRecord `json:"players"`
}

// NewTeam returns an empty team with an initialized players map
func NewTeam() *Team {
	return &Team{Players: make(map[string]PlayerRecord)}
}

// Clone returns a deep copy that shares no maps with t
func (t *Team) Clone() *Team {
	if t == nil {
		return NewTeam()
	}
	c := &Team{
		TotalSetDeckScore: t.TotalSetDeckScore,
		TotalOvr:          t.TotalOvr,
		Players:           make(map[string]PlayerRecord, len(t.Players)),
	}
	for pos, rec := range t.Players {
		if rec == nil {
			c.Players[pos] = nil
			continue
		}
		cp := make(PlayerRecord, len(rec))
		for k, v := range rec {
			cp[k] = v
		}
		c.Players[pos] = cp
	}
	return c
}

// User is the signed-in account as reported by the auth backend
type User struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Image string `json:"image,omitempty"`
}

// Session wraps the user the way /auth/session returns it
type Session struct {
	User    *User  `json:"user"`
	Expires string `json:"expires,omitempty"`
}

// Sender identifies who wrote a chat message
type Sender string

const (
	SenderUser Sender = "user"
	SenderAI   Sender = "ai"
)

// ChatMessage is one entry of a chat transcript
type ChatMessage struct {
	ID     string `json:"id"`
	Sender Sender `json:"sender"`
	Text   string `json:"text"`
}

// Chat is a titled conversation kept in local history
type Chat struct {
	ID       string        `json:"id"`
	Title    string        `json:"title"`
	Messages []ChatMessage `json:"messages"`
}

// Player record field names
const (
	FieldName               = "name"
	FieldCardType           = "cardType"
	FieldSubtype            = "subtype"
	FieldYear               = "year"
	FieldPosition           = "position"
	FieldOVR                = "ovr"
	FieldUpgradeLevel       = "upgradeLevel"
	FieldTrainingLevel      = "trainingLevel"
	FieldAwakeningLevel     = "awakeningLevel"
	FieldSkill1             = "skill1"
	FieldSkill2             = "skill2"
	FieldSkill3             = "skill3"
	FieldPotential1         = "potential1"
	FieldPotential2         = "potential2"
	FieldPotential3         = "potential3"
	FieldPlayerSetDeckScore = "playerSetDeckScore"
)
