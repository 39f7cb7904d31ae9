package domain

// EventType represents the type of domain event
type EventType string

// Event types
const (
	EventError             EventType = "Error"
	EventTeamLoadRequested EventType = "TeamLoadRequested"
	EventTeamLoaded        EventType = "TeamLoaded"
	EventTeamSaveRequested EventType = "TeamSaveRequested"
	EventTeamSaved         EventType = "TeamSaved"
	EventSessionResolved   EventType = "SessionResolved"
	EventPlayerSelected    EventType = "PlayerSelected"
	EventSearchFailed      EventType = "SearchFailed"
	EventConfigSaved       EventType = "ConfigSaved"
)

// DomainEvent is the interface for all domain events
type DomainEvent interface {
	Type() EventType
}

// ErrorEvent is emitted when an error occurs
type ErrorEvent struct {
	Message string
	Err     error
}

func (e ErrorEvent) Type() EventType { return EventError }

// TeamLoadRequestedEvent asks the team service to fetch the stored roster
type TeamLoadRequestedEvent struct{}

func (e TeamLoadRequestedEvent) Type() EventType { return EventTeamLoadRequested }

// TeamLoadedEvent is emitted when the roster arrives from the backend
type TeamLoadedEvent struct {
	Team *Team
}

func (e TeamLoadedEvent) Type() EventType { return EventTeamLoaded }

// TeamSaveRequestedEvent asks the team service to persist the roster.
// Team is a copy owned by the receiver; Revision identifies the form state it
// was taken from.
type TeamSaveRequestedEvent struct {
	Team     *Team
	Revision uint64
}

func (e TeamSaveRequestedEvent) Type() EventType { return EventTeamSaveRequested }

// TeamSavedEvent is emitted after the backend accepted the roster saved at Revision
type TeamSavedEvent struct {
	Revision uint64
}

func (e TeamSavedEvent) Type() EventType { return EventTeamSaved }

// SessionResolvedEvent carries the signed-in user, nil when anonymous
type SessionResolvedEvent struct {
	User *User
}

func (e SessionResolvedEvent) Type() EventType { return EventSessionResolved }

// PlayerSelectedEvent is emitted when a search result is written into a roster slot
type PlayerSelectedEvent struct {
	Position string
	Player   SearchResult
}

func (e PlayerSelectedEvent) Type() EventType { return EventPlayerSelected }

// SearchFailedEvent is emitted when every search backend failed for a query
type SearchFailedEvent struct {
	Query string
	Err   error
}

func (e SearchFailedEvent) Type() EventType { return EventSearchFailed }

// ConfigSavedEvent is emitted when configuration is saved
type ConfigSavedEvent struct{}

func (e ConfigSavedEvent) Type() EventType { return EventConfigSaved }
