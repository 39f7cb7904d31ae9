package ui

import (
	"time"

	"zask/internal/eventbus"
)

// EventMsg wraps a domain event for the UI
type EventMsg struct {
	Event eventbus.DomainEvent
}

// clearStatusMsg hides a status message once it has been shown long enough
type clearStatusMsg struct {
	id int
}

// statusTTL is how long transient status messages stay visible
const statusTTL = 4 * time.Second
