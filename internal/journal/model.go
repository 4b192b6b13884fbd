package journal

import (
	"database/sql"
	"time"
)

// EventKind classifies a journal event.
type EventKind string

const (
	EventHandshakeConfirmed EventKind = "handshake_confirmed"
	EventDeviceUnresponsive EventKind = "device_unresponsive"
	EventConnectionFailed   EventKind = "connection_failed"
	EventConnectionRestored EventKind = "connection_restored"
	EventMalformedFeedback  EventKind = "malformed_feedback"
	EventHomeLost           EventKind = "home_lost"
	EventSessionEnded       EventKind = "session_ended"
)

// Session is one tracker run.
type Session struct {
	ID        int64
	RunID     string
	StartTime time.Time
	Satellite string
	Source    string
	Device    string
	Config    sql.NullString
}

// Event is one notable occurrence within a session.
type Event struct {
	ID        int64
	SessionID int64
	Timestamp time.Time
	Kind      EventKind
	Detail    sql.NullString
}
