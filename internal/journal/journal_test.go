package journal

import (
	"path/filepath"
	"strings"
	"testing"
)

func newTestJournal(t *testing.T) *Journal {
	t.Helper()

	j, err := New(filepath.Join(t.TempDir(), Filename))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() {
		if err := j.Close(); err != nil {
			t.Errorf("Close() error = %v", err)
		}
	})
	return j
}

func TestJournal_CreateSession(t *testing.T) {
	j := newTestJournal(t)

	id, err := j.CreateSession("run-1", "ISS (ZARYA)", "n2yo", "/dev/ttyUSB0", map[string]int{"maxRetries": 10})
	if err != nil {
		t.Fatalf("CreateSession() error = %v", err)
	}
	if id < 1 {
		t.Fatalf("CreateSession() id = %d, want >= 1", id)
	}

	sess, err := j.Session(id)
	if err != nil {
		t.Fatalf("Session() error = %v", err)
	}
	if sess.RunID != "run-1" {
		t.Errorf("RunID = %q, want run-1", sess.RunID)
	}
	if sess.Satellite != "ISS (ZARYA)" {
		t.Errorf("Satellite = %q, want ISS (ZARYA)", sess.Satellite)
	}
	if sess.Source != "n2yo" {
		t.Errorf("Source = %q, want n2yo", sess.Source)
	}
	if sess.Device != "/dev/ttyUSB0" {
		t.Errorf("Device = %q, want /dev/ttyUSB0", sess.Device)
	}
	if !sess.Config.Valid || !strings.Contains(sess.Config.String, `"maxRetries":10`) {
		t.Errorf("Config = %+v, want marshaled JSON", sess.Config)
	}
	if sess.StartTime.IsZero() {
		t.Error("StartTime is zero")
	}
}

func TestJournal_CreateSession_ConfigForms(t *testing.T) {
	tests := []struct {
		name      string
		config    any
		wantValid bool
		want      string
	}{
		{"nil", nil, false, ""},
		{"string", `{"port":"/dev/ttyUSB0"}`, true, `{"port":"/dev/ttyUSB0"}`},
		{"bytes", []byte(`{"baud":9600}`), true, `{"baud":9600}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			j := newTestJournal(t)

			id, err := j.CreateSession("run", "sat", "tle", "port", tt.config)
			if err != nil {
				t.Fatalf("CreateSession() error = %v", err)
			}

			sess, err := j.Session(id)
			if err != nil {
				t.Fatalf("Session() error = %v", err)
			}
			if sess.Config.Valid != tt.wantValid {
				t.Fatalf("Config.Valid = %t, want %t", sess.Config.Valid, tt.wantValid)
			}
			if tt.wantValid && sess.Config.String != tt.want {
				t.Errorf("Config = %q, want %q", sess.Config.String, tt.want)
			}
		})
	}
}

func TestJournal_AppendEvent(t *testing.T) {
	j := newTestJournal(t)

	sessionID, err := j.CreateSession("run-1", "NOAA 15", "n2yo", "/dev/ttyUSB0", nil)
	if err != nil {
		t.Fatalf("CreateSession() error = %v", err)
	}

	appends := []struct {
		kind   EventKind
		detail string
	}{
		{EventHandshakeConfirmed, ""},
		{EventDeviceUnresponsive, "device not responding after 10 retries"},
		{EventConnectionRestored, ""},
	}
	for _, a := range appends {
		if _, err := j.AppendEvent(sessionID, a.kind, a.detail); err != nil {
			t.Fatalf("AppendEvent(%s) error = %v", a.kind, err)
		}
	}

	events, err := j.Events(sessionID)
	if err != nil {
		t.Fatalf("Events() error = %v", err)
	}
	if len(events) != len(appends) {
		t.Fatalf("Events() returned %d events, want %d", len(events), len(appends))
	}

	for i, ev := range events {
		if ev.SessionID != sessionID {
			t.Errorf("event %d: SessionID = %d, want %d", i, ev.SessionID, sessionID)
		}
		if ev.Kind != appends[i].kind {
			t.Errorf("event %d: Kind = %s, want %s", i, ev.Kind, appends[i].kind)
		}
		if ev.Detail.String != appends[i].detail {
			t.Errorf("event %d: Detail = %q, want %q", i, ev.Detail.String, appends[i].detail)
		}
		if appends[i].detail != "" && !ev.Detail.Valid {
			t.Errorf("event %d: Detail.Valid = false, want true", i)
		}
	}
}

func TestJournal_Events_UnknownSession(t *testing.T) {
	j := newTestJournal(t)

	if _, err := j.CreateSession("run-1", "sat", "tle", "port", nil); err != nil {
		t.Fatalf("CreateSession() error = %v", err)
	}

	events, err := j.Events(999)
	if err != nil {
		t.Fatalf("Events() error = %v", err)
	}
	if len(events) != 0 {
		t.Errorf("Events(999) returned %d events, want none", len(events))
	}
}

func TestJournal_Sessions(t *testing.T) {
	j := newTestJournal(t)

	for _, runID := range []string{"run-1", "run-2"} {
		if _, err := j.CreateSession(runID, "sat", "n2yo", "port", nil); err != nil {
			t.Fatalf("CreateSession(%s) error = %v", runID, err)
		}
	}

	sessions, err := j.Sessions()
	if err != nil {
		t.Fatalf("Sessions() error = %v", err)
	}
	if len(sessions) != 2 {
		t.Fatalf("Sessions() returned %d sessions, want 2", len(sessions))
	}
	if sessions[0].RunID != "run-1" || sessions[1].RunID != "run-2" {
		t.Errorf("sessions out of order: %q, %q", sessions[0].RunID, sessions[1].RunID)
	}
}

func TestJournal_Close(t *testing.T) {
	j, err := New(filepath.Join(t.TempDir(), Filename))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if _, err := j.CreateSession("run-1", "sat", "n2yo", "port", nil); err != nil {
		t.Fatalf("CreateSession() error = %v", err)
	}

	if err := j.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := j.Close(); err != nil {
		t.Fatalf("second Close() error = %v", err)
	}
}
