// Package journal persists tracker sessions and their notable events to
// SQLite, so unattended runs leave an inspectable record of handshakes,
// outages and recoveries.
package journal

import (
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// Filename is the journal database file created under the data
// directory.
const Filename = "tracker.sqlite"

// Journal handles database operations. Connections open lazily: the
// write connection initializes the schema, the read connection opens
// the file read-only.
type Journal struct {
	dbPath string

	writeDB     *sql.DB
	writeDBOnce sync.Once
	writeDBErr  error

	readDB     *sql.DB
	readDBOnce sync.Once
	readDBErr  error

	closeOnce sync.Once
	closeErr  error
}

// New returns a journal backed by the database file at dbPath.
func New(dbPath string) (*Journal, error) {
	return &Journal{dbPath: dbPath}, nil
}

func initSchema(db *sql.DB) error {
	_, err := db.Exec(schemaSQL)
	return err
}

func (j *Journal) getWriteDB() (*sql.DB, error) {
	j.writeDBOnce.Do(func() {
		db, err := sql.Open("sqlite3", "file:"+j.dbPath+"?_journal_mode=WAL&_synchronous=NORMAL")
		if err != nil {
			j.writeDBErr = err
			return
		}

		if err = initSchema(db); err != nil {
			_ = db.Close()
			j.writeDBErr = err
			return
		}

		j.writeDB = db
	})

	return j.writeDB, j.writeDBErr
}

func (j *Journal) getReadDB() (*sql.DB, error) {
	j.readDBOnce.Do(func() {
		db, err := sql.Open("sqlite3", "file:"+j.dbPath+"?mode=ro")
		if err != nil {
			j.readDBErr = err
			return
		}
		j.readDB = db
	})

	return j.readDB, j.readDBErr
}

const insertSessionSQL = `
INSERT INTO sessions (start_time, run_id, satellite, source, device, config)
VALUES (CURRENT_TIMESTAMP, ?, ?, ?, ?, ?)`

// CreateSession records the start of a tracker run and returns its ID.
// config may be a string, raw JSON bytes, or any JSON-marshalable value.
func (j *Journal) CreateSession(runID, satellite, source, device string, config any) (sessionID int64, err error) {
	var configData sql.NullString

	if config != nil {
		switch v := config.(type) {
		case string:
			configData.Valid = true
			configData.String = v

		case []byte:
			configData.Valid = true
			configData.String = string(v)

		default:
			var p []byte
			if p, err = json.Marshal(config); err != nil {
				err = fmt.Errorf("marshaling config: %w", err)
				return
			}

			configData.Valid = true
			configData.String = string(p)
		}
	}

	db, err := j.getWriteDB()
	if err != nil {
		err = fmt.Errorf("getting write connection: %w", err)
		return
	}

	stmt, err := db.Prepare(insertSessionSQL)
	if err != nil {
		err = fmt.Errorf("preparing statement: %w", err)
		return
	}
	defer func() {
		if cErr := stmt.Close(); cErr != nil && err == nil {
			err = fmt.Errorf("closing statement: %w", cErr)
		}
	}()

	result, err := stmt.Exec(runID, satellite, source, device, configData)
	if err != nil {
		err = fmt.Errorf("inserting session: %w", err)
		return
	}

	return result.LastInsertId()
}

const insertEventSQL = `
INSERT INTO events (session_id, timestamp, kind, detail)
VALUES (?, CURRENT_TIMESTAMP, ?, ?)`

// AppendEvent records one event against a session and returns its ID.
func (j *Journal) AppendEvent(sessionID int64, kind EventKind, detail string) (eventID int64, err error) {
	var detailData sql.NullString
	if detail != "" {
		detailData.Valid = true
		detailData.String = detail
	}

	db, err := j.getWriteDB()
	if err != nil {
		err = fmt.Errorf("getting write connection: %w", err)
		return
	}

	stmt, err := db.Prepare(insertEventSQL)
	if err != nil {
		err = fmt.Errorf("preparing statement: %w", err)
		return
	}
	defer func() {
		if cErr := stmt.Close(); cErr != nil && err == nil {
			err = fmt.Errorf("closing statement: %w", cErr)
		}
	}()

	result, err := stmt.Exec(sessionID, string(kind), detailData)
	if err != nil {
		err = fmt.Errorf("inserting event: %w", err)
		return
	}

	return result.LastInsertId()
}

const selectSessionSQL = `
SELECT
    id,
    run_id,
    start_time,
    satellite,
    source,
    device,
    config
FROM sessions
WHERE
    id = ?`

// Session returns a session by its ID.
func (j *Journal) Session(id int64) (session *Session, err error) {
	db, err := j.getReadDB()
	if err != nil {
		err = fmt.Errorf("getting read connection: %w", err)
		return
	}

	stmt, err := db.Prepare(selectSessionSQL)
	if err != nil {
		err = fmt.Errorf("preparing statement: %w", err)
		return
	}
	defer func() {
		if cErr := stmt.Close(); cErr != nil && err == nil {
			err = fmt.Errorf("closing statement: %w", cErr)
		}
	}()

	var sess Session
	if err = stmt.QueryRow(id).Scan(&sess.ID, &sess.RunID, &sess.StartTime, &sess.Satellite, &sess.Source, &sess.Device, &sess.Config); err != nil {
		err = fmt.Errorf("scanning session: %w", err)
		return
	}
	return &sess, nil
}

const selectSessionsSQL = `
SELECT
    id,
    run_id,
    start_time,
    satellite,
    source,
    device,
    config
FROM sessions
ORDER BY id`

// Sessions returns all recorded sessions, oldest first.
func (j *Journal) Sessions() (sessions []Session, err error) {
	db, err := j.getReadDB()
	if err != nil {
		err = fmt.Errorf("getting read connection: %w", err)
		return
	}

	rows, err := db.Query(selectSessionsSQL)
	if err != nil {
		err = fmt.Errorf("querying sessions: %w", err)
		return
	}
	defer func() {
		if cErr := rows.Close(); cErr != nil && err == nil {
			err = fmt.Errorf("closing rows: %w", cErr)
		}
	}()

	for rows.Next() {
		var sess Session
		if err = rows.Scan(&sess.ID, &sess.RunID, &sess.StartTime, &sess.Satellite, &sess.Source, &sess.Device, &sess.Config); err != nil {
			err = fmt.Errorf("scanning session: %w", err)
			return
		}
		sessions = append(sessions, sess)
	}
	return
}

const selectEventsSQL = `
SELECT
    id,
    session_id,
    timestamp,
    kind,
    detail
FROM events
WHERE
    session_id = ?
ORDER BY id`

// Events returns a session's events in the order they were recorded.
func (j *Journal) Events(sessionID int64) (events []Event, err error) {
	db, err := j.getReadDB()
	if err != nil {
		err = fmt.Errorf("getting read connection: %w", err)
		return
	}

	stmt, err := db.Prepare(selectEventsSQL)
	if err != nil {
		err = fmt.Errorf("preparing statement: %w", err)
		return
	}
	defer func() {
		if cErr := stmt.Close(); cErr != nil && err == nil {
			err = fmt.Errorf("closing statement: %w", cErr)
		}
	}()

	rows, err := stmt.Query(sessionID)
	if err != nil {
		err = fmt.Errorf("querying events: %w", err)
		return
	}
	defer func() {
		if cErr := rows.Close(); cErr != nil && err == nil {
			err = fmt.Errorf("closing rows: %w", cErr)
		}
	}()

	for rows.Next() {
		var ev Event
		if err = rows.Scan(&ev.ID, &ev.SessionID, &ev.Timestamp, &ev.Kind, &ev.Detail); err != nil {
			err = fmt.Errorf("scanning event: %w", err)
			return
		}
		events = append(events, ev)
	}
	return
}

// Close closes the database connections.
func (j *Journal) Close() error {
	j.closeOnce.Do(func() {
		var writeErr, readErr error

		if j.writeDB != nil {
			writeErr = j.writeDB.Close()
			j.writeDB = nil
		}

		if j.readDB != nil {
			readErr = j.readDB.Close()
			j.readDB = nil
		}

		switch {
		case writeErr != nil && readErr != nil:
			j.closeErr = errors.Join(writeErr, readErr)
		case writeErr != nil:
			j.closeErr = writeErr
		case readErr != nil:
			j.closeErr = readErr
		}
	})

	return j.closeErr
}
