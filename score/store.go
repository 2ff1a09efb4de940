package score

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/gruntwork-io/go-commons/errors"
	_ "github.com/mattn/go-sqlite3"
)

// Session is a finished play session as persisted.
type Session struct {
	ID        int64
	StartedAt time.Time
	BPM       float64
	Tolerance float64
	Inputs    []Input
}

// Store persists sessions in a SQLite database.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, errors.WithStackTrace(err)
	}

	initStatement := `
	create table if not exists sessions
	  (
		  id integer not null primary key,
		  started_at integer not null,
		  bpm real not null,
		  tolerance real not null,
		  inputs blob
	  );
	`
	if _, err := db.Exec(initStatement); err != nil {
		db.Close()
		return nil, errors.WithStackTrace(err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Save inserts session and returns its new ID.
func (s *Store) Save(session Session) (int64, error) {
	inputs := session.Inputs
	if inputs == nil {
		inputs = []Input{}
	}
	data, err := json.Marshal(inputs)
	if err != nil {
		return 0, errors.WithStackTrace(err)
	}

	res, err := s.db.Exec(
		"insert into sessions(started_at, bpm, tolerance, inputs) values(?, ?, ?, ?)",
		session.StartedAt.UnixNano(), session.BPM, session.Tolerance, data,
	)
	if err != nil {
		return 0, errors.WithStackTrace(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, errors.WithStackTrace(err)
	}
	return id, nil
}

// Load returns up to limit sessions, most recent first.
func (s *Store) Load(limit int) ([]Session, error) {
	rows, err := s.db.Query(
		"select id, started_at, bpm, tolerance, inputs from sessions order by started_at desc, id desc limit ?",
		limit,
	)
	if err != nil {
		return nil, errors.WithStackTrace(err)
	}
	defer rows.Close()

	sessions := []Session{}
	for rows.Next() {
		var (
			session   Session
			startedAt int64
			data      []byte
		)
		if err := rows.Scan(&session.ID, &startedAt, &session.BPM, &session.Tolerance, &data); err != nil {
			return nil, errors.WithStackTrace(err)
		}
		if err := json.Unmarshal(data, &session.Inputs); err != nil {
			return nil, errors.WithStackTrace(err)
		}
		session.StartedAt = time.Unix(0, startedAt).UTC()
		sessions = append(sessions, session)
	}
	return sessions, errors.WithStackTrace(rows.Err())
}
