// Package storage persists profile records in SQLite and moves them in and
// out of JSONL files.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/matsen/profiles/internal/logging"
	"github.com/matsen/profiles/internal/profile"
	"github.com/matsen/profiles/internal/validate"
)

// DefaultFileName is the database file name inside the data directory.
const DefaultFileName = "profiles.db"

// State is the connection lifecycle state of a Store.
type State int

const (
	StateClosed State = iota
	StateOpening
	StateOpen
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpening:
		return "opening"
	case StateOpen:
		return "open"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// AssetChecker reports whether a picture path resolves to a stored image.
type AssetChecker interface {
	Exists(rel string) bool
}

// Store is the profile record store. It is not safe for concurrent use.
type Store struct {
	path   string
	db     *sql.DB
	state  State
	open   func() (*sql.DB, error)
	assets AssetChecker
	logger *zap.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithAssetChecker makes Create reject picture paths the checker cannot
// resolve.
func WithAssetChecker(c AssetChecker) Option {
	return func(s *Store) { s.assets = c }
}

// New returns a closed store backed by the SQLite file at path. Without
// WithAssetChecker, Create does not check that picture paths resolve.
func New(path string, logger *zap.Logger, opts ...Option) *Store {
	s := &Store{
		path:   path,
		logger: logging.OrNop(logger),
		open: func() (*sql.DB, error) {
			return sql.Open("sqlite", path)
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewFromDB returns a closed store that uses an existing handle. Open pings
// it and creates the schema.
func NewFromDB(db *sql.DB, logger *zap.Logger, opts ...Option) *Store {
	s := New("", logger, opts...)
	s.open = func() (*sql.DB, error) { return db, nil }
	return s
}

// Path returns the database file path, or "" for injected handles.
func (s *Store) Path() string {
	return s.path
}

// State returns the current lifecycle state.
func (s *Store) State() State {
	return s.state
}

// Open makes the store usable. Calling it on an open store with a live
// handle does nothing; a handle that no longer answers is discarded and
// replaced.
func (s *Store) Open(ctx context.Context) error {
	if s.db != nil {
		err := s.db.PingContext(ctx)
		if err == nil {
			s.state = StateOpen
			return nil
		}
		s.logger.Warn("discarding unresponsive database handle",
			zap.String("op", "open"), zap.String("path", s.path), zap.Error(err))
		s.db.Close()
		s.db = nil
		s.state = StateClosed
	}

	s.state = StateOpening
	db, err := s.open()
	if err != nil {
		s.state = StateClosed
		return fmt.Errorf("%w: opening database: %w", ErrStorageUnavailable, err)
	}

	db.SetMaxOpenConns(1) // SQLite doesn't support concurrent writes

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		s.state = StateClosed
		return fmt.Errorf("%w: connecting to database: %w", ErrStorageUnavailable, err)
	}
	if err := createSchema(ctx, db); err != nil {
		db.Close()
		s.state = StateClosed
		return fmt.Errorf("%w: creating schema: %w", ErrStorageUnavailable, err)
	}

	s.db = db
	s.state = StateOpen
	s.logger.Debug("database opened", zap.String("path", s.path))
	return nil
}

// Close releases the handle. Closing a closed store does nothing.
func (s *Store) Close() error {
	if s.db == nil {
		s.state = StateClosed
		return nil
	}
	err := s.db.Close()
	s.db = nil
	s.state = StateClosed
	if err != nil {
		return fmt.Errorf("closing database: %w", err)
	}
	return nil
}

// createSchema creates the User table if it doesn't exist.
func createSchema(ctx context.Context, db *sql.DB) error {
	schema := `
		CREATE TABLE IF NOT EXISTS User (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			firstName TEXT NOT NULL,
			lastName TEXT NOT NULL,
			mobileNumber TEXT NOT NULL UNIQUE,
			dateOfBirth TEXT,
			highestEducation TEXT,
			gender TEXT,
			address TEXT,
			profilePicLocation TEXT,
			latitude REAL NOT NULL,
			longitude REAL NOT NULL
		);
	`
	_, err := db.ExecContext(ctx, schema)
	return err
}

// selectUserFields is the column list shared by every SELECT.
const selectUserFields = `firstName, lastName, mobileNumber, dateOfBirth,
	highestEducation, gender, address, profilePicLocation,
	latitude, longitude`

func (s *Store) conn() (*sql.DB, error) {
	if s.state != StateOpen || s.db == nil {
		return nil, fmt.Errorf("%w: database is %s", ErrStorageUnavailable, s.state)
	}
	return s.db, nil
}

// Create inserts r and returns its row id.
func (s *Store) Create(ctx context.Context, r profile.Record) (int64, error) {
	db, err := s.conn()
	if err != nil {
		return 0, err
	}
	if err := s.checkRecord(r); err != nil {
		return 0, err
	}

	res, err := db.ExecContext(ctx, `
		INSERT INTO User (
			firstName, lastName, mobileNumber, dateOfBirth,
			highestEducation, gender, address, profilePicLocation,
			latitude, longitude
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.FirstName, r.LastName, r.MobileNumber, nullableStringValue(r.DateOfBirth),
		nullableStringValue(r.HighestEducation), nullableStringValue(r.Gender),
		nullableStringValue(r.Address), nullableStringValue(r.ProfilePicLocation),
		*r.Location.Lat, *r.Location.Long,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, fmt.Errorf("%w: %s", ErrDuplicateKey, r.MobileNumber)
		}
		s.logger.Error("inserting record",
			zap.String("op", "create"), zap.String("mobile", r.MobileNumber), zap.Error(err))
		return 0, fmt.Errorf("inserting record %s: %w", r.MobileNumber, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading inserted id: %w", err)
	}
	s.logger.Info("record created", zap.Int64("id", id), zap.String("mobile", r.MobileNumber))
	return id, nil
}

// checkRecord enforces the persisted-record invariants.
func (s *Store) checkRecord(r profile.Record) error {
	switch {
	case !validate.NonEmpty(r.FirstName):
		return fmt.Errorf("%w: first name is empty", ErrMalformedRecord)
	case !validate.MobileNumber(r.MobileNumber):
		return fmt.Errorf("%w: mobile number %q", ErrMalformedRecord, r.MobileNumber)
	case !validate.Location(r.Location):
		return fmt.Errorf("%w: location is unset or out of range", ErrMalformedRecord)
	case r.ProfilePicLocation != "" && s.assets != nil && !s.assets.Exists(r.ProfilePicLocation):
		return fmt.Errorf("%w: picture %q does not resolve", ErrMalformedRecord, r.ProfilePicLocation)
	}
	return nil
}

// FindByKey returns the record with the given mobile number, or nil if none.
func (s *Store) FindByKey(ctx context.Context, mobile string) (*profile.Record, error) {
	db, err := s.conn()
	if err != nil {
		return nil, err
	}
	row := db.QueryRowContext(ctx, `SELECT `+selectUserFields+` FROM User WHERE mobileNumber = ?`, mobile)
	rec, err := scanRecord(row)
	if err != nil {
		return nil, fmt.Errorf("finding %s: %w", mobile, err)
	}
	return rec, nil
}

// ListAll returns every record in insertion order.
func (s *Store) ListAll(ctx context.Context) ([]profile.Record, error) {
	db, err := s.conn()
	if err != nil {
		return nil, err
	}
	rows, err := db.QueryContext(ctx, `SELECT `+selectUserFields+` FROM User ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("listing records: %w", err)
	}
	defer rows.Close()

	return scanRecords(rows)
}

// Exists reports whether a record with the mobile number is stored.
func (s *Store) Exists(ctx context.Context, mobile string) (bool, error) {
	db, err := s.conn()
	if err != nil {
		return false, err
	}
	var n int
	err = db.QueryRowContext(ctx, `SELECT COUNT(*) FROM User WHERE mobileNumber = ?`, mobile).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("checking %s: %w", mobile, err)
	}
	return n > 0, nil
}

// Count returns the number of stored records.
func (s *Store) Count(ctx context.Context) (int, error) {
	db, err := s.conn()
	if err != nil {
		return 0, err
	}
	var count int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM User").Scan(&count); err != nil {
		return 0, fmt.Errorf("counting records: %w", err)
	}
	return count, nil
}

// scanner interface for sql.Row and sql.Rows
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanRecord(s scanner) (*profile.Record, error) {
	var r profile.Record
	var dob, education, gender, address, pic sql.NullString
	var lat, long sql.NullFloat64

	err := s.Scan(
		&r.FirstName, &r.LastName, &r.MobileNumber, &dob,
		&education, &gender, &address, &pic,
		&lat, &long,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %w", ErrMalformedRecord, err)
	}

	r.DateOfBirth = dob.String
	r.HighestEducation = education.String
	r.Gender = gender.String
	r.Address = address.String
	r.ProfilePicLocation = pic.String

	if !lat.Valid || !long.Valid {
		return nil, fmt.Errorf("%w: %s has no location", ErrMalformedRecord, r.MobileNumber)
	}
	r.Location = profile.At(lat.Float64, long.Float64)

	return &r, nil
}

func scanRecords(rows *sql.Rows) ([]profile.Record, error) {
	var records []profile.Record
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		if r != nil {
			records = append(records, *r)
		}
	}
	return records, rows.Err()
}

// nullableStringValue converts a string to sql.NullString, treating empty as NULL.
func nullableStringValue(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
