package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/starshipfactory/memberctl/internal/models"

	_ "modernc.org/sqlite"
)

// DB wraps the local SQLite database holding member snapshots and the
// audit trail of admin actions.
type DB struct {
	conn *sql.DB
}

// AuditEntry is one recorded admin action.
type AuditEntry struct {
	Action      string
	Target      string
	Detail      string
	PerformedAt time.Time
}

// New creates a new database connection and initializes the schema.
func New(dbPath string) (*DB, error) {
	// Ensure the directory exists
	dir := filepath.Dir(dbPath)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := conn.Exec(createMembersTable); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create members schema: %w", err)
	}
	if _, err := conn.Exec(createAuditLogTable); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create audit log schema: %w", err)
	}

	return &DB{conn: conn}, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// SnapshotMembers upserts one fetched page of member records, keyed
// by email.
func (db *DB) SnapshotMembers(members []models.Member) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(upsertMember)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, m := range members {
		_, err := stmt.Exec(
			m.Email,
			m.Name,
			m.Street,
			m.Zipcode,
			m.City,
			m.Country,
			m.Phone,
			m.Username,
			m.Fee,
			m.FeeYearly,
			m.HasKey,
			m.PaymentsCaughtUpTo,
		)
		if err != nil {
			return fmt.Errorf("failed to snapshot member %s: %w", m.Email, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// ListMembers returns all snapshotted members, sorted by name.
func (db *DB) ListMembers() ([]models.Member, error) {
	rows, err := db.conn.Query(selectMembers)
	if err != nil {
		return nil, fmt.Errorf("failed to query members: %w", err)
	}
	defer rows.Close()

	var members []models.Member
	for rows.Next() {
		var m models.Member
		err := rows.Scan(
			&m.Email, &m.Name, &m.Street, &m.Zipcode, &m.City, &m.Country,
			&m.Phone, &m.Username, &m.Fee, &m.FeeYearly, &m.HasKey,
			&m.PaymentsCaughtUpTo,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

// RemoveMember drops a member from the snapshot after a goodbye.
func (db *DB) RemoveMember(email string) error {
	if _, err := db.conn.Exec(deleteMember, email); err != nil {
		return fmt.Errorf("failed to remove member %s: %w", email, err)
	}
	return nil
}

// CountMembers returns the number of snapshotted members.
func (db *DB) CountMembers() (int, error) {
	var count int
	if err := db.conn.QueryRow(countMembers).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count members: %w", err)
	}
	return count, nil
}

// RecordAction appends an admin action to the audit trail.
func (db *DB) RecordAction(action, target, detail string) error {
	if _, err := db.conn.Exec(insertAuditEntry, action, target, detail); err != nil {
		return fmt.Errorf("failed to record action: %w", err)
	}
	return nil
}

// RecentActions returns the newest audit entries, most recent first.
func (db *DB) RecentActions(limit int) ([]AuditEntry, error) {
	rows, err := db.conn.Query(selectAuditEntries, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit log: %w", err)
	}
	defer rows.Close()

	var entries []AuditEntry
	for rows.Next() {
		var e AuditEntry
		var performedAt string
		if err := rows.Scan(&e.Action, &e.Target, &e.Detail, &performedAt); err != nil {
			return nil, fmt.Errorf("failed to scan audit entry: %w", err)
		}
		e.PerformedAt, _ = parseTimestamp(performedAt)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// parseTimestamp parses SQLite timestamp formats
func parseTimestamp(ts string) (time.Time, error) {
	formats := []string{
		"2006-01-02 15:04:05",
		"2006-01-02T15:04:05Z",
		time.RFC3339,
	}
	for _, format := range formats {
		if t, err := time.Parse(format, ts); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unable to parse timestamp: %s", ts)
}
