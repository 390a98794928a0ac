// Package archive persists closed sessions and scammer fingerprints to
// Postgres for offline analysis. Records are written when a session is
// escalated or completed, one row per session and one per fingerprint.
package archive

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/scamshield/honeypot/internal/fingerprint"
	"github.com/scamshield/honeypot/internal/intel"
	"github.com/scamshield/honeypot/internal/session"
)

// SessionRecord is the archived form of a finished session.
type SessionRecord struct {
	SessionID       string          `json:"session_id"`
	ScamDetected    bool            `json:"scam_detected"`
	ScamType        string          `json:"scam_type"`
	Language        string          `json:"language"`
	MessageCount    int             `json:"message_count"`
	DurationSeconds int64           `json:"duration_seconds"`
	Conversation    json.RawMessage `json:"conversation"`
	Intel           json.RawMessage `json:"intel"`
	AgentNotes      string          `json:"agent_notes"`
	CreatedAt       time.Time       `json:"created_at"`
	ArchivedAt      time.Time       `json:"archived_at"`
}

// Store writes archive records to Postgres.
type Store struct {
	db *sql.DB
}

// NewStore creates an archive store on an open database handle.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// EnsureSchema creates the archive tables when they do not exist yet.
func (s *Store) EnsureSchema(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS archived_sessions (
			session_id       TEXT PRIMARY KEY,
			scam_detected    BOOLEAN NOT NULL,
			scam_type        TEXT NOT NULL DEFAULT '',
			language         TEXT NOT NULL DEFAULT 'en',
			message_count    INTEGER NOT NULL DEFAULT 0,
			duration_seconds BIGINT NOT NULL DEFAULT 0,
			conversation     JSONB NOT NULL DEFAULT '[]',
			intel            JSONB NOT NULL DEFAULT '{}',
			agent_notes      TEXT NOT NULL DEFAULT '',
			created_at       TIMESTAMPTZ NOT NULL,
			archived_at      TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS archived_fingerprints (
			fingerprint_id   TEXT PRIMARY KEY,
			session_count    INTEGER NOT NULL DEFAULT 0,
			risk_score       DOUBLE PRECISION NOT NULL DEFAULT 0,
			threat_level     TEXT NOT NULL DEFAULT 'low',
			phone_numbers    TEXT[] NOT NULL DEFAULT '{}',
			upi_ids          TEXT[] NOT NULL DEFAULT '{}',
			bank_accounts    TEXT[] NOT NULL DEFAULT '{}',
			crypto_addresses TEXT[] NOT NULL DEFAULT '{}',
			scam_types       TEXT[] NOT NULL DEFAULT '{}',
			first_seen       TIMESTAMPTZ NOT NULL,
			last_seen        TIMESTAMPTZ NOT NULL
		)`,
	}

	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("archive: failed to create schema: %w", err)
		}
	}
	return nil
}

// SaveSession archives a session, replacing any previous archive of the
// same session id.
func (s *Store) SaveSession(ctx context.Context, sess *session.Session, agentNotes string) error {
	conversation, err := json.Marshal(sess.Conversation)
	if err != nil {
		return fmt.Errorf("archive: failed to marshal conversation: %w", err)
	}

	bundle := sess.Intel
	if bundle == nil {
		bundle = &intel.Bundle{}
	}
	intelJSON, err := json.Marshal(bundle)
	if err != nil {
		return fmt.Errorf("archive: failed to marshal intel: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO archived_sessions (session_id, scam_detected, scam_type, language,
		    message_count, duration_seconds, conversation, intel, agent_notes, created_at, archived_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		ON CONFLICT (session_id) DO UPDATE SET
		    scam_detected=EXCLUDED.scam_detected, scam_type=EXCLUDED.scam_type,
		    language=EXCLUDED.language, message_count=EXCLUDED.message_count,
		    duration_seconds=EXCLUDED.duration_seconds, conversation=EXCLUDED.conversation,
		    intel=EXCLUDED.intel, agent_notes=EXCLUDED.agent_notes, archived_at=EXCLUDED.archived_at`,
		sess.ID, sess.ScamDetected, sess.ScamType, sess.Language,
		sess.MessageCount(), int64(sess.Duration().Seconds()), conversation, intelJSON,
		agentNotes, sess.CreatedAt, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("archive: failed to save session: %w", err)
	}
	return nil
}

// SaveFingerprint archives a scammer fingerprint, replacing any previous
// row for the same fingerprint id.
func (s *Store) SaveFingerprint(ctx context.Context, fp *fingerprint.Fingerprint) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO archived_fingerprints (fingerprint_id, session_count, risk_score,
		    threat_level, phone_numbers, upi_ids, bank_accounts, crypto_addresses,
		    scam_types, first_seen, last_seen)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		ON CONFLICT (fingerprint_id) DO UPDATE SET
		    session_count=EXCLUDED.session_count, risk_score=EXCLUDED.risk_score,
		    threat_level=EXCLUDED.threat_level, phone_numbers=EXCLUDED.phone_numbers,
		    upi_ids=EXCLUDED.upi_ids, bank_accounts=EXCLUDED.bank_accounts,
		    crypto_addresses=EXCLUDED.crypto_addresses, scam_types=EXCLUDED.scam_types,
		    last_seen=EXCLUDED.last_seen`,
		fp.ID, fp.SessionCount(), fp.RiskScore, fp.ThreatLevel(),
		pq.Array(fp.PhoneNumbers), pq.Array(fp.UPIIDs), pq.Array(fp.BankAccounts),
		pq.Array(fp.CryptoAddresses), pq.Array(fp.ScamTypes),
		fp.FirstSeen, fp.LastSeen)
	if err != nil {
		return fmt.Errorf("archive: failed to save fingerprint: %w", err)
	}
	return nil
}

// RecentSessions lists the most recently archived sessions.
func (s *Store) RecentSessions(ctx context.Context, limit int) ([]SessionRecord, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT session_id, scam_detected, scam_type, language, message_count,
		       duration_seconds, conversation, intel, agent_notes, created_at, archived_at
		FROM archived_sessions ORDER BY archived_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("archive: failed to list sessions: %w", err)
	}
	defer rows.Close()

	out := []SessionRecord{}
	for rows.Next() {
		var rec SessionRecord
		if err := rows.Scan(&rec.SessionID, &rec.ScamDetected, &rec.ScamType, &rec.Language,
			&rec.MessageCount, &rec.DurationSeconds, &rec.Conversation, &rec.Intel,
			&rec.AgentNotes, &rec.CreatedAt, &rec.ArchivedAt); err != nil {
			return nil, fmt.Errorf("archive: failed to scan session: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
