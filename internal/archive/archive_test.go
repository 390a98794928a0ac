package archive

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scamshield/honeypot/internal/fingerprint"
	"github.com/scamshield/honeypot/internal/intel"
	"github.com/scamshield/honeypot/internal/session"
)

func TestEnsureSchema(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS archived_sessions").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS archived_fingerprints").
		WillReturnResult(sqlmock.NewResult(0, 0))

	store := NewStore(db)
	require.NoError(t, store.EnsureSchema(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveSession(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	sess := session.New("sess-1")
	sess.AddMessage("scammer", "your account is blocked, share otp", time.Time{})
	sess.AddMessage("user", "which account sir?", time.Time{})
	sess.ScamDetected = true
	sess.ScamType = "BANKING"
	sess.Intel = &intel.Bundle{UPIIDs: []string{"fraud@ybl"}}

	mock.ExpectExec("INSERT INTO archived_sessions").
		WithArgs("sess-1", true, "BANKING", "en", 2, sqlmock.AnyArg(),
			sqlmock.AnyArg(), sqlmock.AnyArg(), "Scam Type: BANKING",
			sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	store := NewStore(db)
	require.NoError(t, store.SaveSession(context.Background(), sess, "Scam Type: BANKING"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveSessionNilIntel(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	sess := session.New("sess-2")
	sess.Intel = nil

	mock.ExpectExec("INSERT INTO archived_sessions").
		WillReturnResult(sqlmock.NewResult(1, 1))

	store := NewStore(db)
	assert.NoError(t, store.SaveSession(context.Background(), sess, ""))
}

func TestSaveFingerprint(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now().UTC()
	fp := &fingerprint.Fingerprint{
		ID:              "abc123def456",
		FirstSeen:       now.Add(-time.Hour),
		LastSeen:        now,
		PhoneNumbers:    []string{"9876543210"},
		UPIIDs:          []string{"fraud@ybl"},
		BankAccounts:    []string{"123456789012"},
		CryptoAddresses: []string{"bc1qxy2kgdygjrsqtzq2n0yrf2493p83kkfjhx0wlh"},
		ScamTypes:       []string{"BANKING"},
		SessionIDs:      []string{"s1", "s2"},
		RiskScore:       0.85,
	}

	mock.ExpectExec("INSERT INTO archived_fingerprints").
		WithArgs("abc123def456", 2, 0.85, "critical",
			sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(),
			sqlmock.AnyArg(), sqlmock.AnyArg(),
			fp.FirstSeen, fp.LastSeen).
		WillReturnResult(sqlmock.NewResult(1, 1))

	store := NewStore(db)
	require.NoError(t, store.SaveFingerprint(context.Background(), fp))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecentSessions(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{
		"session_id", "scam_detected", "scam_type", "language", "message_count",
		"duration_seconds", "conversation", "intel", "agent_notes", "created_at", "archived_at",
	}).AddRow("sess-1", true, "KYC", "hi", 8, int64(300),
		[]byte(`[]`), []byte(`{}`), "notes", now.Add(-time.Hour), now)

	mock.ExpectQuery("SELECT (.+) FROM archived_sessions").
		WithArgs(10).
		WillReturnRows(rows)

	store := NewStore(db)
	got, err := store.RecentSessions(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "sess-1", got[0].SessionID)
	assert.Equal(t, "KYC", got[0].ScamType)
	assert.Equal(t, 8, got[0].MessageCount)
}

func TestRecentSessionsDefaultLimit(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT (.+) FROM archived_sessions").
		WithArgs(50).
		WillReturnRows(sqlmock.NewRows([]string{
			"session_id", "scam_detected", "scam_type", "language", "message_count",
			"duration_seconds", "conversation", "intel", "agent_notes", "created_at", "archived_at",
		}))

	store := NewStore(db)
	got, err := store.RecentSessions(context.Background(), 0)
	require.NoError(t, err)
	assert.Empty(t, got)
}
