package snapshot

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/chuo/core/attendance"
	"github.com/trezcool/chuo/core/user"
)

func TestFile_emptyCollections(t *testing.T) {
	snap, err := NewFile(t.TempDir())
	require.NoError(t, err)

	users, err := snap.LoadUsers()
	require.NoError(t, err)
	assert.Empty(t, users)

	sessions, err := snap.LoadSessions()
	require.NoError(t, err)
	assert.Empty(t, sessions)
}

func TestFile_roundTrip(t *testing.T) {
	dir := t.TempDir()
	snap, err := NewFile(dir)
	require.NoError(t, err)

	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	usr := user.User{
		ID:        "u-1",
		Name:      "Jane",
		Email:     "jane@test.cd",
		Role:      user.RoleStudent,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, usr.SetPassword("S3cret!pwd"))

	require.NoError(t, snap.SaveUsers([]user.User{usr}))

	// reopen against the same dir, as a restart would
	snap2, err := NewFile(dir)
	require.NoError(t, err)
	users, err := snap2.LoadUsers()
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, usr, users[0])
	// the hash survives the round trip even though the API never renders it
	assert.NoError(t, users[0].CheckPassword("S3cret!pwd"))
}

func TestFile_sessionRoundTrip(t *testing.T) {
	snap, err := NewFile(t.TempDir())
	require.NoError(t, err)

	sess := attendance.Session{
		ID:        "sess-1",
		Code:      "123456",
		CreatorID: "t-1",
		Subject:   "Algorithms",
		CreatedAt: time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC),
		IsActive:  true,
		Division:  "a",
		Attendees: []attendance.Record{{
			StudentID:    "s-1",
			StudentName:  "Asha",
			EnrollmentNo: "EN-2024/031",
			Timestamp:    time.Date(2026, 3, 2, 9, 15, 0, 0, time.UTC),
			Location:     attendance.Location{Lat: 18.52, Lng: 73.85},
		}},
	}
	require.NoError(t, snap.SaveSessions([]attendance.Session{sess}))

	sessions, err := snap.LoadSessions()
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, sess, sessions[0])
}
