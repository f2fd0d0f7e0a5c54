package internal_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/koopa0/system-design/paddle-arena/internal"
	"github.com/koopa0/system-design/paddle-arena/internal/testutils"
)

func TestQueue_DraftIsFIFO(t *testing.T) {
	q := internal.NewQueue()
	for _, id := range []string{"a", "b", "c", "d", "e"} {
		q.Push(internal.Mode2v2, testutils.Entrant(id))
	}

	drafted := q.Draft(internal.Mode2v2)
	require.Len(t, drafted, 4)

	ids := make([]string, len(drafted))
	for i, e := range drafted {
		ids[i] = e.PlayerID
	}
	assert.Equal(t, []string{"a", "b", "c", "d"}, ids)
	assert.Equal(t, []string{"e"}, q.Members(internal.Mode2v2))
}

func TestQueue_DraftNeedsFullGroup(t *testing.T) {
	q := internal.NewQueue()
	q.Push(internal.Mode1v1, testutils.Entrant("a"))

	assert.Nil(t, q.Draft(internal.Mode1v1))
	assert.Equal(t, 1, q.Len(internal.Mode1v1))

	q.Push(internal.Mode1v1, testutils.Entrant("b"))
	assert.Len(t, q.Draft(internal.Mode1v1), 2)
	assert.Zero(t, q.Len(internal.Mode1v1))
}

func TestQueue_Contains(t *testing.T) {
	q := internal.NewQueue()
	q.Push(internal.Mode2v2, testutils.Entrant("a"))

	assert.True(t, q.Contains("a"))
	assert.False(t, q.Contains("b"))
}

func TestQueue_Remove(t *testing.T) {
	tests := []struct {
		name        string
		sessionID   string
		wantChanged []internal.Mode
		wantMembers []string
	}{
		{
			name:        "any session",
			sessionID:   "",
			wantChanged: []internal.Mode{internal.Mode2v2},
			wantMembers: []string{"a", "c"},
		},
		{
			name:        "matching session",
			sessionID:   "session-b",
			wantChanged: []internal.Mode{internal.Mode2v2},
			wantMembers: []string{"a", "c"},
		},
		{
			name:        "stale session leaves entry alone",
			sessionID:   "old-session",
			wantChanged: nil,
			wantMembers: []string{"a", "b", "c"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := internal.NewQueue()
			for _, id := range []string{"a", "b", "c"} {
				q.Push(internal.Mode2v2, testutils.Entrant(id))
			}

			changed := q.Remove("b", tt.sessionID)

			assert.Equal(t, tt.wantChanged, changed)
			assert.Equal(t, tt.wantMembers, q.Members(internal.Mode2v2))
		})
	}
}

func TestQueue_RemoveUnknownPlayer(t *testing.T) {
	q := internal.NewQueue()
	q.Push(internal.Mode1v1, testutils.Entrant("a"))

	assert.Empty(t, q.Remove("nobody", ""))
	assert.Equal(t, 1, q.Len(internal.Mode1v1))
}

func TestQueue_Sizes(t *testing.T) {
	q := internal.NewQueue()
	q.Push(internal.Mode1v1, testutils.Entrant("a"))
	q.Push(internal.Mode2v2, testutils.Entrant("b"))
	q.Push(internal.Mode2v2, testutils.Entrant("c"))

	assert.Equal(t, map[internal.Mode]int{internal.Mode1v1: 1, internal.Mode2v2: 2}, q.Sizes())
}

func TestMode(t *testing.T) {
	tests := []struct {
		mode     internal.Mode
		valid    bool
		required int
	}{
		{internal.Mode1v1, true, 2},
		{internal.Mode2v2, true, 4},
		{internal.Mode("3v3"), false, 0},
		{internal.Mode(""), false, 0},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.valid, tt.mode.Valid(), tt.mode)
		assert.Equal(t, tt.required, tt.mode.RequiredSize(), tt.mode)
	}
}
