package store_test

import (
	"context"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/koopa0/system-design/paddle-arena/internal"
	"github.com/koopa0/system-design/paddle-arena/internal/store"
	apperrors "github.com/koopa0/system-design/paddle-arena/pkg/errors"
	"github.com/koopa0/system-design/paddle-arena/pkg/logger"
)

func newMiniRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

func TestLeaderboard_IncrAndTop(t *testing.T) {
	mr, rdb := newMiniRedis(t)
	board := store.NewLeaderboard(rdb, "test", logger.Discard())
	ctx := context.Background()

	require.NoError(t, board.Incr(ctx, []string{"a", "b"}, internal.StatWins, 1))
	require.NoError(t, board.Incr(ctx, []string{"a"}, internal.StatWins, 1))
	require.NoError(t, board.Incr(ctx, []string{"c"}, internal.StatLosses, 1))

	score, err := mr.ZScore("test:leaderboard:wins", "a")
	require.NoError(t, err)
	assert.Equal(t, 2.0, score)

	top, err := board.Top(ctx, internal.StatWins, 10)
	require.NoError(t, err)
	assert.Equal(t, []internal.LeaderboardEntry{
		{PlayerID: "a", Score: 2},
		{PlayerID: "b", Score: 1},
	}, top)

	top, err = board.Top(ctx, internal.StatWins, 1)
	require.NoError(t, err)
	assert.Len(t, top, 1)

	losses, err := board.Top(ctx, internal.StatLosses, 10)
	require.NoError(t, err)
	assert.Equal(t, []internal.LeaderboardEntry{{PlayerID: "c", Score: 1}}, losses)
}

func TestLeaderboard_DefaultPrefix(t *testing.T) {
	mr, rdb := newMiniRedis(t)
	board := store.NewLeaderboard(rdb, "", logger.Discard())

	require.NoError(t, board.Incr(context.Background(), []string{"a"}, internal.StatLosses, 1))

	assert.True(t, mr.Exists("arena:leaderboard:losses"))
}

func TestLeaderboard_Validation(t *testing.T) {
	_, rdb := newMiniRedis(t)
	board := store.NewLeaderboard(rdb, "test", logger.Discard())
	ctx := context.Background()

	assert.ErrorIs(t, board.Incr(ctx, []string{"a"}, "draws", 1), apperrors.ErrInvalidStatField)

	_, err := board.Top(ctx, "draws", 10)
	assert.ErrorIs(t, err, apperrors.ErrInvalidStatField)

	top, err := board.Top(ctx, internal.StatWins, 0)
	require.NoError(t, err)
	assert.Empty(t, top)
}

func TestLeaderboard_Unavailable(t *testing.T) {
	mr, rdb := newMiniRedis(t)
	board := store.NewLeaderboard(rdb, "test", logger.Discard())
	mr.Close()

	err := board.Incr(context.Background(), []string{"a"}, internal.StatWins, 1)
	assert.True(t, apperrors.IsUnavailable(err))

	_, err = board.Top(context.Background(), internal.StatWins, 5)
	assert.True(t, apperrors.IsUnavailable(err))
}

func TestSink_MirrorsStatsToLeaderboard(t *testing.T) {
	mr, rdb := newMiniRedis(t)
	db := &fakeDB{}
	sink := store.NewSink(store.NewMatchStore(db, logger.Discard()), store.NewLeaderboard(rdb, "test", logger.Discard()), logger.Discard())
	ctx := context.Background()

	require.NoError(t, sink.AdjustStat(ctx, []string{"a"}, internal.StatWins, 1))
	require.NoError(t, sink.RecordMatch(ctx, sampleRecord(internal.Mode1v1)))

	assert.Len(t, db.execs, 2)
	score, err := mr.ZScore("test:leaderboard:wins", "a")
	require.NoError(t, err)
	assert.Equal(t, 1.0, score)
}

func TestSink_PostgresFailureSkipsLeaderboard(t *testing.T) {
	mr, rdb := newMiniRedis(t)
	db := &fakeDB{execErr: errors.New("down")}
	sink := store.NewSink(store.NewMatchStore(db, logger.Discard()), store.NewLeaderboard(rdb, "test", logger.Discard()), logger.Discard())

	err := sink.AdjustStat(context.Background(), []string{"a"}, internal.StatWins, 1)

	assert.True(t, apperrors.IsUnavailable(err))
	assert.False(t, mr.Exists("test:leaderboard:wins"))
}

func TestSink_LeaderboardFailureIsNotAnError(t *testing.T) {
	mr, rdb := newMiniRedis(t)
	db := &fakeDB{}
	sink := store.NewSink(store.NewMatchStore(db, logger.Discard()), store.NewLeaderboard(rdb, "test", logger.Discard()), logger.Discard())
	mr.Close()

	assert.NoError(t, sink.AdjustStat(context.Background(), []string{"a"}, internal.StatLosses, 1))
	assert.Len(t, db.execs, 1)
}

func TestSink_WithoutLeaderboard(t *testing.T) {
	db := &fakeDB{}
	sink := store.NewSink(store.NewMatchStore(db, logger.Discard()), nil, logger.Discard())

	assert.NoError(t, sink.AdjustStat(context.Background(), []string{"a"}, internal.StatWins, 1))
}
