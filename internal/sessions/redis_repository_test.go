package sessions

import (
	"context"
	"testing"
	"time"

	mr "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/gotodo/gotodo/internal/flash"
)

func TestRedisRepository_CreateGetDelete(t *testing.T) {
	m, err := mr.Run()
	require.NoError(t, err)
	defer m.Close()

	client := redis.NewClient(&redis.Options{Addr: m.Addr()})
	repo := NewRedisRepository(client, "test:session:")

	ctx := context.Background()
	s := &Session{
		Token:     "t1",
		UserID:    "user-1",
		CreatedAt: time.Now().UTC(),
		ExpiresAt: time.Now().UTC().Add(5 * time.Second),
	}

	require.NoError(t, repo.Create(ctx, s))

	got, err := repo.GetByToken(ctx, "t1")
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, s.UserID, got.UserID)

	// test deletion
	require.NoError(t, repo.DeleteByToken(ctx, "t1"))
	got2, err := repo.GetByToken(ctx, "t1")
	require.NoError(t, err)
	require.Nil(t, got2)
}

func TestRedisRepository_TTLExpiry(t *testing.T) {
	m, err := mr.Run()
	require.NoError(t, err)
	defer m.Close()

	client := redis.NewClient(&redis.Options{Addr: m.Addr()})
	repo := NewRedisRepository(client, "test:session:")

	ctx := context.Background()
	s := &Session{
		Token:     "t2",
		UserID:    "user-2",
		CreatedAt: time.Now().UTC(),
		ExpiresAt: time.Now().UTC().Add(1 * time.Second),
	}

	require.NoError(t, repo.Create(ctx, s))

	// visible immediately
	got, err := repo.GetByToken(ctx, "t2")
	require.NoError(t, err)
	require.NotNil(t, got)

	// advance miniredis clock past TTL
	m.FastForward(2 * time.Second)

	got2, err := repo.GetByToken(ctx, "t2")
	require.NoError(t, err)
	require.Nil(t, got2)
}

func TestRedisRepository_UpdateKeepsFlash(t *testing.T) {
	m, err := mr.Run()
	require.NoError(t, err)
	defer m.Close()

	client := redis.NewClient(&redis.Options{Addr: m.Addr()})
	repo := NewRedisRepository(client, "test:session:")

	ctx := context.Background()
	s := &Session{
		Token:     "t3",
		ExpiresAt: time.Now().UTC().Add(time.Minute),
	}
	require.NoError(t, repo.Create(ctx, s))

	s.Flash = flash.Messages{}
	s.Flash.Add(flash.Success, "Todo removed")
	require.NoError(t, repo.Update(ctx, s))

	got, err := repo.GetByToken(ctx, "t3")
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, []string{"Todo removed"}, got.Flash[flash.Success])
}
