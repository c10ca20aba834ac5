package sessions

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/gotodo/gotodo/internal/flash"
)

func TestService_CreateGetDelete(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	ctx := context.Background()

	token, err := svc.Create(ctx, "user-1", time.Hour)
	require.NoError(t, err)
	require.Len(t, token, 64)

	sess, err := svc.Get(ctx, token)
	require.NoError(t, err)
	require.NotNil(t, sess)
	require.Equal(t, "user-1", sess.UserID)

	require.NoError(t, svc.Delete(ctx, token))
	sess, err = svc.Get(ctx, token)
	require.NoError(t, err)
	require.Nil(t, sess)
}

func TestService_ExpiredSessionIsGone(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	ctx := context.Background()

	token, err := svc.Create(ctx, "user-1", -time.Minute)
	require.NoError(t, err)

	sess, err := svc.Get(ctx, token)
	require.NoError(t, err)
	require.Nil(t, sess)
}

func TestService_FlashExactlyOnce(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	ctx := context.Background()

	token, err := svc.Create(ctx, "", time.Hour)
	require.NoError(t, err)

	require.NoError(t, svc.AddFlash(ctx, token, flash.Success, "Todo added"))
	require.NoError(t, svc.AddFlash(ctx, token, flash.Error, "Not authorized"))

	msgs, err := svc.DrainFlash(ctx, token)
	require.NoError(t, err)
	require.Equal(t, []string{"Todo added"}, msgs[flash.Success])
	require.Equal(t, []string{"Not authorized"}, msgs[flash.Error])

	// drained messages must not reappear
	again, err := svc.DrainFlash(ctx, token)
	require.NoError(t, err)
	require.True(t, again.Empty())
}

func TestService_LoginBindsUser(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	ctx := context.Background()

	token, err := svc.Create(ctx, "", time.Hour)
	require.NoError(t, err)

	require.NoError(t, svc.Login(ctx, token, "user-9"))
	sess, err := svc.Get(ctx, token)
	require.NoError(t, err)
	require.NotNil(t, sess)
	require.Equal(t, "user-9", sess.UserID)
}
