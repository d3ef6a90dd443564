package whatsapp

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisStore(t *testing.T) (*RedisSessionStore, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisSessionStore(client, 30*time.Minute), mr
}

func TestRedisSessionStoreRoundtrip(t *testing.T) {
	store, _ := newRedisStore(t)
	ctx := context.Background()

	sess, err := store.Get(ctx, "whatsapp:+15551234")
	require.NoError(t, err)
	assert.Nil(t, sess)

	require.NoError(t, store.Put(ctx, "whatsapp:+15551234", &Session{Step: StepConfirm, Name: "Jane Doe", Time: "10:00 AM"}))

	sess, err = store.Get(ctx, "whatsapp:+15551234")
	require.NoError(t, err)
	require.NotNil(t, sess)
	assert.Equal(t, StepConfirm, sess.Step)
	assert.Equal(t, "10:00 AM", sess.Time)

	require.NoError(t, store.Delete(ctx, "whatsapp:+15551234"))
	sess, err = store.Get(ctx, "whatsapp:+15551234")
	require.NoError(t, err)
	assert.Nil(t, sess)
}

func TestRedisSessionStoreTTL(t *testing.T) {
	store, mr := newRedisStore(t)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "sender", &Session{Step: StepName}))

	mr.FastForward(31 * time.Minute)
	sess, err := store.Get(ctx, "sender")
	require.NoError(t, err)
	assert.Nil(t, sess, "session expires after the TTL")
}
