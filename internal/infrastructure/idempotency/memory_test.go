package idempotency

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_ReserveOnce(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	ok, err := s.Reserve(ctx, "k1", time.Hour)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.Reserve(ctx, "k1", time.Hour)
	require.NoError(t, err)
	assert.False(t, ok, "segunda reserva de la misma clave")

	resp, found, err := s.Get(ctx, "k1")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Nil(t, resp, "en curso: sin respuesta todavía")
}

func TestMemoryStore_SaveAndReplay(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	_, _ = s.Reserve(ctx, "pay-1", time.Hour)
	body := []byte(`{"number":"RCV-000001"}`)
	require.NoError(t, s.Save(ctx, "pay-1", Response{Status: 201, Body: body}, time.Hour))
	body[0] = 'X'

	resp, found, err := s.Get(ctx, "pay-1")
	require.NoError(t, err)
	require.True(t, found)
	require.NotNil(t, resp)
	assert.Equal(t, 201, resp.Status)
	assert.Equal(t, `{"number":"RCV-000001"}`, string(resp.Body))
}

func TestMemoryStore_ReleaseAllowsRetry(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	_, _ = s.Reserve(ctx, "k", time.Hour)
	require.NoError(t, s.Release(ctx, "k"))

	_, found, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, found)

	ok, err := s.Reserve(ctx, "k", time.Hour)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestMemoryStore_Expiry(t *testing.T) {
	s := NewMemoryStore()
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }
	ctx := context.Background()

	_, _ = s.Reserve(ctx, "k", time.Minute)
	require.NoError(t, s.Save(ctx, "k", Response{Status: 200}, time.Minute))

	now = now.Add(2 * time.Minute)
	_, found, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, found, "vencida")

	ok, err := s.Reserve(ctx, "k", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
}
