package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/josh-kwaku/bakery-pos/internal/domain"
)

func setupRedis(t *testing.T) string {
	t.Helper()
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		t.Fatalf("start redis container: %v", err)
	}
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("terminate redis container: %v", err)
		}
	})

	addr, err := container.Endpoint(ctx, "")
	if err != nil {
		t.Fatalf("get redis endpoint: %v", err)
	}
	return addr
}

func TestRedisLocker(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	rdb, err := ConnectRedis(ctx, setupRedis(t))
	require.NoError(t, err)
	t.Cleanup(func() { rdb.Close() })

	first := NewRedisLocker(rdb, "", 5*time.Second, 100*time.Millisecond)
	second := NewRedisLocker(rdb, "", 5*time.Second, 100*time.Millisecond)

	release, err := first.Acquire(ctx)
	require.NoError(t, err)

	_, err = second.Acquire(ctx)
	require.ErrorIs(t, err, domain.ErrLockNotObtained)

	require.NoError(t, release(ctx))

	release, err = second.Acquire(ctx)
	require.NoError(t, err)
	assert.NoError(t, release(ctx))
}

func TestFileSink_WithRedisLocker(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	rdb, err := ConnectRedis(ctx, setupRedis(t))
	require.NoError(t, err)
	t.Cleanup(func() { rdb.Close() })

	sink := NewFileSink(newLedger(t), NewRedisLocker(rdb, "lock:test", 5*time.Second, 2*time.Second), nil)
	require.NoError(t, sink.Append(ctx, sampleEntry))

	entries, err := sink.Tail(1)
	require.NoError(t, err)
	assert.Equal(t, []string{sampleEntry}, entries)
}
