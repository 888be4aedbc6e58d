package lock

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AccommodationService/internal/domain"
)

// fakeRedis хранит ключи в памяти и исполняет скрипт снятия блокировки
type fakeRedis struct {
	mu   sync.Mutex
	keys map[string]string
	err  error
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{keys: make(map[string]string)}
}

func (f *fakeRedis) SetNX(ctx context.Context, key string, value interface{}, _ time.Duration) *redis.BoolCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return redis.NewBoolResult(false, f.err)
	}
	if _, ok := f.keys[key]; ok {
		return redis.NewBoolResult(false, nil)
	}
	f.keys[key] = value.(string)
	return redis.NewBoolResult(true, nil)
}

func (f *fakeRedis) compareAndDelete(keys []string, args ...interface{}) *redis.Cmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.keys[keys[0]] == args[0].(string) {
		delete(f.keys, keys[0])
		return redis.NewCmdResult(int64(1), nil)
	}
	return redis.NewCmdResult(int64(0), nil)
}

func (f *fakeRedis) Eval(_ context.Context, _ string, keys []string, args ...interface{}) *redis.Cmd {
	return f.compareAndDelete(keys, args...)
}

func (f *fakeRedis) EvalSha(_ context.Context, _ string, keys []string, args ...interface{}) *redis.Cmd {
	return f.compareAndDelete(keys, args...)
}

func (f *fakeRedis) EvalRO(_ context.Context, _ string, keys []string, args ...interface{}) *redis.Cmd {
	return f.compareAndDelete(keys, args...)
}

func (f *fakeRedis) EvalShaRO(_ context.Context, _ string, keys []string, args ...interface{}) *redis.Cmd {
	return f.compareAndDelete(keys, args...)
}

func (f *fakeRedis) ScriptExists(_ context.Context, hashes ...string) *redis.BoolSliceCmd {
	return redis.NewBoolSliceResult(make([]bool, len(hashes)), nil)
}

func (f *fakeRedis) ScriptLoad(_ context.Context, _ string) *redis.StringCmd {
	return redis.NewStringResult("sha", nil)
}

func TestRedisLocker_AcquireAndRelease(t *testing.T) {
	rdb := newFakeRedis()
	l := NewRedisLocker(rdb, "test", time.Second, 0)

	release, err := l.Acquire(context.Background(), BedspaceKey(7))
	require.NoError(t, err)
	assert.Contains(t, rdb.keys, "test:bedspace:7")

	_, err = l.Acquire(context.Background(), BedspaceKey(7))
	assert.True(t, errors.Is(err, ErrNotAcquired))
	assert.True(t, errors.Is(err, domain.ErrConcurrencyConflict))

	require.NoError(t, release(context.Background()))
	assert.NotContains(t, rdb.keys, "test:bedspace:7")

	_, err = l.Acquire(context.Background(), BedspaceKey(7))
	assert.NoError(t, err)
}

func TestRedisLocker_ReleaseKeepsForeignLock(t *testing.T) {
	rdb := newFakeRedis()
	l := NewRedisLocker(rdb, "test", time.Second, 0)

	release, err := l.Acquire(context.Background(), BedspaceKey(1))
	require.NoError(t, err)

	// ключ истек и был захвачен другим писателем
	rdb.keys["test:bedspace:1"] = "someone-else"

	require.NoError(t, release(context.Background()))
	assert.Equal(t, "someone-else", rdb.keys["test:bedspace:1"])
}

func TestRedisLocker_WaitsForRelease(t *testing.T) {
	rdb := newFakeRedis()
	l := NewRedisLocker(rdb, "test", time.Second, time.Second)

	release, err := l.Acquire(context.Background(), BedspaceKey(2))
	require.NoError(t, err)

	go func() {
		time.Sleep(50 * time.Millisecond)
		_ = release(context.Background())
	}()

	_, err = l.Acquire(context.Background(), BedspaceKey(2))
	assert.NoError(t, err)
}

func TestRedisLocker_RedisError(t *testing.T) {
	rdb := newFakeRedis()
	rdb.err = errors.New("connection refused")
	l := NewRedisLocker(rdb, "test", time.Second, 0)

	_, err := l.Acquire(context.Background(), BedspaceKey(3))

	assert.True(t, errors.Is(err, ErrRedis))
}

func TestNoopLocker(t *testing.T) {
	release, err := NoopLocker{}.Acquire(context.Background(), BedspaceKey(1))
	require.NoError(t, err)
	assert.NoError(t, release(context.Background()))
}
