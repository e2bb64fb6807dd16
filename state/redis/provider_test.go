// MIT License
//
// Copyright (c) 2022-2026 GoAkt Team
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package redis

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	gerrors "github.com/tochemey/vactor/errors"
	"github.com/tochemey/vactor/log"
	"github.com/tochemey/vactor/serializer"
	"github.com/tochemey/vactor/state"
)

func startRedis(t *testing.T) *redis.Client {
	t.Helper()
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForListeningPort("6379/tcp"),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, testcontainers.TerminateContainer(container))
	})

	endpoint, err := container.Endpoint(ctx, "")
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{Addr: endpoint})
	t.Cleanup(func() {
		_ = client.Close()
	})
	require.NoError(t, client.Ping(ctx).Err())
	return client
}

func TestProvider(t *testing.T) {
	client := startRedis(t)
	ctx := context.Background()
	provider := NewProvider(client, WithKeyPrefix("app||"), WithLogger(log.DiscardLogger), WithRetry(2, 10*time.Millisecond))

	t.Run("apply load and delete", func(t *testing.T) {
		_, err := provider.Load(ctx, "Counter", "c1", "count")
		require.ErrorIs(t, err, gerrors.ErrStateNotFound)

		require.NoError(t, provider.Apply(ctx, "Counter", "c1", []state.Change{
			{Name: "count", Kind: state.Add, Value: []byte("1")},
			{Name: "label", Kind: state.Update, Value: []byte(`"first"`)},
		}))

		value, err := provider.Load(ctx, "Counter", "c1", "count")
		require.NoError(t, err)
		assert.Equal(t, []byte("1"), value)

		raw, err := client.Get(ctx, "app||Counter||c1||label").Bytes()
		require.NoError(t, err)
		assert.Equal(t, []byte(`"first"`), raw)

		require.NoError(t, provider.Apply(ctx, "Counter", "c1", []state.Change{{Name: "count", Kind: state.Remove}}))
		exists, err := provider.Contains(ctx, "Counter", "c1", "count")
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("expiration maps to the key ttl", func(t *testing.T) {
		expiresAt := time.Now().Add(time.Hour)
		require.NoError(t, provider.Apply(ctx, "Counter", "c2", []state.Change{
			{Name: "count", Kind: state.Add, Value: []byte("1"), ExpiresAt: &expiresAt},
		}))

		ttl, err := client.TTL(ctx, "app||Counter||c2||count").Result()
		require.NoError(t, err)
		assert.Greater(t, ttl, 59*time.Minute)

		expired := time.Now().Add(-time.Second)
		require.NoError(t, provider.Apply(ctx, "Counter", "c2", []state.Change{
			{Name: "count", Kind: state.Update, Value: []byte("2"), ExpiresAt: &expired},
		}))
		exists, err := provider.Contains(ctx, "Counter", "c2", "count")
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("with a state manager", func(t *testing.T) {
		manager := state.NewManager("Counter", "c3", provider, serializer.NewJSON())
		require.NoError(t, manager.Add(ctx, "count", 0, 0))
		require.NoError(t, manager.Save(ctx))
		require.NoError(t, manager.Set(ctx, "count", 1, 0))
		require.NoError(t, manager.Remove(ctx, "count"))
		require.NoError(t, manager.Save(ctx))

		exists, err := manager.Contains(ctx, "count")
		require.NoError(t, err)
		assert.False(t, exists)
	})
}

func TestProviderUnreachable(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", DialTimeout: 50 * time.Millisecond, MaxRetries: -1})
	defer client.Close()

	provider := NewProvider(client, WithRetry(2, time.Millisecond))
	err := provider.Apply(context.Background(), "Counter", "c1", []state.Change{{Name: "count", Kind: state.Add, Value: []byte("1")}})
	require.Error(t, err)

	_, err = provider.Load(context.Background(), "Counter", "c1", "count")
	require.Error(t, err)
	assert.False(t, gerrors.IsNotFound(err))
}
