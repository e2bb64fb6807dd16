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

// Package redis provides a state.Provider backed by Redis.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/flowchartsman/retry"
	"github.com/redis/go-redis/v9"

	gerrors "github.com/tochemey/vactor/errors"
	"github.com/tochemey/vactor/log"
	"github.com/tochemey/vactor/state"
)

const (
	// DefaultMaxRetries is the default number of attempts made to apply a batch
	DefaultMaxRetries = 3
	// DefaultRetryDelay is the default initial delay between two attempts
	DefaultRetryDelay = 100 * time.Millisecond
)

// Provider implements state.Provider on top of Redis.
//
// A batch is applied in a MULTI/EXEC transaction. Expirations are mapped to
// the Redis key TTL; an upsert whose expiration is already behind is applied
// as a delete.
type Provider struct {
	client     redis.UniversalClient
	prefix     string
	logger     log.Logger
	maxRetries int
	retryDelay time.Duration
	clock      func() time.Time
}

// enforce compilation error
var _ state.Provider = (*Provider)(nil)

// NewProvider creates a Redis state provider using the given client.
// The caller owns the client and closes it.
func NewProvider(client redis.UniversalClient, opts ...Option) *Provider {
	provider := &Provider{
		client:     client,
		logger:     log.DiscardLogger,
		maxRetries: DefaultMaxRetries,
		retryDelay: DefaultRetryDelay,
		clock:      time.Now,
	}

	for _, opt := range opts {
		opt.Apply(provider)
	}
	return provider
}

// Load implements state.Provider
func (p *Provider) Load(ctx context.Context, actorType, actorID, name string) ([]byte, error) {
	value, err := p.client.Get(ctx, p.key(actorType, actorID, name)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, gerrors.NewErrStateNotFound(name)
		}
		return nil, err
	}
	return value, nil
}

// Contains implements state.Provider
func (p *Provider) Contains(ctx context.Context, actorType, actorID, name string) (bool, error) {
	count, err := p.client.Exists(ctx, p.key(actorType, actorID, name)).Result()
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Apply implements state.Provider
func (p *Provider) Apply(ctx context.Context, actorType, actorID string, changes []state.Change) error {
	if len(changes) == 0 {
		return nil
	}

	retrier := retry.NewRetrier(p.maxRetries, p.retryDelay, p.retryDelay*time.Duration(p.maxRetries))
	err := retrier.RunContext(ctx, func(ctx context.Context) error {
		_, err := p.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			now := p.clock()
			for _, change := range changes {
				key := p.key(actorType, actorID, change.Name)
				switch change.Operation() {
				case state.Upsert:
					if change.Expired(now) {
						pipe.Del(ctx, key)
						continue
					}

					var ttl time.Duration
					if change.ExpiresAt != nil {
						ttl = change.ExpiresAt.Sub(now)
					}
					pipe.Set(ctx, key, change.Value, ttl)
				case state.Delete:
					pipe.Del(ctx, key)
				}
			}
			return nil
		})
		return err
	})

	if err != nil {
		p.logger.Errorf("failed to apply %d state change(s) of actor=%s/%s: %v", len(changes), actorType, actorID, err)
		return fmt.Errorf("redis: applying state changes: %w", err)
	}
	return nil
}

func (p *Provider) key(actorType, actorID, name string) string {
	return p.prefix + state.Key(actorType, actorID, name)
}
