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

// Package bolt provides a state.Provider backed by an embedded bbolt database.
package bolt

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"sync/atomic"
	"time"

	bbolt "go.etcd.io/bbolt"

	gerrors "github.com/tochemey/vactor/errors"
	"github.com/tochemey/vactor/state"
)

const (
	fileMode os.FileMode = 0o600
	// headerSize is the size of the expiration header prepended to every value
	headerSize = 8
)

var (
	defaultOptions = &bbolt.Options{Timeout: 5 * time.Second, NoGrowSync: true}
	// ErrClosed is returned when the provider is used after Close
	ErrClosed = errors.New("bolt: state provider is closed")
)

// Provider implements state.Provider on top of go.etcd.io/bbolt.
//
// Each actor type gets its own bucket and state names are keyed by
// "actorID||name". Values carry an eight bytes big-endian header holding the
// expiration in Unix nanoseconds, zero meaning no expiration.
//
// bbolt provides single-writer/multi-reader semantics: a batch is applied
// within one read-write transaction and is therefore atomic.
type Provider struct {
	db     *bbolt.DB
	path   string
	clock  func() time.Time
	closed atomic.Bool
}

// enforce compilation error
var _ state.Provider = (*Provider)(nil)

// NewProvider opens (or creates) the bbolt database at path.
func NewProvider(path string) (*Provider, error) {
	optionsCopy := *defaultOptions
	db, err := bbolt.Open(path, fileMode, &optionsCopy)
	if err != nil {
		return nil, fmt.Errorf("bolt: opening database: %w", err)
	}
	return &Provider{db: db, path: path, clock: time.Now}, nil
}

// Load implements state.Provider
func (p *Provider) Load(ctx context.Context, actorType, actorID, name string) ([]byte, error) {
	if err := p.check(ctx); err != nil {
		return nil, err
	}

	var value []byte
	err := p.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(actorType))
		if bucket == nil {
			return nil
		}

		raw := bucket.Get(key(actorID, name))
		if raw == nil || p.expired(raw) {
			return nil
		}

		// bbolt values are only valid for the life of the transaction
		value = make([]byte, len(raw)-headerSize)
		copy(value, raw[headerSize:])
		return nil
	})

	if err != nil {
		return nil, err
	}

	if value == nil {
		return nil, gerrors.NewErrStateNotFound(name)
	}
	return value, nil
}

// Contains implements state.Provider
func (p *Provider) Contains(ctx context.Context, actorType, actorID, name string) (bool, error) {
	if err := p.check(ctx); err != nil {
		return false, err
	}

	var found bool
	err := p.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(actorType))
		if bucket == nil {
			return nil
		}
		raw := bucket.Get(key(actorID, name))
		found = raw != nil && !p.expired(raw)
		return nil
	})
	return found, err
}

// Apply implements state.Provider
func (p *Provider) Apply(ctx context.Context, actorType, actorID string, changes []state.Change) error {
	if err := p.check(ctx); err != nil {
		return err
	}

	if len(changes) == 0 {
		return nil
	}

	return p.db.Update(func(tx *bbolt.Tx) error {
		bucket, err := tx.CreateBucketIfNotExists([]byte(actorType))
		if err != nil {
			return fmt.Errorf("bolt: creating bucket %q: %w", actorType, err)
		}

		for _, change := range changes {
			switch change.Operation() {
			case state.Upsert:
				if err := bucket.Put(key(actorID, change.Name), encode(change)); err != nil {
					return err
				}
			case state.Delete:
				if err := bucket.Delete(key(actorID, change.Name)); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

// Path returns the database file path
func (p *Provider) Path() string {
	return p.path
}

// Close closes the underlying database. It is safe to call more than once.
func (p *Provider) Close() error {
	if !p.closed.CompareAndSwap(false, true) {
		return nil
	}
	return p.db.Close()
}

func (p *Provider) check(ctx context.Context) error {
	if p.closed.Load() {
		return ErrClosed
	}
	return ctx.Err()
}

func (p *Provider) expired(raw []byte) bool {
	if len(raw) < headerSize {
		return true
	}
	expiresAt := int64(binary.BigEndian.Uint64(raw[:headerSize]))
	return expiresAt != 0 && p.clock().UnixNano() > expiresAt
}

func encode(change state.Change) []byte {
	raw := make([]byte, headerSize+len(change.Value))
	if change.ExpiresAt != nil {
		binary.BigEndian.PutUint64(raw[:headerSize], uint64(change.ExpiresAt.UnixNano()))
	}
	copy(raw[headerSize:], change.Value)
	return raw
}

func key(actorID, name string) []byte {
	return []byte(actorID + state.KeySeparator + name)
}
