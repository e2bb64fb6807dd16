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

package log

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZapLevels(t *testing.T) {
	testCases := []struct {
		name     string
		level    Level
		log      func(Logger)
		expected string
	}{
		{name: "debug", level: DebugLevel, log: func(l Logger) { l.Debug("debug message") }, expected: "debug"},
		{name: "info", level: InfoLevel, log: func(l Logger) { l.Infof("%s message", "info") }, expected: "info"},
		{name: "warn", level: WarningLevel, log: func(l Logger) { l.Warn("warn message") }, expected: "warn"},
		{name: "error", level: ErrorLevel, log: func(l Logger) { l.Errorf("error %s", "message") }, expected: "error"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			buffer := new(bytes.Buffer)
			logger := NewZap(tc.level, buffer)
			require.Equal(t, tc.level, logger.LogLevel())

			tc.log(logger)
			require.NoError(t, logger.Sync())

			entry := decodeEntry(t, buffer.Bytes())
			assert.Equal(t, tc.expected+" message", entry["msg"])
			assert.Equal(t, tc.expected, entry["level"])
		})
	}
}

func TestZapFiltersBelowLevel(t *testing.T) {
	buffer := new(bytes.Buffer)
	logger := NewZap(ErrorLevel, buffer)
	logger.Info("ignored")
	logger.Debugf("ignored %d", 1)
	logger.Warnf("ignored %d", 2)
	require.NoError(t, logger.Sync())
	assert.Zero(t, buffer.Len())
}

func TestZapWith(t *testing.T) {
	t.Run("With adds structured fields to output", func(t *testing.T) {
		buffer := new(bytes.Buffer)
		logger := NewZap(InfoLevel, buffer)
		logger.With("actorType", "Counter", "actorID", "a-1", "elapsed", time.Second, "err", errors.New("boom")).Info("invoked")

		entry := decodeEntry(t, buffer.Bytes())
		assert.Equal(t, "invoked", entry["msg"])
		assert.Equal(t, "Counter", entry["actorType"])
		assert.Equal(t, "a-1", entry["actorID"])
		assert.Equal(t, "1s", entry["elapsed"])
		assert.Equal(t, "boom", entry["err"])
	})

	t.Run("With returns same logger when keyValues empty", func(t *testing.T) {
		logger := NewZap(InfoLevel, io.Discard)
		assert.Equal(t, Logger(logger), logger.With())
	})

	t.Run("With odd keyValues uses _ for orphan", func(t *testing.T) {
		buffer := new(bytes.Buffer)
		logger := NewZap(InfoLevel, buffer)
		logger.With("key", "value", "orphan").Info("odd")

		entry := decodeEntry(t, buffer.Bytes())
		assert.Equal(t, "orphan", entry["_"])
	})

	t.Run("With skips non string keys", func(t *testing.T) {
		logger := NewZap(InfoLevel, io.Discard)
		assert.Equal(t, Logger(logger), logger.With(1, "value"))
	})
}

func TestZapLogOutput(t *testing.T) {
	buffer := new(bytes.Buffer)
	logger := NewZap(InfoLevel, buffer)
	require.Len(t, logger.LogOutput(), 1)
}

func TestDiscardLogger(t *testing.T) {
	logger := DiscardLogger
	logger.Debug("x")
	logger.Debugf("%s", "x")
	logger.Info("x")
	logger.Infof("%s", "x")
	logger.Warn("x")
	logger.Warnf("%s", "x")
	logger.Error("x")
	logger.Errorf("%s", "x")
	assert.Equal(t, DiscardLogger, logger.With("actor", "test"))
	assert.Equal(t, InvalidLevel, logger.LogLevel())
	assert.Equal(t, []io.Writer{io.Discard}, logger.LogOutput())
}

func TestLevelString(t *testing.T) {
	assert.Equal(t, "INFO", InfoLevel.String())
	assert.Equal(t, "WARNING", WarningLevel.String())
	assert.Equal(t, "ERROR", ErrorLevel.String())
	assert.Equal(t, "DEBUG", DebugLevel.String())
	assert.Equal(t, "INVALID", Level(42).String())
}

func decodeEntry(t *testing.T, data []byte) map[string]any {
	t.Helper()
	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(data), &entry))
	return entry
}
