/*
 * Copyright 2025 The RuleGo Authors.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package logger

import (
	"bytes"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevel_String(t *testing.T) {
	tests := []struct {
		level    Level
		expected string
	}{
		{DEBUG, "DEBUG"},
		{INFO, "INFO"},
		{WARN, "WARN"},
		{ERROR, "ERROR"},
		{OFF, "OFF"},
		{Level(999), "UNKNOWN"},
	}
	for _, test := range tests {
		assert.Equal(t, test.expected, test.level.String())
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    Level
		wantErr bool
	}{
		{"debug", DEBUG, false},
		{" Info ", INFO, false},
		{"", INFO, false},
		{"warning", WARN, false},
		{"ERROR", ERROR, false},
		{"off", OFF, false},
		{"verbose", INFO, true},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		assert.Equal(t, tt.wantErr, err != nil, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(WARN, &buf)

	l.Debug("d")
	l.Info("i")
	l.Warn("w %d", 1)
	l.Error("e")

	out := buf.String()
	assert.NotContains(t, out, "[DEBUG]")
	assert.NotContains(t, out, "[INFO]")
	assert.Contains(t, out, "[WARN] w 1")
	assert.Contains(t, out, "[ERROR] e")

	buf.Reset()
	l.SetLevel(OFF)
	l.Error("silent")
	assert.Empty(t, buf.String())
}

func TestNamedSharesLevel(t *testing.T) {
	var buf bytes.Buffer
	root := NewLogger(INFO, &buf)
	child := root.Named("storage").Named("mmap")

	child.Info("mapped %s", "x")
	assert.Contains(t, buf.String(), "[storage.mmap] mapped x")

	buf.Reset()
	root.SetLevel(ERROR)
	child.Info("hidden")
	assert.Empty(t, buf.String())
}

func TestDiscardLogger(t *testing.T) {
	l := NewDiscardLogger()
	require.NotNil(t, l)
	l.Debug("x")
	l.Info("x")
	l.Warn("x")
	l.Error("x")
	l.SetLevel(DEBUG)
	assert.NotNil(t, l.Named("x"))
}

func TestGlobalLoggerRestore(t *testing.T) {
	orig := GetDefault()
	defer SetDefault(orig)

	var buf bytes.Buffer
	SetDefault(NewLogger(DEBUG, &buf))
	Debug("a")
	Info("b")
	Warn("c")
	Error("d")
	assert.Equal(t, 4, strings.Count(buf.String(), "\n"))
}

func TestConcurrentLogging(t *testing.T) {
	var buf safeBuffer
	l := NewLogger(INFO, &buf)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			l.Named("w").Info("worker %d", n)
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 8, strings.Count(buf.String(), "worker"))
}

type safeBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *safeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *safeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}
