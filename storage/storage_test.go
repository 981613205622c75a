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

package storage

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rulego/colframe/config"
	"github.com/rulego/colframe/errs"
	"github.com/rulego/colframe/logger"
)

func quiet() Option { return WithLogger(logger.NewDiscardLogger()) }

func TestOverwriteCreatesAndCachesSize(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.bin")

	f, err := Open(path, ModeOverwrite, quiet())
	require.NoError(t, err)
	defer f.Close()

	n, err := f.Size()
	require.NoError(t, err)
	assert.Zero(t, n)

	calls := f.statCalls
	require.NoError(t, f.Resize(1024))
	n, err = f.Size()
	require.NoError(t, err)
	assert.Equal(t, int64(1024), n)
	n, err = f.Size()
	require.NoError(t, err)
	assert.Equal(t, int64(1024), n)
	assert.Equal(t, calls, f.statCalls, "size after resize is served from the cache")

	onDisk, err := SizeOf(path)
	require.NoError(t, err)
	assert.Equal(t, int64(1024), onDisk)

	require.NoError(t, f.Resize(10))
	n, err = f.Size()
	require.NoError(t, err)
	assert.Equal(t, int64(10), n)
}

func TestOverwriteTruncatesExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "old.bin")
	require.NoError(t, os.WriteFile(path, []byte("previous contents"), 0o644))

	f, err := Open(path, ModeOverwrite, quiet())
	require.NoError(t, err)
	defer f.Close()
	n, err := f.Size()
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestOpenErrorsPerMode(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.bin")
	tests := []struct {
		mode     Mode
		sentinel error
	}{
		{ModeRead, ErrOpenRead},
		{ModeReadWrite, ErrOpenReadWrite},
		{ModeOverwrite, ErrOpenOverwrite},
	}
	for _, tt := range tests {
		t.Run(tt.mode.String(), func(t *testing.T) {
			path := missing
			if tt.mode == ModeOverwrite {
				path = filepath.Join(missing, "nested", "x.bin")
			}
			_, err := Open(path, tt.mode, quiet())
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.sentinel)
			assert.ErrorIs(t, err, os.ErrNotExist)
			assert.True(t, errs.Is(err, errs.ErrorTypeStorage))
			assert.Contains(t, err.Error(), path)
		})
	}
}

func TestOpenRejectsDirectory(t *testing.T) {
	dir := t.TempDir()
	_, err := Open(dir, ModeRead, quiet())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrIsDirectory)

	_, err = SizeOf(dir)
	assert.ErrorIs(t, err, ErrIsDirectory)
}

func TestReadWriteExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rw.bin")
	require.NoError(t, os.WriteFile(path, []byte("abc"), 0o644))

	f, err := Open(path, ModeReadWrite, quiet())
	require.NoError(t, err)
	assert.Equal(t, ModeReadWrite, f.Mode())
	assert.Equal(t, path, f.Name())
	n, err := f.Size()
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
	require.NoError(t, f.AssertNotDir())
	require.NoError(t, f.Close())

	_, err = SizeOf(filepath.Join(t.TempDir(), "nope"))
	assert.ErrorIs(t, err, ErrStat)
}

func TestRemovePolicies(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "gone.bin")

	err := Remove(missing, RemoveMustSucceed, quiet())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRemove)
	assert.Contains(t, err.Error(), missing)

	var buf bytes.Buffer
	err = Remove(missing, RemoveBestEffort, WithLogger(logger.NewLogger(logger.WARN, &buf)))
	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "[WARN] [storage] unable to remove file "+missing)

	present := filepath.Join(t.TempDir(), "here.bin")
	require.NoError(t, os.WriteFile(present, nil, 0o644))
	require.NoError(t, Remove(present, RemoveMustSucceed, quiet()))
	_, err = os.Stat(present)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestMap(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mapped.bin")
	f, err := Open(path, ModeOverwrite, quiet())
	require.NoError(t, err)
	defer f.Close()

	empty, err := Map(f, false)
	require.NoError(t, err)
	assert.Zero(t, empty.Len())
	require.NoError(t, empty.Close())

	require.NoError(t, f.Resize(16))
	m, err := Map(f, true)
	require.NoError(t, err)
	copy(m.Bytes(), "hello")
	require.NoError(t, m.Flush())
	require.NoError(t, m.Close())
	require.NoError(t, m.Close(), "close is idempotent")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data[:5]))
	assert.Len(t, data, 16)
}

func TestConfigOptions(t *testing.T) {
	o := newOptions(ConfigOptions(config.StorageConfig{FileMode: 0o600, UseMmap: false, Compress: true}))
	assert.Equal(t, os.FileMode(0o600), o.perm)
	assert.False(t, o.useMmap)
	assert.True(t, o.compress)
}
