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
	"os"

	"github.com/rulego/colframe/config"
	"github.com/rulego/colframe/logger"
)

type options struct {
	perm     os.FileMode
	useMmap  bool
	compress bool
	log      logger.Logger
}

// Option configures storage calls
type Option func(*options)

func newOptions(opts []Option) *options {
	o := &options{
		perm:    0o644,
		useMmap: true,
		log:     logger.GetDefault(),
	}
	for _, opt := range opts {
		opt(o)
	}
	o.log = o.log.Named("storage")
	return o
}

// WithPerm sets the permission bits of created files
func WithPerm(perm os.FileMode) Option {
	return func(o *options) { o.perm = perm }
}

// WithMmap chooses whether uncompressed snapshots are memory-mapped on read
func WithMmap(enabled bool) Option {
	return func(o *options) { o.useMmap = enabled }
}

// WithCompression snappy-compresses snapshot payloads on write
func WithCompression(enabled bool) Option {
	return func(o *options) { o.compress = enabled }
}

func WithLogger(l logger.Logger) Option {
	return func(o *options) { o.log = l }
}

// ConfigOptions translates the storage config section into options.
func ConfigOptions(cfg config.StorageConfig) []Option {
	return []Option{
		WithPerm(os.FileMode(cfg.FileMode)),
		WithMmap(cfg.UseMmap),
		WithCompression(cfg.Compress),
	}
}
