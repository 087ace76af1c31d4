// Copyright 2025 KrakLabs
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published
// by the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program. If not, see <https://www.gnu.org/licenses/>.
//
// For commercial licensing, contact: licensing@kraklabs.com
//
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package driver implements the incremental driver (C11): it classifies
// every input file as Clean or Dirty against the cache (C10), propagates
// invalidation through the #include dependency graph (C9), orders the
// resulting dirty set topologically, and runs the C6->C7->C8 pipeline on
// each dirty file — sequentially or across a worker pool — writing
// output atomically and updating the cache entry on success.
package driver

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/zeus-cpp/lua-binding-generator/pkg/cache"
	"github.com/zeus-cpp/lua-binding-generator/pkg/cxxast"
	"github.com/zeus-cpp/lua-binding-generator/pkg/depgraph"
	"github.com/zeus-cpp/lua-binding-generator/pkg/diag"
	"github.com/zeus-cpp/lua-binding-generator/pkg/emit"
	"github.com/zeus-cpp/lua-binding-generator/pkg/infer"
	"github.com/zeus-cpp/lua-binding-generator/pkg/model"
	"github.com/zeus-cpp/lua-binding-generator/pkg/naming"
)

// State is a file's classification in the incremental state machine of
// spec.md §4.11.
type State int

const (
	StateDirty State = iota
	StateClean
)

func (s State) String() string {
	if s == StateClean {
		return "clean"
	}
	return "dirty"
}

// ProgressCallback reports progress during a generate run, generalizing
// the (current, total, phase) shape this generator's ancestor used for
// its own ingestion pipeline.
type ProgressCallback func(current, total int64, phase string)

// Metrics is the subset of counters the driver increments. A nil
// Metrics passed to New is valid — New replaces it with noopMetrics.
type Metrics interface {
	IncFilesGenerated()
	IncCacheHit()
	IncCacheMiss()
	ObserveDirtySetSize(n int)
	IncParseError()
}

type noopMetrics struct{}

func (noopMetrics) IncFilesGenerated()       {}
func (noopMetrics) IncCacheHit()             {}
func (noopMetrics) IncCacheMiss()            {}
func (noopMetrics) ObserveDirtySetSize(int)  {}
func (noopMetrics) IncParseError()           {}

// Config controls one invocation of the driver.
type Config struct {
	Inputs           []string // paths to input source files, already expanded from globs
	OutputDir        string
	DefaultNamespace string
	DefaultModule    string // fallback module label when a file has no module annotation
	PreferSnakeCase  bool
	Workers          int // 1 = sequential; >1 enables the worker pool
	ForceRebuild     bool
	CachePath        string
	CacheExpiry      time.Duration
	EmitOptions      emit.Options
}

// Driver runs one incremental generation pass.
type Driver struct {
	cfg     Config
	cache   *cache.Cache
	visitor *cxxast.Visitor
	logger  *slog.Logger
	metrics Metrics

	onProgress ProgressCallback
}

// New constructs a Driver. A nil logger falls back to slog.Default; a
// nil metrics implementation becomes a no-op.
func New(cfg Config, logger *slog.Logger, m Metrics) *Driver {
	if logger == nil {
		logger = slog.Default()
	}
	if m == nil {
		m = noopMetrics{}
	}
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	return &Driver{
		cfg:     cfg,
		cache:   cache.Load(cfg.CachePath, cfg.CacheExpiry),
		visitor: cxxast.NewVisitor(logger),
		logger:  logger,
		metrics: m,
	}
}

// SetProgressCallback installs a progress reporter for the generate phase.
func (d *Driver) SetProgressCallback(cb ProgressCallback) {
	d.onProgress = cb
}

// Result summarizes one Run.
type Result struct {
	FilesScanned     int
	FilesClean       int
	FilesRegenerated []string
	FilesFailed      []string
	Diagnostics      *diag.Collector
}

type fileContext struct {
	path    string
	content []byte
	mtime   time.Time
	hash    string
	facts   depgraph.FileFacts
}

// Run executes one incremental generation pass over cfg.Inputs.
func (d *Driver) Run(ctx context.Context) (*Result, error) {
	diags := diag.New()
	result := &Result{Diagnostics: diags}

	files, err := d.readInputs(diags)
	if err != nil {
		return result, err
	}
	result.FilesScanned = len(files)

	present := make(map[string]bool, len(files))
	for _, f := range files {
		present[f.path] = true
	}
	fileExists := func(p string) bool { return present[p] }

	facts := make([]depgraph.FileFacts, 0, len(files))
	byPath := make(map[string]*fileContext, len(files))
	for _, f := range files {
		dir := filepath.Dir(f.path)
		f.facts = depgraph.Analyze(f.path, dir, f.content, fileExists)
		facts = append(facts, f.facts)
		byPath[f.path] = f
	}

	graph := depgraph.Build(facts)

	dirty := make(map[string]bool)
	for _, f := range files {
		entry := d.cache.Get(f.path)
		outputPath := d.outputPathFor(f, entry)
		outputExists := fileExistsOnDisk(outputPath)
		clean := !d.cfg.ForceRebuild && cache.IsClean(entry, f.mtime, f.hash, outputExists)
		if clean {
			d.metrics.IncCacheHit()
		} else {
			d.metrics.IncCacheMiss()
			dirty[f.path] = true
		}
	}

	// Propagate invalidation forward through the dependency graph:
	// spec.md §4.11 — union into Dirty every file that transitively
	// depends on a Dirty file.
	initialDirty := make([]string, 0, len(dirty))
	for p := range dirty {
		initialDirty = append(initialDirty, p)
	}
	for _, p := range initialDirty {
		for _, dependent := range graph.TransitiveDependents(p) {
			dirty[dependent] = true
		}
	}

	dirtyPaths := make([]string, 0, len(dirty))
	for p := range dirty {
		dirtyPaths = append(dirtyPaths, p)
	}
	sort.Strings(dirtyPaths)
	ordered := graph.TopologicalOrder(dirtyPaths)

	result.FilesClean = len(files) - len(ordered)
	d.metrics.ObserveDirtySetSize(len(ordered))
	d.logger.Info("driver.dirty_set", "total", len(files), "dirty", len(ordered), "clean", result.FilesClean)

	var mu sync.Mutex
	var wg sync.WaitGroup
	sem := make(chan struct{}, d.cfg.Workers)
	var progressCount int64
	totalDirty := int64(len(ordered))

	for i, path := range ordered {
		if ctx.Err() != nil {
			break
		}
		f := byPath[path]
		if f == nil {
			continue
		}

		process := func(idx int, fc *fileContext) {
			outPath, module, hadRecords, err := d.processFile(ctx, fc, diags)
			mu.Lock()
			progressCount++
			switch {
			case err != nil:
				result.FilesFailed = append(result.FilesFailed, fc.path)
				d.metrics.IncParseError()
				diags.Error(fc.path, 0, "generate: %v", err)
			case !hadRecords:
				// No ExportRecords: nothing to emit, nothing to cache.
				// Neither a failure nor a regeneration.
			default:
				result.FilesRegenerated = append(result.FilesRegenerated, fc.path)
				d.metrics.IncFilesGenerated()
				entry := &model.FileInfo{
					Path:            fc.path,
					ModTime:         fc.mtime,
					ContentHash:     fc.hash,
					IncludeClosure:  graph.TransitiveDependencies(fc.path),
					ExportedSymbols: fc.facts.Fingerprints,
					OutputPath:      outPath,
					Module:          module,
				}
				d.cache.Set(entry)
			}
			reported := progressCount
			mu.Unlock()
			if d.onProgress != nil {
				d.onProgress(reported, totalDirty, "generate")
			}
		}

		if d.cfg.Workers == 1 {
			process(i, f)
			continue
		}

		wg.Add(1)
		sem <- struct{}{}
		go func(idx int, fc *fileContext) {
			defer wg.Done()
			defer func() { <-sem }()
			process(idx, fc)
		}(i, f)
	}
	wg.Wait()

	return result, nil
}

// Persist writes the cache snapshot to disk. The driver waits for all
// workers to complete before the caller invokes this, so the on-disk
// snapshot reflects exactly one consistent moment (spec.md §5).
func (d *Driver) Persist() error {
	return d.cache.Save()
}

func (d *Driver) readInputs(diags *diag.Collector) ([]*fileContext, error) {
	files := make([]*fileContext, 0, len(d.cfg.Inputs))
	for _, path := range d.cfg.Inputs {
		content, err := os.ReadFile(path)
		if err != nil {
			diags.Error(path, 0, "read input: %v", err)
			continue
		}
		info, err := os.Stat(path)
		if err != nil {
			diags.Error(path, 0, "stat input: %v", err)
			continue
		}
		files = append(files, &fileContext{
			path:    path,
			content: content,
			mtime:   info.ModTime(),
			hash:    hashContent(content),
		})
	}
	if len(files) == 0 && len(d.cfg.Inputs) > 0 {
		return nil, fmt.Errorf("no readable input files out of %d supplied", len(d.cfg.Inputs))
	}
	return files, nil
}

func hashContent(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}

func fileExistsOnDisk(path string) bool {
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}

func (d *Driver) moduleLabelFor(fc *fileContext, parsedLabel string) string {
	if parsedLabel != "" {
		return parsedLabel
	}
	if entry := d.cache.Get(fc.path); entry != nil && entry.Module != "" {
		return entry.Module
	}
	if d.cfg.DefaultModule != "" {
		return d.cfg.DefaultModule
	}
	stem := filepath.Base(fc.path)
	if ext := filepath.Ext(stem); ext != "" {
		stem = stem[:len(stem)-len(ext)]
	}
	return naming.ToSnakeCase(stem)
}

func (d *Driver) outputPathFor(fc *fileContext, entry *model.FileInfo) string {
	if entry != nil && entry.OutputPath != "" {
		return entry.OutputPath
	}
	module := d.moduleLabelFor(fc, "")
	return filepath.Join(d.cfg.OutputDir, module+"_lua_binding.cpp")
}

// processFile runs C6->C7->C8 for one file: single-threaded per file
// (the tree-sitter parser instance is pooled and not shared across the
// call), matching spec.md §5's "within one file: strictly
// single-threaded" contract. The bool return reports whether the file
// produced any ExportRecord at all.
func (d *Driver) processFile(ctx context.Context, fc *fileContext, diags *diag.Collector) (string, string, bool, error) {
	if ctx.Err() != nil {
		return "", "", false, ctx.Err()
	}

	astResult, err := d.visitor.ParseFile(fc.path, fc.content, diags)
	if err != nil {
		return "", "", false, fmt.Errorf("parse %s: %w", fc.path, err)
	}

	module := d.moduleLabelFor(fc, astResult.ModuleLabel)
	for _, r := range astResult.Records {
		if r.Module == "" {
			r.Module = module
		}
		if r.SourceFile == "" {
			r.SourceFile = fc.path
		}
	}

	enriched := infer.Infer(astResult.Records, infer.Options{
		PreferSnakeCase:  d.cfg.PreferSnakeCase,
		DefaultNamespace: d.cfg.DefaultNamespace,
	}, diags)

	if len(enriched) == 0 {
		// Nothing exported from this file: no output is produced, but
		// it is still not a failure — the next run re-classifies it
		// the same way since no cache entry is written.
		return "", module, false, nil
	}

	bundle := emit.BuildBundle(module, enriched)
	opts := d.cfg.EmitOptions
	if opts.StateType == "" {
		opts = emit.DefaultOptions()
	}
	text, err := emit.Emit(bundle, opts)
	if err != nil {
		return "", module, true, fmt.Errorf("emit %s: %w", fc.path, err)
	}

	outputPath := filepath.Join(d.cfg.OutputDir, module+"_lua_binding.cpp")
	if err := writeAtomic(outputPath, []byte(text)); err != nil {
		return "", module, true, fmt.Errorf("write %s: %w", outputPath, err)
	}
	return outputPath, module, true, nil
}

// writeAtomic writes data to path via write-to-temp-then-rename, the
// same pattern pkg/cache uses for the cache snapshot itself.
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return err
		}
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return nil
}
