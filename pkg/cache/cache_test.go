package cache

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/zeus-cpp/lua-binding-generator/pkg/model"
)

func TestLoad_MissingFileStartsEmpty(t *testing.T) {
	c := Load(filepath.Join(t.TempDir(), "does-not-exist"), 0)
	if c.Len() != 0 {
		t.Errorf("Len() = %d, want 0", c.Len())
	}
}

func TestSaveThenLoad_RoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".lua_binding_cache")
	c := Load(path, 0)
	c.Set(&model.FileInfo{
		Path:            "widget.h",
		ModTime:         time.Now().Truncate(time.Second),
		ContentHash:     "abc123",
		OutputPath:      "widget.gen.cpp",
		Module:          "ui",
		IncludeClosure:  []string{"base.h"},
		ExportedSymbols: []string{`EXPORT_LUA_CLASS(Widget)`},
	})

	if err := c.Save(); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	reloaded := Load(path, 0)
	entry := reloaded.Get("widget.h")
	if entry == nil {
		t.Fatal("Get(widget.h) = nil after reload")
	}
	if entry.ContentHash != "abc123" || entry.OutputPath != "widget.gen.cpp" {
		t.Errorf("reloaded entry = %+v", entry)
	}
	if len(entry.IncludeClosure) != 1 || entry.IncludeClosure[0] != "base.h" {
		t.Errorf("IncludeClosure = %v", entry.IncludeClosure)
	}
}

func TestLoad_ExpiredSnapshotStartsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".lua_binding_cache")
	c := Load(path, 0)
	c.Set(&model.FileInfo{Path: "widget.h"})
	c.createdAt = time.Now().Add(-48 * time.Hour)
	if err := c.Save(); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	reloaded := Load(path, time.Hour)
	if reloaded.Len() != 0 {
		t.Errorf("Len() = %d, want 0 for an expired snapshot", reloaded.Len())
	}
}

func TestIsClean(t *testing.T) {
	mtime := time.Now().Truncate(time.Second)
	entry := &model.FileInfo{Path: "a.h", ModTime: mtime, ContentHash: "h1", OutputPath: "a.gen.cpp"}

	if !IsClean(entry, mtime, "h1", true) {
		t.Error("IsClean should be true when mtime, hash match and output exists")
	}
	if IsClean(entry, mtime, "h1", false) {
		t.Error("IsClean should be false when output is missing")
	}
	if IsClean(entry, mtime, "h2", true) {
		t.Error("IsClean should be false on hash mismatch")
	}
	if IsClean(entry, mtime.Add(time.Second), "h1", true) {
		t.Error("IsClean should be false on mtime mismatch")
	}
	if IsClean(nil, mtime, "h1", true) {
		t.Error("IsClean should be false for a nil entry")
	}
}

func TestEvictAndClear(t *testing.T) {
	c := Load(filepath.Join(t.TempDir(), "missing"), 0)
	c.Set(&model.FileInfo{Path: "a.h"})
	c.Set(&model.FileInfo{Path: "b.h"})

	c.Evict("a.h")
	if c.Get("a.h") != nil {
		t.Error("Evict(a.h) should remove the entry")
	}
	if c.Len() != 1 {
		t.Errorf("Len() = %d, want 1", c.Len())
	}

	c.Clear()
	if c.Len() != 0 {
		t.Errorf("Len() = %d, want 0 after Clear", c.Len())
	}
}
