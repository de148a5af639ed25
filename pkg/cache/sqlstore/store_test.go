package sqlstore

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stevelan1995/stepflow/pkg/cache"
)

func TestSQLiteStore_WriteReadDelete(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "cache.db")
	s, err := NewSQLite(dsn)
	if err != nil {
		t.Fatalf("NewSQLite失败: %v", err)
	}
	defer s.Close()

	ctx := context.Background()
	if err := s.Write(ctx, "step-a", cache.CachedResult{Output: "hello", Status: "success"}); err != nil {
		t.Fatalf("Write失败: %v", err)
	}

	got, err := s.Read(ctx, "step-a")
	if err != nil {
		t.Fatalf("Read失败: %v", err)
	}
	if got == nil || got.Output != "hello" {
		t.Fatalf("期望读回hello，实际: %v", got)
	}

	exists, err := s.Exists(ctx, "step-a")
	if err != nil || !exists {
		t.Fatalf("期望Exists返回true，实际: (%v, %v)", exists, err)
	}

	if err := s.Delete(ctx, "step-a"); err != nil {
		t.Fatalf("Delete失败: %v", err)
	}
	exists, _ = s.Exists(ctx, "step-a")
	if exists {
		t.Fatal("Delete之后Exists应该返回false")
	}
}

func TestSQLiteStore_UpsertOverwritesExistingKey(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "cache.db")
	s, err := NewSQLite(dsn)
	if err != nil {
		t.Fatalf("NewSQLite失败: %v", err)
	}
	defer s.Close()

	ctx := context.Background()
	_ = s.Write(ctx, "step-a", cache.CachedResult{Output: "first", Status: "success"})
	_ = s.Write(ctx, "step-a", cache.CachedResult{Output: "second", Status: "success"})

	got, err := s.Read(ctx, "step-a")
	if err != nil {
		t.Fatalf("Read失败: %v", err)
	}
	if got.Output != "second" {
		t.Fatalf("期望upsert覆盖为second，实际: %v", got.Output)
	}
}
