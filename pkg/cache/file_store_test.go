package cache

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestFileStore_WriteThenRead(t *testing.T) {
	dir := t.TempDir()
	f, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("NewFileStore失败: %v", err)
	}
	ctx := context.Background()

	if err := f.Write(ctx, "step-a", CachedResult{Output: "hello", Status: "success"}); err != nil {
		t.Fatalf("Write失败: %v", err)
	}

	got, err := f.Read(ctx, "step-a")
	if err != nil {
		t.Fatalf("Read失败: %v", err)
	}
	if got == nil || got.Output != "hello" {
		t.Fatalf("期望读回hello，实际: %v", got)
	}
}

func TestFileStore_CorruptedEntryDegradesToMiss(t *testing.T) {
	dir := t.TempDir()
	f, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("NewFileStore失败: %v", err)
	}
	ctx := context.Background()

	_ = f.Write(ctx, "step-a", CachedResult{Output: "hello"})

	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Fatalf("期望目录下有1个缓存文件，实际: %d", len(entries))
	}
	path := filepath.Join(dir, entries[0].Name())
	if err := os.WriteFile(path, []byte("not json"), 0o644); err != nil {
		t.Fatalf("写入损坏数据失败: %v", err)
	}

	got, err := f.Read(ctx, "step-a")
	if err != nil {
		t.Fatalf("损坏条目应该降级为未命中而不是返回错误: %v", err)
	}
	if got != nil {
		t.Fatal("损坏条目应该被当作未命中，实际返回了非nil结果")
	}
}

func TestFileStore_SchemaVersionMismatchFailsClosed(t *testing.T) {
	dir := t.TempDir()
	f, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("NewFileStore失败: %v", err)
	}
	ctx := context.Background()

	_ = f.Write(ctx, "step-a", CachedResult{Output: "hello", SchemaVersion: CurrentSchemaVersion + 1})

	got, err := f.Read(ctx, "step-a")
	if err != nil {
		t.Fatalf("版本不匹配应该降级为未命中而不是返回错误: %v", err)
	}
	if got != nil {
		t.Fatal("未来版本的缓存条目应该被当前版本读取为未命中")
	}
}

func TestFileStore_ClearOnlyRemovesCacheFiles(t *testing.T) {
	dir := t.TempDir()
	f, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("NewFileStore失败: %v", err)
	}
	ctx := context.Background()
	_ = f.Write(ctx, "step-a", CachedResult{Output: 1})

	sentinel := filepath.Join(dir, "keep-me.txt")
	if err := os.WriteFile(sentinel, []byte("x"), 0o644); err != nil {
		t.Fatalf("写入哨兵文件失败: %v", err)
	}

	if err := f.Clear(ctx); err != nil {
		t.Fatalf("Clear失败: %v", err)
	}

	if _, err := os.Stat(sentinel); err != nil {
		t.Fatal("Clear不应该删除非.cache后缀的文件")
	}

	exists, _ := f.Exists(ctx, "step-a")
	if exists {
		t.Fatal("Clear之后缓存条目应该不存在")
	}
}
