package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_AppliesDefaultsWhenFilesAbsent(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yml"), filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatalf("Load失败: %v", err)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("期望默认Level为info，实际: %s", cfg.Logging.Level)
	}
	if cfg.Cache.Backend != "memory" {
		t.Errorf("期望默认Cache.Backend为memory，实际: %s", cfg.Cache.Backend)
	}
	if cfg.Executor.Mode != "sequential" {
		t.Errorf("期望默认Executor.Mode为sequential，实际: %s", cfg.Executor.Mode)
	}
}

func TestLoad_ReadsYAMLFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")
	yml := "logging:\n  level: debug\nexecutor:\n  mode: parallel\n  max_threads: 4\n"
	if err := os.WriteFile(path, []byte(yml), 0o644); err != nil {
		t.Fatalf("写入配置文件失败: %v", err)
	}

	cfg, err := Load(path, "")
	if err != nil {
		t.Fatalf("Load失败: %v", err)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("期望Level为debug，实际: %s", cfg.Logging.Level)
	}
	if cfg.Executor.Mode != "parallel" || cfg.Executor.MaxThreads != 4 {
		t.Errorf("期望Executor.Mode=parallel, MaxThreads=4，实际: %+v", cfg.Executor)
	}
}

func TestLoad_RejectsInvalidLevel(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")
	if err := os.WriteFile(path, []byte("logging:\n  level: not-a-level\n"), 0o644); err != nil {
		t.Fatalf("写入配置文件失败: %v", err)
	}

	if _, err := Load(path, ""); err == nil {
		t.Fatal("期望非法的logging.level被校验拒绝")
	}
}
