package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaults(t *testing.T) {
	cfg := Default()
	opts := cfg.Options()
	if !opts.RecheckConditions {
		t.Error("expected condition recheck to be on by default")
	}
	if opts.MaxLoopIterations != 0 {
		t.Errorf("expected unlimited loops, got %d", opts.MaxLoopIterations)
	}
	if !cfg.Color() {
		t.Error("expected color on by default")
	}
	if !strings.HasSuffix(cfg.HistoryFile(), ".mini_history") {
		t.Errorf("unexpected history file %q", cfg.HistoryFile())
	}
}

func TestDecode(t *testing.T) {
	cfg, err := Decode(strings.NewReader(`
interpreter:
  recheck_conditions: false
  max_loop_iterations: 5000
repl:
  history_file: /tmp/mini_hist
  color: false
`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	opts := cfg.Options()
	if opts.RecheckConditions {
		t.Error("expected recheck to be off")
	}
	if opts.MaxLoopIterations != 5000 {
		t.Errorf("expected 5000, got %d", opts.MaxLoopIterations)
	}
	if cfg.HistoryFile() != "/tmp/mini_hist" {
		t.Errorf("unexpected history file %q", cfg.HistoryFile())
	}
	if cfg.Color() {
		t.Error("expected color off")
	}
}

func TestDecodeEmptyDocument(t *testing.T) {
	cfg, err := Decode(strings.NewReader(""))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cfg.Options().RecheckConditions {
		t.Error("expected defaults for an empty document")
	}
}

func TestDecodeRejectsBadInput(t *testing.T) {
	tests := map[string]string{
		"unknown key":    "interpreter:\n  speed: 3\n",
		"negative limit": "interpreter:\n  max_loop_iterations: -1\n",
		"wrong type":     "repl:\n  color: maybe\n",
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := Decode(strings.NewReader(doc)); err == nil {
				t.Errorf("expected error for %q", doc)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yml")
	if err := os.WriteFile(path, []byte("interpreter:\n  max_loop_iterations: 10\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Options().MaxLoopIterations != 10 {
		t.Errorf("expected 10, got %d", cfg.Options().MaxLoopIterations)
	}
	if cfg.Path != path {
		t.Errorf("expected path %s, got %s", path, cfg.Path)
	}

	if _, err := Load(filepath.Join(dir, "missing.yml")); err == nil {
		t.Error("expected error for a missing explicit file")
	}
}

func TestLoadMissingDefaultFile(t *testing.T) {
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Path != "" {
		t.Errorf("expected defaults without a path, got %q", cfg.Path)
	}
}
