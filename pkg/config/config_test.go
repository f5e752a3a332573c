package config

import (
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != 8080 {
		t.Errorf("default port = %d, want 8080", cfg.Port)
	}
	if cfg.WebMode || cfg.Watch {
		t.Errorf("web/watch default on, want off")
	}
	if !cfg.OpenBrowser {
		t.Errorf("open-browser default off, want on")
	}
}

func TestLoadEnvOverridesDefaults(t *testing.T) {
	t.Setenv("WORKBENCH_PORT", "9191")
	t.Setenv("WORKBENCH_WEB", "true")

	cfg, err := Load(nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != 9191 {
		t.Errorf("port = %d, want 9191 from environment", cfg.Port)
	}
	if !cfg.WebMode {
		t.Errorf("web mode not picked up from environment")
	}
}

func TestLoadFlagsOverrideEnv(t *testing.T) {
	t.Setenv("WORKBENCH_PORT", "9191")

	f := Flags()
	if err := f.Parse([]string{"--port", "7070", "--circuit", "demo.json"}); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(f)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != 7070 {
		t.Errorf("port = %d, want 7070 from flags", cfg.Port)
	}
	if cfg.Circuit != "demo.json" {
		t.Errorf("circuit = %q, want demo.json", cfg.Circuit)
	}
}
