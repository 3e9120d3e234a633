package config

import (
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Shadow.DownscaleMax != 700 {
		t.Errorf("DownscaleMax = %d, want 700", cfg.Shadow.DownscaleMax)
	}
	if cfg.Shadow.BlurPx != 18 {
		t.Errorf("BlurPx = %v, want 18", cfg.Shadow.BlurPx)
	}
	if cfg.Shadow.Opacity != 0.55 {
		t.Errorf("Opacity = %v, want 0.55", cfg.Shadow.Opacity)
	}
	if cfg.Shadow.Side != "auto" {
		t.Errorf("Side = %q, want auto", cfg.Shadow.Side)
	}
	if cfg.Capture.SettleDelay != 30*time.Millisecond {
		t.Errorf("SettleDelay = %v, want 30ms", cfg.Capture.SettleDelay)
	}
	if cfg.Render.Backend != "soft" {
		t.Errorf("Backend = %q, want soft", cfg.Render.Backend)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level = %q, want info", cfg.Logging.Level)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	content := `
shadow:
  blur_px: 6
  opacity: 0.8
  side: left
capture:
  settle_timeout: 5s
render:
  backend: gl
  width: 1024
logging:
  level: debug
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("loadFromFile failed: %v", err)
	}

	want := Default()
	want.Shadow.BlurPx = 6
	want.Shadow.Opacity = 0.8
	want.Shadow.Side = "left"
	want.Capture.SettleTimeout = 5 * time.Second
	want.Render.Backend = "gl"
	want.Render.Width = 1024
	want.Logging.Level = "debug"

	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid.yaml")

	if err := os.WriteFile(configPath, []byte("shadow: [not: valid"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	if err := loadFromFile(Default(), configPath); err == nil {
		t.Error("expected error for invalid YAML")
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	if err := loadFromFile(Default(), "/nonexistent/path/config.yaml"); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoadExplicitPath(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "shadow.yaml")
	if err := os.WriteFile(configPath, []byte("shadow:\n  opacity: 0.3\n"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	flags := &Flags{Config: configPath, Opacity: -1, Blur: -1, Side: "back"}
	cfg, err := Load(flags)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Shadow.Opacity != 0.3 {
		t.Errorf("Opacity = %v, want 0.3 from file", cfg.Shadow.Opacity)
	}
	if cfg.Shadow.Side != "back" {
		t.Errorf("Side = %q, want back from flag", cfg.Shadow.Side)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "bad.yaml")
	if err := os.WriteFile(configPath, []byte("render:\n  backend: vulkan\n"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	_, err := Load(&Flags{Config: configPath, Opacity: -1, Blur: -1})
	if err == nil || !strings.Contains(err.Error(), "render.backend") {
		t.Errorf("got %v, want render.backend error", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		want   string
	}{
		{"opacity high", func(c *Config) { c.Shadow.Opacity = 1.5 }, "shadow.opacity"},
		{"opacity negative", func(c *Config) { c.Shadow.Opacity = -0.1 }, "shadow.opacity"},
		{"negative blur", func(c *Config) { c.Shadow.BlurPx = -1 }, "shadow.blur_px"},
		{"zero epsilon", func(c *Config) { c.Shadow.FootEpsilon = 0 }, "shadow.foot_epsilon"},
		{"empty view", func(c *Config) { c.Render.Width = 0 }, "render size"},
		{"negative model size", func(c *Config) { c.Render.ModelSize = -1 }, "render.model_size"},
		{"no timeout", func(c *Config) { c.Capture.SettleTimeout = 0 }, "capture.settle_timeout"},
		{"unknown side", func(c *Config) { c.Shadow.Side = "top" }, "shadow.side"},
		{"unknown backend", func(c *Config) { c.Render.Backend = "dx" }, "render.backend"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			err := cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("got %v, want error mentioning %q", err, tt.want)
			}
		})
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()
	if dir == "" {
		t.Error("ConfigDir returned empty string")
	}
	if !strings.Contains(strings.ToLower(dir), "groundshadow") {
		t.Errorf("ConfigDir = %q, want path naming groundshadow", dir)
	}
}

func TestFindConfigFile(t *testing.T) {
	tmpDir := t.TempDir()
	t.Chdir(tmpDir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "xdg"))

	if path := findConfigFile(); path != "" {
		t.Errorf("expected empty path, got %s", path)
	}

	if err := os.WriteFile("config.yaml", []byte("logging:\n  level: warn\n"), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	if path := findConfigFile(); path != "./config.yaml" {
		t.Errorf("expected ./config.yaml, got %s", path)
	}
}

func TestSaveTo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := Default()
	cfg.Shadow.Side = "right"
	cfg.Capture.SettleDelay = 50 * time.Millisecond
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo failed: %v", err)
	}

	got := Default()
	if err := loadFromFile(got, path); err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if diff := cmp.Diff(cfg, got); diff != "" {
		t.Errorf("saved config mismatch (-want +got):\n%s", diff)
	}
}

func TestFlagsApply(t *testing.T) {
	tests := []struct {
		name   string
		args   []string
		verify func(*testing.T, *Config)
	}{
		{
			name: "debug flag",
			args: []string{"-debug"},
			verify: func(t *testing.T, c *Config) {
				if c.Logging.Level != "debug" {
					t.Errorf("Level = %q, want debug", c.Logging.Level)
				}
			},
		},
		{
			name: "no flags keeps defaults",
			args: nil,
			verify: func(t *testing.T, c *Config) {
				if diff := cmp.Diff(Default(), c); diff != "" {
					t.Errorf("config changed (-want +got):\n%s", diff)
				}
			},
		},
		{
			name: "zero blur and opacity override",
			args: []string{"-blur", "0", "-opacity", "0"},
			verify: func(t *testing.T, c *Config) {
				if c.Shadow.BlurPx != 0 || c.Shadow.Opacity != 0 {
					t.Errorf("got blur %v opacity %v, want 0 and 0", c.Shadow.BlurPx, c.Shadow.Opacity)
				}
			},
		},
		{
			name: "view and backend",
			args: []string{"-backend", "gl", "-width", "320", "-height", "240", "-side", "front"},
			verify: func(t *testing.T, c *Config) {
				if c.Render.Backend != "gl" || c.Render.Width != 320 || c.Render.Height != 240 {
					t.Errorf("got %+v, want gl 320x240", c.Render)
				}
				if c.Shadow.Side != "front" {
					t.Errorf("Side = %q, want front", c.Shadow.Side)
				}
			},
		},
		{
			name: "log file",
			args: []string{"-log-file", "/tmp/shadow.log"},
			verify: func(t *testing.T, c *Config) {
				if c.Logging.LogFile != "/tmp/shadow.log" {
					t.Errorf("LogFile = %q, want /tmp/shadow.log", c.Logging.LogFile)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var f Flags
			fs := flag.NewFlagSet("test", flag.ContinueOnError)
			f.Bind(fs)
			if err := fs.Parse(tt.args); err != nil {
				t.Fatalf("Parse: %v", err)
			}
			cfg := Default()
			f.apply(cfg)
			tt.verify(t, cfg)
		})
	}
}
