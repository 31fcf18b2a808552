package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/oriumgames/pvp"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pvp.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	c, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c != Default() {
		t.Fatalf("config = %+v, want defaults", c)
	}
	r, _ := c.Ruleset()
	if r.Version != pvp.Legacy {
		t.Fatalf("version = %v, want legacy", r.Version)
	}
}

func TestLoadFile(t *testing.T) {
	path := writeFile(t, `
version: modern
difficulty: hard
block:
  debounce: 120ms
fishing:
  spread: 0.5
hunger:
  keep_native: true
`)
	c, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.Version != "modern" || c.Difficulty != "hard" {
		t.Fatalf("version/difficulty = %s/%s", c.Version, c.Difficulty)
	}
	if c.Block.Debounce != 120*time.Millisecond {
		t.Fatalf("debounce = %v", c.Block.Debounce)
	}
	if c.Block.Item != "minecraft:shield" {
		t.Fatalf("item = %q, want default", c.Block.Item)
	}
	if c.Fishing.Spread != 0.5 || !c.Hunger.KeepNative {
		t.Fatalf("fishing/hunger = %+v/%+v", c.Fishing, c.Hunger)
	}
	d, err := c.DifficultyLevel()
	if err != nil || d != pvp.Hard {
		t.Fatalf("difficulty = %v, %v", d, err)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	path := writeFile(t, "version: modern\n")
	t.Setenv("PVP_VERSION", "legacy")
	t.Setenv("PVP_BLOCK_DEBOUNCE", "75ms")
	t.Setenv("PVP_SERVER_ADDRESS", ":19133")

	c, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.Version != "legacy" {
		t.Fatalf("version = %q, want legacy", c.Version)
	}
	if c.Block.Debounce != 75*time.Millisecond {
		t.Fatalf("debounce = %v", c.Block.Debounce)
	}
	if c.Server.Address != ":19133" {
		t.Fatalf("address = %q", c.Server.Address)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		env     map[string]string
		want    string
	}{
		{"bad yaml", "version: [", nil, "pvp.yaml"},
		{"unknown version", "version: future\n", nil, "version"},
		{"unknown difficulty", "difficulty: nightmare\n", nil, "difficulty"},
		{"negative spread", "fishing:\n  spread: -1\n", nil, "fishing.spread"},
		{"bad env", "", map[string]string{"PVP_BLOCK_DEBOUNCE": "soon"}, "parse env:"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load(writeFile(t, tt.content))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestBlockingItem(t *testing.T) {
	c := Default()
	s, err := c.BlockingItem()
	if err != nil {
		t.Fatalf("blocking item: %v", err)
	}
	if name := pvp.ItemName(s); name != "minecraft:shield" {
		t.Fatalf("item = %q", name)
	}

	c.Block.Item = "minecraft:not_an_item"
	if _, err := c.BlockingItem(); err == nil {
		t.Fatal("expected unknown item error")
	}
}
