package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/HQhanqiZHQ/bmi706-2024-Project/internal/model"
)

func TestFlatten(t *testing.T) {
	tree := map[string]any{
		"server": map[string]any{"addr": ":8501", "burst_size": 20},
		"top":    "x",
	}
	got := make(map[string]any)
	flatten("", tree, func(k string, v any) { got[k] = v })

	if len(got) != 3 {
		t.Fatalf("expected 3 keys, got %d: %v", len(got), got)
	}
	if got["server.addr"] != ":8501" {
		t.Errorf("server.addr = %v", got["server.addr"])
	}
	if got["server.burst_size"] != 20 {
		t.Errorf("server.burst_size = %v", got["server.burst_size"])
	}
	if got["top"] != "x" {
		t.Errorf("top = %v", got["top"])
	}
}

func TestDecodeConfig_Defaults(t *testing.T) {
	v := viper.New()
	if err := bindEnv(v); err != nil {
		t.Fatalf("bindEnv: %v", err)
	}

	cfg, err := decodeConfig(v)
	if err != nil {
		t.Fatalf("decodeConfig: %v", err)
	}

	want := model.DefaultConfig()
	if cfg.Server.Addr != want.Server.Addr {
		t.Errorf("addr = %q, want %q", cfg.Server.Addr, want.Server.Addr)
	}
	if cfg.HTTP.Timeout != want.HTTP.Timeout {
		t.Errorf("timeout = %v, want %v", cfg.HTTP.Timeout, want.HTTP.Timeout)
	}
	if cfg.Source != want.Source {
		t.Errorf("source = %v, want %v", cfg.Source, want.Source)
	}
	if !cfg.Cache.Enabled {
		t.Error("cache should be enabled by default")
	}
}

func TestDecodeConfig_EnvOverrides(t *testing.T) {
	t.Setenv("CIRRHOSIS_SERVER_ADDR", ":9000")
	t.Setenv("CIRRHOSIS_HTTP_TIMEOUT", "5s")
	t.Setenv("CIRRHOSIS_SOURCE_BRANCH", "dev")
	t.Setenv("CIRRHOSIS_CACHE_ENABLED", "false")

	v := viper.New()
	if err := bindEnv(v); err != nil {
		t.Fatalf("bindEnv: %v", err)
	}
	cfg, err := decodeConfig(v)
	if err != nil {
		t.Fatalf("decodeConfig: %v", err)
	}

	if cfg.Server.Addr != ":9000" {
		t.Errorf("addr = %q", cfg.Server.Addr)
	}
	if cfg.HTTP.Timeout != 5*time.Second {
		t.Errorf("timeout = %v", cfg.HTTP.Timeout)
	}
	if cfg.Source.Branch != "dev" {
		t.Errorf("branch = %q", cfg.Source.Branch)
	}
	if cfg.Cache.Enabled {
		t.Error("cache should be disabled by env")
	}
}

func TestDecodeConfig_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "server:\n  addr: \":7000\"\nlogging:\n  format: json\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	v := viper.New()
	if err := bindEnv(v); err != nil {
		t.Fatalf("bindEnv: %v", err)
	}
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		t.Fatalf("ReadInConfig: %v", err)
	}
	cfg, err := decodeConfig(v)
	if err != nil {
		t.Fatalf("decodeConfig: %v", err)
	}

	if cfg.Server.Addr != ":7000" {
		t.Errorf("addr = %q", cfg.Server.Addr)
	}
	if cfg.Logging.Format != "json" {
		t.Errorf("format = %q", cfg.Logging.Format)
	}
	// Keys missing from the file keep their defaults
	if cfg.Server.BurstSize != 20 {
		t.Errorf("burst = %d", cfg.Server.BurstSize)
	}
}

func TestWriteDefaultConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	if err := writeDefaultConfig(path); err != nil {
		t.Fatalf("writeDefaultConfig: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "# Cirrhosis dashboard configuration") {
		t.Error("missing header comment")
	}

	var cfg model.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		t.Fatalf("written file is not valid YAML: %v", err)
	}
	if cfg.Server.Addr != ":8501" {
		t.Errorf("addr = %q", cfg.Server.Addr)
	}

	if err := writeDefaultConfig(path); err == nil {
		t.Error("expected error when config already exists")
	}
}

func TestRenderParams(t *testing.T) {
	params := renderParams(renderCmd)
	if params.Races != nil || params.DistAges != nil {
		t.Errorf("unset list flags should stay nil, got %+v", params)
	}

	if err := renderCmd.Flags().Set("race", ""); err != nil {
		t.Fatal(err)
	}
	if err := renderCmd.Flags().Set("dist-sex", "Female"); err != nil {
		t.Fatal(err)
	}
	if err := renderCmd.Flags().Set("start", "2001"); err != nil {
		t.Fatal(err)
	}

	params = renderParams(renderCmd)
	if params.Races == nil || len(params.Races) != 0 {
		t.Errorf("empty race flag should deselect all, got %#v", params.Races)
	}
	if len(params.DistSexes) != 1 || params.DistSexes[0] != "Female" {
		t.Errorf("dist sexes = %v", params.DistSexes)
	}
	if params.Start != 2001 {
		t.Errorf("start = %d", params.Start)
	}
	if params.DistRaces != nil {
		t.Errorf("dist races should stay nil, got %v", params.DistRaces)
	}
}
