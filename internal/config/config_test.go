package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/lu-zhengda/escalytics/internal/domain"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range append([]string{"GMAIL_CLIENT_ID", "GMAIL_CLIENT_SECRET"}, apiKeyEnvVars...) {
		t.Setenv(name, "")
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	cfgPath := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(cfgPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return cfgPath
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Generation.Model != "gemini-1.5-flash" {
		t.Errorf("default model = %q, want %q", cfg.Generation.Model, "gemini-1.5-flash")
	}
	if cfg.Generation.MaxRetries != 2 {
		t.Errorf("default max_retries = %d, want 2", cfg.Generation.MaxRetries)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("default log level = %q, want %q", cfg.Log.Level, "info")
	}
	if cfg.Generation.APIKey != "" {
		t.Errorf("default api key = %q, want empty", cfg.Generation.APIKey)
	}
}

func TestLoad_FromFile(t *testing.T) {
	clearEnv(t)
	cfgPath := writeConfig(t, `
[generation]
model = "gpt-4o-mini"
base_url = "https://api.openai.com/v1/"
timeout = "10s"

[draft]
default_to = "support@example.com"

[analysis]
sentiment = true
response = false
`)
	cfg, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Generation.Model != "gpt-4o-mini" {
		t.Errorf("model = %q, want %q", cfg.Generation.Model, "gpt-4o-mini")
	}
	if cfg.Generation.MaxRetries != 2 {
		t.Errorf("max_retries = %d, want default 2", cfg.Generation.MaxRetries)
	}
	if cfg.Draft.DefaultTo != "support@example.com" {
		t.Errorf("default_to = %q, want %q", cfg.Draft.DefaultTo, "support@example.com")
	}
	d, err := cfg.Generation.TimeoutDuration()
	if err != nil || d.Seconds() != 10 {
		t.Errorf("TimeoutDuration() = %v, %v; want 10s", d, err)
	}
}

func TestLoad_NonExistentFile(t *testing.T) {
	clearEnv(t)
	cfg, err := Load("/nonexistent/path/config.toml")
	if err != nil {
		t.Fatalf("Load() should return defaults for missing file, got error: %v", err)
	}
	if cfg.Generation.Model != "gemini-1.5-flash" {
		t.Errorf("model = %q, want default", cfg.Generation.Model)
	}
}

func TestLoad_InvalidTOML(t *testing.T) {
	cfgPath := writeConfig(t, "not valid [[ toml")
	_, err := Load(cfgPath)
	if err == nil {
		t.Fatal("Load() should return error for invalid TOML")
	}
	if !strings.Contains(err.Error(), "failed to parse config") {
		t.Errorf("error = %q, want it to contain %q", err.Error(), "failed to parse config")
	}
}

func TestLoad_EnvFallback(t *testing.T) {
	clearEnv(t)
	t.Setenv("GMAIL_CLIENT_ID", "env-id")
	t.Setenv("GMAIL_CLIENT_SECRET", "env-secret")
	t.Setenv("GEMINI_API_KEY", "gemini-key")
	t.Setenv("OPENAI_API_KEY", "openai-key")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Gmail.ClientID != "env-id" || cfg.Gmail.ClientSecret != "env-secret" {
		t.Errorf("gmail credentials = %+v, want env values", cfg.Gmail)
	}
	if cfg.Generation.APIKey != "gemini-key" {
		t.Errorf("api key = %q, want %q", cfg.Generation.APIKey, "gemini-key")
	}
}

func TestLoad_FileWinsOverEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("ESCALYTICS_API_KEY", "env-key")
	cfgPath := writeConfig(t, "[generation]\napi_key = \"file-key\"\n")

	cfg, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Generation.APIKey != "file-key" {
		t.Errorf("api key = %q, want %q", cfg.Generation.APIKey, "file-key")
	}
}

func TestAnalysisConfig(t *testing.T) {
	t.Run("no table enables all", func(t *testing.T) {
		cfg := defaults()
		got, err := cfg.AnalysisConfig()
		if err != nil {
			t.Fatalf("AnalysisConfig() error: %v", err)
		}
		if len(got.EnabledList()) != len(domain.Analyses) {
			t.Errorf("enabled = %v, want all", got.EnabledList())
		}
	})
	t.Run("absent keys are disabled", func(t *testing.T) {
		cfg := defaults()
		cfg.Analysis = map[string]bool{"sentiment": true, "Root_Cause": true, "response": false}
		got, err := cfg.AnalysisConfig()
		if err != nil {
			t.Fatalf("AnalysisConfig() error: %v", err)
		}
		want := []domain.Analysis{domain.AnalysisSentiment, domain.AnalysisRootCause}
		gotList := got.EnabledList()
		if len(gotList) != len(want) || gotList[0] != want[0] || gotList[1] != want[1] {
			t.Errorf("enabled = %v, want %v", gotList, want)
		}
	})
	t.Run("unknown name", func(t *testing.T) {
		cfg := defaults()
		cfg.Analysis = map[string]bool{"horoscope": true}
		if _, err := cfg.AnalysisConfig(); err == nil {
			t.Error("AnalysisConfig() should reject unknown analysis")
		}
	})
}

func TestGenerationConfig_InvalidTimeout(t *testing.T) {
	g := GenerationConfig{Timeout: "soon"}
	if _, err := g.TimeoutDuration(); err == nil {
		t.Error("TimeoutDuration() should fail for invalid value")
	}
}

func TestConfigDir(t *testing.T) {
	t.Run("with XDG_CONFIG_HOME", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", "/custom/config")
		dir := ConfigDir()
		want := "/custom/config/escalytics"
		if dir != want {
			t.Errorf("ConfigDir() = %q, want %q", dir, want)
		}
	})
	t.Run("without XDG_CONFIG_HOME", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", "")
		dir := ConfigDir()
		if !strings.HasSuffix(dir, filepath.Join(".config", "escalytics")) {
			t.Errorf("ConfigDir() = %q, want suffix %q", dir, filepath.Join(".config", "escalytics"))
		}
	})
}

func TestDataDir(t *testing.T) {
	t.Run("with XDG_DATA_HOME", func(t *testing.T) {
		t.Setenv("XDG_DATA_HOME", "/custom/data")
		dir := DataDir()
		want := "/custom/data/escalytics"
		if dir != want {
			t.Errorf("DataDir() = %q, want %q", dir, want)
		}
	})
	t.Run("without XDG_DATA_HOME", func(t *testing.T) {
		t.Setenv("XDG_DATA_HOME", "")
		dir := DataDir()
		if !strings.HasSuffix(dir, filepath.Join(".local", "share", "escalytics")) {
			t.Errorf("DataDir() = %q, want suffix %q", dir, filepath.Join(".local", "share", "escalytics"))
		}
	})
}
