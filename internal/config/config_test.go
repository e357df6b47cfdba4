package config

import (
	"os"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, v := range []string{
		"SERVER_PORT", "GIN_MODE", "LOG_LEVEL", "LOG_FORMAT", "DATABASE_URL", "MAX_DB_CONNS",
		"REDIS_URL", "JWT_SECRET", "ALLOWED_ORIGINS", "UPSTREAM_BASE_URL", "UPSTREAM_TIMEOUT_SECONDS",
		"EXAM_TZ_OFFSET", "WIZARD_TTL_MINUTES", "BOARD_REFRESH_SECONDS", "PREVIEW_RATE_PER_MINUTE",
	} {
		_ = os.Unsetenv(v)
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg := Load()

	if cfg.ServerPort != "8080" {
		t.Errorf("ServerPort = %q, want 8080", cfg.ServerPort)
	}
	if cfg.UpstreamTimeout != 15*time.Second {
		t.Errorf("UpstreamTimeout = %v, want 15s", cfg.UpstreamTimeout)
	}
	if cfg.WizardTTL != 2*time.Hour {
		t.Errorf("WizardTTL = %v, want 2h", cfg.WizardTTL)
	}
	if cfg.AllowedOrigins != nil {
		t.Errorf("AllowedOrigins = %v, want nil", cfg.AllowedOrigins)
	}
	_, offset := time.Date(2026, 1, 1, 0, 0, 0, 0, cfg.ExamLocation).Zone()
	if offset != 19800 {
		t.Errorf("ExamLocation offset = %d, want 19800", offset)
	}
}

func TestLoad_FromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("UPSTREAM_BASE_URL", "https://api.example.com/")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example.com, https://b.example.com,")
	t.Setenv("EXAM_TZ_OFFSET", "-03:00")
	t.Setenv("BOARD_REFRESH_SECONDS", "not-a-number")

	cfg := Load()

	if cfg.UpstreamBaseURL != "https://api.example.com" {
		t.Errorf("UpstreamBaseURL = %q, want trailing slash trimmed", cfg.UpstreamBaseURL)
	}
	if len(cfg.AllowedOrigins) != 2 {
		t.Errorf("AllowedOrigins = %v, want 2 entries", cfg.AllowedOrigins)
	}
	if cfg.BoardRefresh != 30*time.Second {
		t.Errorf("BoardRefresh = %v, want fallback 30s", cfg.BoardRefresh)
	}
	_, offset := time.Date(2026, 1, 1, 0, 0, 0, 0, cfg.ExamLocation).Zone()
	if offset != -3*3600 {
		t.Errorf("ExamLocation offset = %d, want %d", offset, -3*3600)
	}
}

func TestParseOffset(t *testing.T) {
	tests := []struct {
		raw     string
		want    int
		wantErr bool
	}{
		{"+05:30", 19800, false},
		{"-09:00", -32400, false},
		{"+00:00", 0, false},
		{"05:30", 0, true},
		{"+5:30", 0, true},
		{"+05:75", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			loc, err := ParseOffset(tt.raw)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseOffset(%q) error = %v, wantErr %v", tt.raw, err, tt.wantErr)
			}
			if err != nil {
				return
			}
			_, offset := time.Date(2026, 1, 1, 0, 0, 0, 0, loc).Zone()
			if offset != tt.want {
				t.Errorf("offset = %d, want %d", offset, tt.want)
			}
		})
	}
}
