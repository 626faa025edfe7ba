package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"PORT", "APP_ENV", "BLOB_STORE", "MAX_UPLOAD_BYTES", "SMTP_PORT", "SMTP_TIMEOUT_SECONDS",
	} {
		t.Setenv(key, "")
	}

	cfg := Load()
	if cfg.Port != "8080" {
		t.Errorf("expected default port 8080, got %q", cfg.Port)
	}
	if cfg.Env != "dev" {
		t.Errorf("expected default env dev, got %q", cfg.Env)
	}
	if cfg.BlobStoreType != "local" {
		t.Errorf("expected default store local, got %q", cfg.BlobStoreType)
	}
	if cfg.MaxUploadBytes != 20<<20 {
		t.Errorf("expected default cap 20MiB, got %d", cfg.MaxUploadBytes)
	}
	if cfg.SMTPTimeout != 15*time.Second {
		t.Errorf("expected default smtp timeout 15s, got %s", cfg.SMTPTimeout)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("APP_ENV", "Production")
	t.Setenv("BLOB_STORE", "SUPABASE")
	t.Setenv("MAX_UPLOAD_BYTES", "1048576")
	t.Setenv("SUPABASE_URL", "https://proj.supabase.co/")

	cfg := Load()
	if cfg.Env != "prod" {
		t.Errorf("expected prod, got %q", cfg.Env)
	}
	if cfg.BlobStoreType != "supabase" {
		t.Errorf("expected supabase, got %q", cfg.BlobStoreType)
	}
	if cfg.MaxUploadBytes != 1<<20 {
		t.Errorf("expected 1MiB cap, got %d", cfg.MaxUploadBytes)
	}
	if cfg.SupabaseURL != "https://proj.supabase.co" {
		t.Errorf("expected trailing slash trimmed, got %q", cfg.SupabaseURL)
	}
}
