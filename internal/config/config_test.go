package config

import "testing"

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "8080" {
		t.Errorf("expected default port 8080, got %s", cfg.Port)
	}
	if cfg.Provider != "gemini" {
		t.Errorf("expected default provider gemini, got %s", cfg.Provider)
	}
	if cfg.MaxResumeBytes != 5<<20 {
		t.Errorf("expected default resume limit 5MiB, got %d", cfg.MaxResumeBytes)
	}
	if cfg.CleanupSchedule != "@hourly" {
		t.Errorf("expected default cleanup schedule @hourly, got %s", cfg.CleanupSchedule)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("PORT", "9999")
	t.Setenv("AI_PROVIDER", "other")
	t.Setenv("POSTGRES_DSN", "host=db user=u password=p dbname=d port=5432 sslmode=disable")
	t.Setenv("MAX_RESUME_BYTES", "1024")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "9999" || cfg.Provider != "other" || cfg.MaxResumeBytes != 1024 {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
	if cfg.PostgresDSN != "host=db user=u password=p dbname=d port=5432 sslmode=disable" {
		t.Fatalf("explicit DSN not used: %s", cfg.PostgresDSN)
	}
}

func TestLoadConfigComposesPostgresDSN(t *testing.T) {
	t.Setenv("POSTGRES_HOST", "pg.internal")
	t.Setenv("POSTGRES_DB", "mockmate")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "host=pg.internal user=postgres password=postgres dbname=mockmate port=5432 sslmode=disable"
	if cfg.PostgresDSN != want {
		t.Fatalf("DSN = %q, want %q", cfg.PostgresDSN, want)
	}
}

func TestValidateConfigRejectsBadValues(t *testing.T) {
	t.Setenv("MAX_RESUME_BYTES", "-1")
	if _, err := LoadConfig(); err == nil {
		t.Fatalf("expected error for negative resume limit")
	}
}
