package config

import (
	"testing"
	"time"
)

func TestLoad_AppEnvValidation(t *testing.T) {
	t.Setenv("APP_ENV", "invalid")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid APP_ENV")
	}
}

func TestLoad_UptraceRequiresDSNWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when UPTRACE_ENABLED=true without UPTRACE_DSN")
	}
}

func TestLoad_PprofDefaultsAddrWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("PPROF_ENABLED", "true")
	t.Setenv("PPROF_ADDR", "  ")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.PprofAddr != ":6060" {
		t.Fatalf("expected default pprof addr :6060, got %q", cfg.PprofAddr)
	}
}

func TestLoad_PyroscopeRequiresServerAddressWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("PYROSCOPE_ENABLED", "true")
	t.Setenv("PYROSCOPE_SERVER_ADDRESS", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when PYROSCOPE_ENABLED=true without PYROSCOPE_SERVER_ADDRESS")
	}
}

func TestLoad_PyroscopeAppNameDefaultsToServiceName(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("APP_SERVICE_NAME", "collection-core-api-test")
	t.Setenv("PYROSCOPE_ENABLED", "true")
	t.Setenv("PYROSCOPE_SERVER_ADDRESS", "http://localhost:4040")
	t.Setenv("PYROSCOPE_APP_NAME", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.PyroscopeAppName != "collection-core-api-test" {
		t.Fatalf("unexpected pyroscope app name: %q", cfg.PyroscopeAppName)
	}
}

func TestLoad_CORSOriginsDefaultAndParsing(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")

	t.Run("default wildcard", func(t *testing.T) {
		t.Setenv("CORS_ALLOWED_ORIGINS", "")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if len(cfg.CORSAllowedOrigins) != 1 || cfg.CORSAllowedOrigins[0] != "*" {
			t.Fatalf("unexpected default CORS origins: %+v", cfg.CORSAllowedOrigins)
		}
	})

	t.Run("comma separated parsing", func(t *testing.T) {
		t.Setenv("CORS_ALLOWED_ORIGINS", " https://a.example.com, http://localhost:5173 ")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if len(cfg.CORSAllowedOrigins) != 2 {
			t.Fatalf("unexpected CORS origins length: %d", len(cfg.CORSAllowedOrigins))
		}
		if cfg.CORSAllowedOrigins[0] != "https://a.example.com" {
			t.Fatalf("unexpected first CORS origin: %s", cfg.CORSAllowedOrigins[0])
		}
		if cfg.CORSAllowedOrigins[1] != "http://localhost:5173" {
			t.Fatalf("unexpected second CORS origin: %s", cfg.CORSAllowedOrigins[1])
		}
	})
}

func TestLoad_DBDisablePreparedBinaryResultParsing(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")

	t.Run("default true", func(t *testing.T) {
		t.Setenv("DB_DISABLE_PREPARED_BINARY_RESULT", "")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if !cfg.DBDisablePreparedBinary {
			t.Fatalf("expected DBDisablePreparedBinary=true by default")
		}
	})

	t.Run("invalid value", func(t *testing.T) {
		t.Setenv("DB_DISABLE_PREPARED_BINARY_RESULT", "not-bool")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for invalid DB_DISABLE_PREPARED_BINARY_RESULT")
		}
	})
}

func TestLoad_CacheConfigParsing(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")

	t.Run("defaults", func(t *testing.T) {
		t.Setenv("CACHE_ENABLED", "")
		t.Setenv("CACHE_TTL", "")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if !cfg.CacheEnabled {
			t.Fatalf("expected cache enabled by default")
		}
		if cfg.CacheTTL != 60*time.Second {
			t.Fatalf("unexpected default cache ttl: %s", cfg.CacheTTL)
		}
	})

	t.Run("invalid ttl", func(t *testing.T) {
		t.Setenv("CACHE_TTL", "bad")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for invalid CACHE_TTL")
		}
	})
}

func TestLoad_NotifyConfigParsing(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")

	t.Run("disabled by default", func(t *testing.T) {
		t.Setenv("NOTIFY_ENABLED", "")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if cfg.NotifyEnabled {
			t.Fatalf("expected NotifyEnabled=false by default")
		}
		if cfg.NotifyWorkers != 4 {
			t.Fatalf("unexpected default notify workers: %d", cfg.NotifyWorkers)
		}
		if cfg.NotifyDedupeTTL != 5*time.Minute {
			t.Fatalf("unexpected default notify dedupe ttl: %s", cfg.NotifyDedupeTTL)
		}
	})

	t.Run("enabled requires webhook url", func(t *testing.T) {
		t.Setenv("NOTIFY_ENABLED", "true")
		t.Setenv("NOTIFY_WEBHOOK_URL", "")

		if _, err := Load(); err == nil {
			t.Fatalf("expected error when NOTIFY_ENABLED=true without NOTIFY_WEBHOOK_URL")
		}
	})

	t.Run("enabled with required values", func(t *testing.T) {
		t.Setenv("NOTIFY_ENABLED", "true")
		t.Setenv("NOTIFY_WEBHOOK_URL", "https://hooks.ecoreciclaje.example.com/notify")
		t.Setenv("NOTIFY_WEBHOOK_TOKEN", "hook-token")
		t.Setenv("NOTIFY_MAX_RETRIES", "2")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if !cfg.NotifyEnabled {
			t.Fatalf("expected NotifyEnabled=true")
		}
		if cfg.NotifyMaxRetries != 2 {
			t.Fatalf("unexpected notify retries: %d", cfg.NotifyMaxRetries)
		}
		if cfg.NotifyWebhookToken != "hook-token" {
			t.Fatalf("unexpected notify webhook token: %q", cfg.NotifyWebhookToken)
		}
	})
}

func TestLoad_RequestPolicyParsing(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")

	t.Run("defaults", func(t *testing.T) {
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if cfg.RequestWindowStartHour != 6 || cfg.RequestWindowEndHour != 18 {
			t.Fatalf("unexpected default request window: %d..%d", cfg.RequestWindowStartHour, cfg.RequestWindowEndHour)
		}
		if cfg.RequestMinLead != 24*time.Hour {
			t.Fatalf("unexpected default min lead: %s", cfg.RequestMinLead)
		}
		if cfg.RequestDailyLimit != 3 {
			t.Fatalf("unexpected default daily limit: %d", cfg.RequestDailyLimit)
		}
	})

	t.Run("inverted window rejected", func(t *testing.T) {
		t.Setenv("REQUEST_WINDOW_START_HOUR", "19")
		t.Setenv("REQUEST_WINDOW_END_HOUR", "7")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for inverted request window")
		}
	})

	t.Run("zero daily limit rejected", func(t *testing.T) {
		t.Setenv("REQUEST_DAILY_LIMIT", "0")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for REQUEST_DAILY_LIMIT=0")
		}
	})
}

func TestLoad_AuthConfigDefaults(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.AuthBaseURL != "http://localhost:8081" {
		t.Fatalf("unexpected auth base url: %q", cfg.AuthBaseURL)
	}
	if cfg.AuthIntrospectPath != "/v1/auth/introspect" {
		t.Fatalf("unexpected auth introspect path: %q", cfg.AuthIntrospectPath)
	}
	if cfg.AuthTimeout != 3*time.Second {
		t.Fatalf("unexpected auth timeout: %s", cfg.AuthTimeout)
	}
	if !cfg.AuthCircuitEnabled {
		t.Fatalf("expected auth circuit enabled by default")
	}
	if cfg.AuthCacheTTL != 30*time.Second {
		t.Fatalf("unexpected auth cache ttl: %s", cfg.AuthCacheTTL)
	}
}
