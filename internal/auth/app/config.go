package app

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/dharmil18/betterbank-auth-service/pkg/httpx"
)

type Config struct {
	// Identity provider. KEYCLOAK_URL, KEYCLOAK_REALM and KEYCLOAK_CLIENT_ID
	// are required.
	KeycloakURL          string        `env:"KEYCLOAK_URL"`
	KeycloakRealm        string        `env:"KEYCLOAK_REALM"`
	KeycloakClientID     string        `env:"KEYCLOAK_CLIENT_ID"`
	KeycloakClientSecret string        `env:"KEYCLOAK_CLIENT_SECRET"`
	KeycloakTimeout      time.Duration `env:"KEYCLOAK_TIMEOUT"       envDefault:"10s"`

	// Admin credentials. A username switches the admin token to the password
	// grant; otherwise client credentials are used.
	KeycloakAdminRealm        string `env:"KEYCLOAK_ADMIN_REALM"`
	KeycloakAdminClientID     string `env:"KEYCLOAK_ADMIN_CLIENT_ID"     envDefault:"admin-cli"`
	KeycloakAdminClientSecret string `env:"KEYCLOAK_ADMIN_CLIENT_SECRET"`
	KeycloakAdminUsername     string `env:"KEYCLOAK_ADMIN_USERNAME"`
	KeycloakAdminPassword     string `env:"KEYCLOAK_ADMIN_PASSWORD"`

	ProvisioningWorkers     int           `env:"PROVISIONING_WORKERS"      envDefault:"5"`
	ProvisioningMaxWorkers  int           `env:"PROVISIONING_MAX_WORKERS"  envDefault:"10"`
	ProvisioningQueueSize   int           `env:"PROVISIONING_QUEUE_SIZE"   envDefault:"50"`
	ProvisioningTaskTimeout time.Duration `env:"PROVISIONING_TASK_TIMEOUT" envDefault:"30s"`
	ProvisioningRecheck     bool          `env:"PROVISIONING_RECHECK"      envDefault:"true"`

	// Dispatch guard. An empty RedisAddr keeps the guard in memory, which is
	// only correct for a single replica.
	RedisAddr        string        `env:"REDIS_ADDR"`
	RedisPassword    string        `env:"REDIS_PASSWORD"`
	DispatchGuardTTL time.Duration `env:"DISPATCH_GUARD_TTL" envDefault:"2m"`

	DatabaseFile         string        `env:"AUTH_DATABASE_FILE"    envDefault:"auth.db"`
	JournalRetention     time.Duration `env:"JOURNAL_RETENTION"     envDefault:"168h"`
	HousekeepingInterval time.Duration `env:"HOUSEKEEPING_INTERVAL" envDefault:"1h"`

	Env                 string        `env:"ENV"                   envDefault:"dev"`
	LogLevel            string        `env:"LOG_LEVEL"             envDefault:"info"`
	LogFormat           string        `env:"LOG_FORMAT"            envDefault:"json"`
	Port                int           `env:"PORT"                  envDefault:"8080"`
	RequestTimeout      time.Duration `env:"REQUEST_TIMEOUT"       envDefault:"15s"`
	ShutdownGracePeriod time.Duration `env:"SHUTDOWN_GRACE_PERIOD" envDefault:"10s"`

	// Populated from RATELIMIT_{STRICT,LENIENT}_* after parsing.
	AuthRateLimit   httpx.RateLimitConfig
	HealthRateLimit httpx.RateLimitConfig
}

// LoadConfig reads the configuration from the environment.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	cfg.AuthRateLimit = httpx.ParseRateLimitFromEnv("STRICT", httpx.StrictLimit)
	cfg.HealthRateLimit = httpx.ParseRateLimitFromEnv("LENIENT", httpx.LenientLimit)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports missing provider settings and a guard TTL too short to
// cover a running task.
func (c Config) Validate() error {
	switch {
	case c.KeycloakURL == "":
		return fmt.Errorf("KEYCLOAK_URL is required")
	case c.KeycloakRealm == "":
		return fmt.Errorf("KEYCLOAK_REALM is required")
	case c.KeycloakClientID == "":
		return fmt.Errorf("KEYCLOAK_CLIENT_ID is required")
	case c.KeycloakAdminUsername == "" && c.KeycloakAdminClientSecret == "":
		return fmt.Errorf("either KEYCLOAK_ADMIN_USERNAME or KEYCLOAK_ADMIN_CLIENT_SECRET is required")
	case c.DispatchGuardTTL <= c.ProvisioningTaskTimeout:
		// A running task only renews its hold once, when it starts.
		return fmt.Errorf("DISPATCH_GUARD_TTL (%s) must be longer than PROVISIONING_TASK_TIMEOUT (%s)",
			c.DispatchGuardTTL, c.ProvisioningTaskTimeout)
	}
	return nil
}
