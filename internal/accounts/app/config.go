package app

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/streamly/accounts/pkg/cryptox"
	"github.com/streamly/accounts/pkg/jwtx"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	EnvDev = "dev"
)

type Config struct {
	Env                 string        `env:"ENV"                   envDefault:"dev"`  // dev, staging, prod
	LogLevel            string        `env:"LOG_LEVEL"             envDefault:"info"` // debug, info, warn, error
	LogFormat           string        `env:"LOG_FORMAT"            envDefault:"json"` // json, text
	Port                int           `env:"PORT"                  envDefault:"8080"`
	ShutdownGracePeriod time.Duration `env:"SHUTDOWN_GRACE_PERIOD" envDefault:"10s"`

	DBDriver     string `env:"ACCOUNTS_DB_DRIVER"     envDefault:"sqlite"` // sqlite, postgres
	DatabaseFile string `env:"ACCOUNTS_DATABASE_FILE" envDefault:"accounts.db"`
	DatabaseURL  string `env:"ACCOUNTS_DATABASE_URL"`
	PepperFile   string `env:"ACCOUNTS_PEPPER_FILE"   envDefault:"pepper"`

	TokenAlgorithm string        `env:"ACCOUNTS_TOKEN_ALGORITHM" envDefault:"HS256"` // HS256, EdDSA
	TokenSecret    string        `env:"ACCOUNTS_TOKEN_SECRET"`                       // HS256 only, at least 32 bytes
	TokenKeyFile   string        `env:"ACCOUNTS_TOKEN_KEY_FILE"`                     // EdDSA only, PKCS8 PEM
	TokenTTL       time.Duration `env:"ACCOUNTS_TOKEN_TTL"       envDefault:"24h"`
	Issuer         string        `env:"ACCOUNTS_ISSUER"          envDefault:"accounts"`

	// Zero keeps the cryptox default.
	HashTime      uint32 `env:"ACCOUNTS_HASH_TIME"`
	HashMemoryKiB uint32 `env:"ACCOUNTS_HASH_MEMORY_KIB"`

	DefaultRole            string `env:"ACCOUNTS_DEFAULT_ROLE"             envDefault:"USER"`
	DefaultRoleDescription string `env:"ACCOUNTS_DEFAULT_ROLE_DESCRIPTION" envDefault:"Default user role"`
	MinPasswordLength      int    `env:"ACCOUNTS_MIN_PASSWORD_LENGTH"      envDefault:"8"`
}

// LoadConfig reads the configuration from the environment. A .env file in
// the working directory is loaded first when present; variables already set
// win.
func LoadConfig() (Config, error) {
	if err := godotenv.Load(); err != nil {
		var pathErr *os.PathError
		if !errors.As(err, &pathErr) {
			return Config{}, fmt.Errorf("load .env file: %w", err)
		}
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// IsDev reports whether missing key material may be generated on the fly.
func (c Config) IsDev() bool { return c.Env == EnvDev }

// Validate checks values env.Parse cannot. Secrets are never echoed.
func (c Config) Validate() error {
	var errs []error

	if c.Port < 1 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("PORT must be between 1 and 65535, got %d", c.Port))
	}
	if c.ShutdownGracePeriod <= 0 {
		errs = append(errs, errors.New("SHUTDOWN_GRACE_PERIOD must be positive"))
	}

	switch c.DBDriver {
	case DriverSQLite:
		if c.DatabaseFile == "" {
			errs = append(errs, errors.New("ACCOUNTS_DATABASE_FILE is required for the sqlite driver"))
		}
	case DriverPostgres:
		if c.DatabaseURL == "" {
			errs = append(errs, errors.New("ACCOUNTS_DATABASE_URL is required for the postgres driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("ACCOUNTS_DB_DRIVER must be %q or %q, got %q", DriverSQLite, DriverPostgres, c.DBDriver))
	}

	switch c.TokenAlgorithm {
	case jwtx.AlgorithmHS256:
		if c.TokenSecret == "" && !c.IsDev() {
			errs = append(errs, errors.New("ACCOUNTS_TOKEN_SECRET is required outside dev"))
		}
		if c.TokenSecret != "" && len(c.TokenSecret) < 32 {
			errs = append(errs, errors.New("ACCOUNTS_TOKEN_SECRET must be at least 32 bytes"))
		}
	case jwtx.AlgorithmEdDSA:
		if c.TokenKeyFile == "" && !c.IsDev() {
			errs = append(errs, errors.New("ACCOUNTS_TOKEN_KEY_FILE is required outside dev"))
		}
	default:
		errs = append(errs, fmt.Errorf("ACCOUNTS_TOKEN_ALGORITHM must be %q or %q, got %q", jwtx.AlgorithmHS256, jwtx.AlgorithmEdDSA, c.TokenAlgorithm))
	}

	if c.TokenTTL <= 0 {
		errs = append(errs, errors.New("ACCOUNTS_TOKEN_TTL must be positive"))
	}
	if c.Issuer == "" {
		errs = append(errs, errors.New("ACCOUNTS_ISSUER must not be empty"))
	}
	if c.DefaultRole == "" {
		errs = append(errs, errors.New("ACCOUNTS_DEFAULT_ROLE must not be empty"))
	}
	if c.MinPasswordLength < 1 {
		errs = append(errs, errors.New("ACCOUNTS_MIN_PASSWORD_LENGTH must be positive"))
	}
	if err := c.HashParams().Validate(); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

// HashParams applies the configured cost on top of the cryptox defaults.
func (c Config) HashParams() cryptox.Argon2Params {
	p := cryptox.DefaultArgon2Params()
	if c.HashTime > 0 {
		p.Iterations = c.HashTime
	}
	if c.HashMemoryKiB > 0 {
		p.Memory = c.HashMemoryKiB
	}
	return p
}
