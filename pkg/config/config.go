package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	// EnvPrefix scopes every environment variable consumed by the service.
	EnvPrefix = "shopsphere"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvDBDSN  = "SHOPSPHERE_DB_DSN"
	EnvDBHost = "SHOPSPHERE_DB_HOST"
	EnvDBUser = "SHOPSPHERE_DB_USER"
	EnvDBName = "SHOPSPHERE_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Password     PasswordConfig
	Razorpay     RazorpayConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"SHOPSPHERE_APP_ENV" required:"true"`
	Port         string `envconfig:"SHOPSPHERE_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"SHOPSPHERE_LOG_LEVEL" default:"info"`
	LogFormat    string `envconfig:"SHOPSPHERE_LOG_FORMAT" default:"json"`
	LogWarnStack bool   `envconfig:"SHOPSPHERE_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"SHOPSPHERE_DB_DSN"`
	Driver string `envconfig:"SHOPSPHERE_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"SHOPSPHERE_DB_HOST"`
	LegacyPort     int    `envconfig:"SHOPSPHERE_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"SHOPSPHERE_DB_USER"`
	LegacyPassword string `envconfig:"SHOPSPHERE_DB_PASSWORD"`
	LegacyName     string `envconfig:"SHOPSPHERE_DB_NAME"`
	LegacySSLMode  string `envconfig:"SHOPSPHERE_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"SHOPSPHERE_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"SHOPSPHERE_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"SHOPSPHERE_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"SHOPSPHERE_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"SHOPSPHERE_REDIS_URL" required:"true"`
	Address      string        `envconfig:"SHOPSPHERE_REDIS_ADDR"`
	Password     string        `envconfig:"SHOPSPHERE_REDIS_PASSWORD"`
	DB           int           `envconfig:"SHOPSPHERE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"SHOPSPHERE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"SHOPSPHERE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"SHOPSPHERE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"SHOPSPHERE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"SHOPSPHERE_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"SHOPSPHERE_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"SHOPSPHERE_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"SHOPSPHERE_JWT_EXPIRATION_MINUTES" default:"60"`
	SessionTTLMinutes int    `envconfig:"SHOPSPHERE_SESSION_TTL_MINUTES" default:"43200"`
}

// SessionTTL returns the server-side session lifetime configured in minutes.
func (j JWTConfig) SessionTTL() time.Duration {
	if j.SessionTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.SessionTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"SHOPSPHERE_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"SHOPSPHERE_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"SHOPSPHERE_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"SHOPSPHERE_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"SHOPSPHERE_ARGON_KEY_LEN" default:"32"`
}

type RazorpayConfig struct {
	KeyID             string        `envconfig:"SHOPSPHERE_RAZORPAY_KEY_ID" required:"true"`
	KeySecret         string        `envconfig:"SHOPSPHERE_RAZORPAY_KEY_SECRET" required:"true"`
	BaseURL           string        `envconfig:"SHOPSPHERE_RAZORPAY_BASE_URL" default:"https://api.razorpay.com"`
	Timeout           time.Duration `envconfig:"SHOPSPHERE_RAZORPAY_TIMEOUT" default:"10s"`
	SessionTTLMinutes int           `envconfig:"SHOPSPHERE_PAYMENT_SESSION_TTL_MINUTES" default:"30"`
}

// SessionTTL returns the payment session lifetime configured in minutes.
func (r RazorpayConfig) SessionTTL() time.Duration {
	if r.SessionTTLMinutes <= 0 {
		return 30 * time.Minute
	}
	return time.Duration(r.SessionTTLMinutes) * time.Minute
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"SHOPSPHERE_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
