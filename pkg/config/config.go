package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "DEALERDESK"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvDBDSN  = "DEALERDESK_DB_DSN"
	EnvDBHost = "DEALERDESK_DB_HOST"
	EnvDBUser = "DEALERDESK_DB_USER"
	EnvDBName = "DEALERDESK_DB_NAME"
)

var requiredDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	Discount      DiscountPolicyConfig
	Inventory     InventoryPolicyConfig
	Demand        DemandPolicyConfig
	SLA           SLAPolicyConfig
	Cron          CronConfig
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
	Env          string `envconfig:"DEALERDESK_APP_ENV" required:"true"`
	Port         string `envconfig:"DEALERDESK_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"DEALERDESK_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"DEALERDESK_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"DEALERDESK_DB_DSN"`
	Driver string `envconfig:"DEALERDESK_DB_DRIVER" default:"postgres"`

	Host     string `envconfig:"DEALERDESK_DB_HOST"`
	Port     int    `envconfig:"DEALERDESK_DB_PORT" default:"5432"`
	User     string `envconfig:"DEALERDESK_DB_USER"`
	Password string `envconfig:"DEALERDESK_DB_PASSWORD"`
	Name     string `envconfig:"DEALERDESK_DB_NAME"`
	SSLMode  string `envconfig:"DEALERDESK_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"DEALERDESK_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"DEALERDESK_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"DEALERDESK_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"DEALERDESK_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	values := map[string]string{
		EnvDBHost: db.Host,
		EnvDBUser: db.User,
		EnvDBName: db.Name,
	}
	for _, env := range requiredDBEnvVars {
		if values[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.User)
	if db.Password != "" {
		userInfo = url.UserPassword(db.User, db.Password)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.Host, db.Port),
		Path:   db.Name,
	}

	if db.SSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.SSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}

type RedisConfig struct {
	URL          string        `envconfig:"DEALERDESK_REDIS_URL" required:"true"`
	Address      string        `envconfig:"DEALERDESK_REDIS_ADDR"`
	Password     string        `envconfig:"DEALERDESK_REDIS_PASSWORD"`
	DB           int           `envconfig:"DEALERDESK_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"DEALERDESK_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"DEALERDESK_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"DEALERDESK_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"DEALERDESK_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"DEALERDESK_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"DEALERDESK_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"DEALERDESK_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"DEALERDESK_JWT_EXPIRATION_MINUTES" default:"480"`
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"DEALERDESK_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"DEALERDESK_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"DEALERDESK_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"DEALERDESK_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"DEALERDESK_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow     time.Duration `envconfig:"DEALERDESK_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit int           `envconfig:"DEALERDESK_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit    int           `envconfig:"DEALERDESK_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"DEALERDESK_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"DEALERDESK_AUTO_MIGRATE" default:"false"`
}

// DiscountPolicyConfig drives the default approval tier table. Thresholds are
// percentages of the original price: a requested discount at or below
// SingleApprovalMaxPct needs only the branch manager, anything above also
// needs the general manager. WarnPct flags a request as unusually large
// without blocking it. HardCapPct is an absolute ceiling enforced as an error.
type DiscountPolicyConfig struct {
	SingleApprovalMaxPct float64 `envconfig:"DEALERDESK_DISCOUNT_SINGLE_APPROVAL_MAX_PCT" default:"5"`
	WarnPct              float64 `envconfig:"DEALERDESK_DISCOUNT_WARN_PCT" default:"10"`
	HardCapPct           float64 `envconfig:"DEALERDESK_DISCOUNT_HARD_CAP_PCT" default:"25"`

	// BrandSingleApprovalMaxPct overrides the single-approval ceiling per
	// brand code, e.g. "LUX:3,ECO:8". Brands not listed use the default.
	BrandSingleApprovalMaxPct map[string]float64 `envconfig:"DEALERDESK_DISCOUNT_BRAND_SINGLE_APPROVAL_MAX_PCT"`
}

// InventoryPolicyConfig holds the stock-age bands and score weights used by
// the priority report.
type InventoryPolicyConfig struct {
	FreshDays int `envconfig:"DEALERDESK_INVENTORY_FRESH_DAYS" default:"30"`
	AgingDays int `envconfig:"DEALERDESK_INVENTORY_AGING_DAYS" default:"60"`
	StaleDays int `envconfig:"DEALERDESK_INVENTORY_STALE_DAYS" default:"90"`

	AgingWeight        float64 `envconfig:"DEALERDESK_INVENTORY_AGING_WEIGHT" default:"0.6"`
	CloseabilityWeight float64 `envconfig:"DEALERDESK_INVENTORY_CLOSEABILITY_WEIGHT" default:"0.4"`

	UrgencyNowMin      float64 `envconfig:"DEALERDESK_INVENTORY_URGENCY_NOW_MIN" default:"75"`
	UrgencyThisWeekMin float64 `envconfig:"DEALERDESK_INVENTORY_URGENCY_THIS_WEEK_MIN" default:"50"`
}

type DemandPolicyConfig struct {
	DeadBand float64 `envconfig:"DEALERDESK_DEMAND_DEAD_BAND" default:"10"`
}

// SLAPolicyConfig maps pipeline stages to response-time limits in days.
// DefaultDays is the explicit policy applied to stages with no mapping.
type SLAPolicyConfig struct {
	InquiryDays     int `envconfig:"DEALERDESK_SLA_INQUIRY_DAYS" default:"1"`
	TestDriveDays   int `envconfig:"DEALERDESK_SLA_TEST_DRIVE_DAYS" default:"2"`
	NegotiationDays int `envconfig:"DEALERDESK_SLA_NEGOTIATION_DAYS" default:"5"`
	ContractDays    int `envconfig:"DEALERDESK_SLA_CONTRACT_DAYS" default:"7"`
	DeliveryDays    int `envconfig:"DEALERDESK_SLA_DELIVERY_DAYS" default:"14"`
	DefaultDays     int `envconfig:"DEALERDESK_SLA_DEFAULT_DAYS" default:"3"`
}

type CronConfig struct {
	Interval              time.Duration `envconfig:"DEALERDESK_CRON_INTERVAL" default:"24h"`
	LockTTL               time.Duration `envconfig:"DEALERDESK_CRON_LOCK_TTL" default:"25h"`
	NotificationRetention time.Duration `envconfig:"DEALERDESK_NOTIFICATION_RETENTION" default:"2160h"`
}
