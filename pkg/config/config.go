package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	Service      ServiceConfig
	DB           DBConfig
	Redis        RedisConfig
	FeatureFlags FeatureFlagsConfig
	GCP          GCPConfig
	PubSub       PubSubConfig
	BigQuery     BigQueryConfig
	Trace        TraceConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	if err := cfg.validateSinks(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"RESTOTRACE_APP_ENV" required:"true"`
	Port         string `envconfig:"RESTOTRACE_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"RESTOTRACE_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"RESTOTRACE_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind        string   `envconfig:"RESTOTRACE_SERVICE_KIND" default:"api"`
	CORSOrigins []string `envconfig:"RESTOTRACE_CORS_ORIGINS"`
}

type DBConfig struct {
	DSN    string `envconfig:"RESTOTRACE_DB_DSN"`
	Driver string `envconfig:"RESTOTRACE_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"RESTOTRACE_DB_HOST"`
	LegacyPort     int    `envconfig:"RESTOTRACE_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"RESTOTRACE_DB_USER"`
	LegacyPassword string `envconfig:"RESTOTRACE_DB_PASSWORD"`
	LegacyName     string `envconfig:"RESTOTRACE_DB_NAME"`
	LegacySSLMode  string `envconfig:"RESTOTRACE_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"RESTOTRACE_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"RESTOTRACE_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"RESTOTRACE_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"RESTOTRACE_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"RESTOTRACE_REDIS_URL" required:"true"`
	Address      string        `envconfig:"RESTOTRACE_REDIS_ADDR"`
	Password     string        `envconfig:"RESTOTRACE_REDIS_PASSWORD"`
	DB           int           `envconfig:"RESTOTRACE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"RESTOTRACE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"RESTOTRACE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"RESTOTRACE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"RESTOTRACE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"RESTOTRACE_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"RESTOTRACE_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"RESTOTRACE_AUTO_MIGRATE" default:"false"`
}

type GCPConfig struct {
	ProjectID       string `envconfig:"RESTOTRACE_GCP_PROJECT_ID"`
	CredentialsJSON string `envconfig:"RESTOTRACE_GCP_CREDENTIALS_JSON"`
}

type PubSubConfig struct {
	TraceTopic string `envconfig:"RESTOTRACE_PUBSUB_TRACE_TOPIC" default:"trace-events"`
}

type BigQueryConfig struct {
	Dataset     string `envconfig:"RESTOTRACE_BIGQUERY_DATASET" default:"restotrace"`
	EventsTable string `envconfig:"RESTOTRACE_BIGQUERY_EVENTS_TABLE" default:"transaction_events"`
}

// TraceConfig selects which event sinks run and how their workers behave.
type TraceConfig struct {
	SinkStore    bool   `envconfig:"RESTOTRACE_TRACE_SINK_STORE" default:"true"`
	SinkConsole  bool   `envconfig:"RESTOTRACE_TRACE_SINK_CONSOLE" default:"true"`
	SinkFile     bool   `envconfig:"RESTOTRACE_TRACE_SINK_FILE" default:"false"`
	SinkRedis    bool   `envconfig:"RESTOTRACE_TRACE_SINK_REDIS" default:"false"`
	SinkPubSub   bool   `envconfig:"RESTOTRACE_TRACE_SINK_PUBSUB" default:"false"`
	SinkBigQuery bool   `envconfig:"RESTOTRACE_TRACE_SINK_BIGQUERY" default:"false"`
	FilePath     string `envconfig:"RESTOTRACE_TRACE_FILE_PATH" default:"trace-events.log"`
	RedisChannel string `envconfig:"RESTOTRACE_TRACE_REDIS_CHANNEL" default:"trace:events"`

	QueueSize     int           `envconfig:"RESTOTRACE_TRACE_QUEUE_SIZE" default:"256"`
	SinkTimeout   time.Duration `envconfig:"RESTOTRACE_TRACE_SINK_TIMEOUT" default:"5s"`
	RetentionDays int           `envconfig:"RESTOTRACE_TRACE_RETENTION_DAYS" default:"30"`
}

func (c *Config) validateSinks() error {
	if (c.Trace.SinkPubSub || c.Trace.SinkBigQuery) && strings.TrimSpace(c.GCP.ProjectID) == "" {
		return fmt.Errorf("%s is required when the pubsub or bigquery sink is enabled", EnvGCPProjectID)
	}
	if c.Trace.SinkFile && strings.TrimSpace(c.Trace.FilePath) == "" {
		return fmt.Errorf("trace file path is required when the file sink is enabled")
	}
	return nil
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
