package config

// EnvPrefix is passed to envconfig; individual tags carry the full names.
const EnvPrefix = "RESTOTRACE"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "production"
)

const (
	EnvAppEnv   = "RESTOTRACE_APP_ENV"
	EnvPort     = "RESTOTRACE_APP_PORT"
	EnvDBDSN    = "RESTOTRACE_DB_DSN"
	EnvDBHost   = "RESTOTRACE_DB_HOST"
	EnvDBUser   = "RESTOTRACE_DB_USER"
	EnvDBName   = "RESTOTRACE_DB_NAME"
	EnvRedisURL = "RESTOTRACE_REDIS_URL"

	EnvGCPProjectID   = "RESTOTRACE_GCP_PROJECT_ID"
	EnvPubSubTopic    = "RESTOTRACE_PUBSUB_TRACE_TOPIC"
	EnvBigQueryTable  = "RESTOTRACE_BIGQUERY_EVENTS_TABLE"
	EnvRetentionDays  = "RESTOTRACE_TRACE_RETENTION_DAYS"
	EnvTraceSinkStore = "RESTOTRACE_TRACE_SINK_STORE"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
