package config

// EnvPrefix is passed to envconfig; the struct tags already carry the full
// variable names, so the prefix stays empty.
const EnvPrefix = ""

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvAppEnv   = "PRIZELINK_APP_ENV"
	EnvPort     = "PRIZELINK_APP_PORT"
	EnvRedisURL = "PRIZELINK_REDIS_URL"

	EnvDBDSN  = "PRIZELINK_DB_DSN"
	EnvDBHost = "PRIZELINK_DB_HOST"
	EnvDBUser = "PRIZELINK_DB_USER"
	EnvDBName = "PRIZELINK_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
