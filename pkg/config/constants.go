package config

// EnvPrefix is empty because every variable carries the PRINTFORGE_ prefix in
// its envconfig tag already.
const EnvPrefix = ""

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvAppEnv     = "PRINTFORGE_APP_ENV"
	EnvPort       = "PRINTFORGE_APP_PORT"
	EnvDBDSN      = "PRINTFORGE_DB_DSN"
	EnvDBHost     = "PRINTFORGE_DB_HOST"
	EnvDBUser     = "PRINTFORGE_DB_USER"
	EnvDBName     = "PRINTFORGE_DB_NAME"
	EnvRedisURL   = "PRINTFORGE_REDIS_URL"
	EnvJWTSecret  = "PRINTFORGE_JWT_SECRET"
	EnvJWTIssuer  = "PRINTFORGE_JWT_ISSUER"
	EnvJWTExpMins = "PRINTFORGE_JWT_EXPIRATION_MINUTES"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
