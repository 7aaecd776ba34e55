package config

const (
	EnvPrefix = "CHITTS"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvDBDSN  = "CHITTS_DB_DSN"
	EnvDBHost = "CHITTS_DB_HOST"
	EnvDBUser = "CHITTS_DB_USER"
	EnvDBName = "CHITTS_DB_NAME"
)

var requiredDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
