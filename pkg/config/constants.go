package config

const (
	EnvPrefix = "GIFTBLOOM"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvDBDSN  = "GIFTBLOOM_DB_DSN"
	EnvDBHost = "GIFTBLOOM_DB_HOST"
	EnvDBUser = "GIFTBLOOM_DB_USER"
	EnvDBName = "GIFTBLOOM_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
