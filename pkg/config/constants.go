package config

const (
	EnvPrefix = "POS"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	EnvDBPath = "POS_DB_PATH"
	EnvDBDSN  = "POS_DB_DSN"
)
