package config

// EnvPrefix is passed to envconfig; individual fields carry full names so the
// prefix stays empty on purpose.
const EnvPrefix = ""

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)
