package config

const (
	// DefaultConfigPath is used when --config is not provided.
	DefaultConfigPath = "config.yml"
	defaultPort       = 8000
	defaultEnv        = "development"
	defaultLogLevel   = "info"

	defaultDBHost     = "127.0.0.1"
	defaultDBPort     = 3306
	defaultDBUser     = "root"
	defaultDBPassword = "password"
	defaultDBName     = "mailcast"
	defaultDBCharset  = "utf8mb4"
	defaultDBLoc      = "Local"

	defaultRedisHost = "localhost"
	defaultRedisPort = 6379
	defaultRedisDB   = 0

	defaultMailProvider    = ProviderAutosend
	defaultAutosendBaseURL = "https://api.autosend.com/v1"
	defaultSMTPPort        = 587
)

// Mail provider names accepted by mail.provider.
const (
	ProviderAutosend = "autosend"
	ProviderResend   = "resend"
	ProviderSMTP     = "smtp"
)

// Environment variables that override the YAML file.
const (
	EnvAutosendAPIKey   = "AUTOSEND_API_KEY"
	EnvAutosendBaseURL  = "AUTOSEND_BASE_URL"
	EnvResendAPIKey     = "RESEND_API_KEY"
	EnvResendAudienceID = "RESEND_AUDIENCE_ID"
	EnvDatabaseDSN      = "MAILCAST_DATABASE_DSN"
	EnvRedisURL         = "MAILCAST_REDIS_URL"
	EnvPort             = "MAILCAST_PORT"
	EnvEnv              = "MAILCAST_ENV"
)
