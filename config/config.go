package config

type Mode string

const (
	ModeDebug   Mode = "debug"
	ModeRelease Mode = "release"
)

type Config struct {
	Host   string `envconfig:"HOST" mapstructure:"host"`
	Port   string `envconfig:"PORT" mapstructure:"port"`
	Domain string `envconfig:"DOMAIN" mapstructure:"domain"`
	Prefix string `envconfig:"PREFIX" mapstructure:"prefix"`
	Mode   Mode   `envconfig:"MODE" mapstructure:"mode"`
	// Timezone 用于计算“今天”，报名截止与活动结束都按此时区的日期比较
	Timezone string `envconfig:"TIMEZONE" mapstructure:"timezone"`
	Mysql    Mysql  `mapstructure:"mysql"`
	Redis    Redis  `mapstructure:"redis"`
	JWT      JWT    `mapstructure:"jwt"`
	Log      Log    `mapstructure:"log"`
	Sentry   Sentry `mapstructure:"sentry"`
	OTel     OTel   `mapstructure:"otel"`
	S3       S3     `mapstructure:"s3"`
	Notify   Notify `mapstructure:"notify"`
}

type S3 struct {
	Endpoint        string `envconfig:"S3_ENDPOINT" mapstructure:"endpoint"`
	BaseURL         string `envconfig:"S3_BASE_URL" mapstructure:"base_url"`
	Bucket          string `envconfig:"S3_BUCKET" mapstructure:"bucket"`
	Region          string `envconfig:"S3_REGION" mapstructure:"region"`
	AccessKey       string `envconfig:"S3_ACCESS_KEY" mapstructure:"access_key"`
	SecretAccessKey string `envconfig:"S3_SECRET_KEY" mapstructure:"secret_key"`
	Prefix          string `envconfig:"S3_PREFIX" mapstructure:"prefix"`
	UsePathStyle    bool   `envconfig:"S3_PATH_STYLE" mapstructure:"path_style"`
}

type Mysql struct {
	Host     string `envconfig:"MYSQL_HOST" mapstructure:"host"`
	Port     string `envconfig:"MYSQL_PORT" mapstructure:"port"`
	Username string `envconfig:"MYSQL_USERNAME" mapstructure:"username"`
	Password string `envconfig:"MYSQL_PASSWORD" mapstructure:"password"`
	DBName   string `envconfig:"MYSQL_DB_NAME" mapstructure:"db_name"`
}

type Redis struct {
	Host     string `envconfig:"REDIS_HOST" mapstructure:"host"`
	Port     string `envconfig:"REDIS_PORT" mapstructure:"port"`
	Password string `envconfig:"REDIS_PASSWORD" mapstructure:"password"`
	DB       int    `envconfig:"REDIS_DB" mapstructure:"db"`
	// CacheTTLSeconds 仪表盘与公开活动列表的缓存时长
	CacheTTLSeconds int `envconfig:"REDIS_CACHE_TTL" mapstructure:"cache_ttl"`
}

type JWT struct {
	AccessSecret string `envconfig:"ACCESS_SECRET" mapstructure:"access_secret"`
	AccessExpire int64  `envconfig:"ACCESS_EXPIRE" mapstructure:"access_expire"` // 秒
	Issuer       string `envconfig:"JWT_ISSUER" mapstructure:"issuer"`
	Audience     string `envconfig:"JWT_AUDIENCE" mapstructure:"audience"`
}

type Log struct {
	FilePath   string `envconfig:"LOG_FILE_PATH" mapstructure:"file_path"`     // 日志文件路径
	Level      string `envconfig:"LOG_LEVEL" mapstructure:"level"`             // 日志级别：debug, info, warn, error
	MaxSize    int    `envconfig:"LOG_MAX_SIZE" mapstructure:"max_size"`       // 日志文件最大大小（MB）
	MaxBackups int    `envconfig:"LOG_MAX_BACKUPS" mapstructure:"max_backups"` // 保留的旧日志文件数
	MaxAge     int    `envconfig:"LOG_MAX_AGE" mapstructure:"max_age"`         // 日志文件保留天数
	Compress   bool   `envconfig:"LOG_COMPRESS" mapstructure:"compress"`       // 是否压缩旧日志文件
}

type Sentry struct {
	Dsn         string        `envconfig:"SENTRY_DSN" mapstructure:"dsn"`
	Environment string        `envconfig:"SENTRY_ENVIRONMENT" mapstructure:"environment"`
	SampleRate  float64       `envconfig:"SENTRY_SAMPLE_RATE" mapstructure:"sample_rate"`
	Tracing     SentryTracing `mapstructure:"tracing"`
}

type SentryTracing struct {
	DBSlowThresholdMs    int  `envconfig:"SENTRY_DB_SLOW_MS" mapstructure:"db_slow_threshold_ms"`
	RedisSlowThresholdMs int  `envconfig:"SENTRY_REDIS_SLOW_MS" mapstructure:"redis_slow_threshold_ms"`
	TraceHTTPCalls       bool `envconfig:"SENTRY_TRACE_HTTP" mapstructure:"trace_http_calls"`
}

type OTel struct {
	Enable      bool   `envconfig:"OTEL_ENABLE" mapstructure:"enable"`
	ServiceName string `envconfig:"OTEL_SERVICE_NAME" mapstructure:"service_name"`
	AgentHost   string `envconfig:"OTEL_AGENT_HOST" mapstructure:"agent_host"`
	AgentPort   string `envconfig:"OTEL_AGENT_PORT" mapstructure:"agent_port"`
}

// Notify 报名状态变化时推送的外部 webhook，URL 为空则不推送
type Notify struct {
	WebhookURL string `envconfig:"NOTIFY_WEBHOOK_URL" mapstructure:"webhook_url"`
	Secret     string `envconfig:"NOTIFY_SECRET" mapstructure:"secret"`
}
