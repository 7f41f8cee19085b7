package config

type Config struct {
	// Server settings
	Server ServerConfig `json:"server"`

	// Database settings
	Database DatabaseConfig `json:"database"`

	// Security settings
	Security SecurityConfig `json:"security"`

	// Logging settings
	Logging LoggingConfig `json:"logging"`

	// Notification channel settings
	Mail     MailConfig     `json:"mail"`
	Telegram TelegramConfig `json:"telegram"`
	WeChat   WeChatConfig   `json:"wechat"`
}

type ServerConfig struct {
	Host         string `json:"host" default:"localhost"`
	Port         int    `json:"port" default:"8080"`
	ReadTimeout  int    `json:"read_timeout" default:"30"`  // seconds
	WriteTimeout int    `json:"write_timeout" default:"30"` // seconds
	IdleTimeout  int    `json:"idle_timeout" default:"120"` // seconds
	GracefulStop int    `json:"graceful_stop" default:"30"` // seconds
}

type DatabaseConfig struct {
	Driver   string `json:"driver" default:"sqlite"` // sqlite, postgres
	Host     string `json:"host" default:"localhost"`
	Port     int    `json:"port" default:"5432"`
	Database string `json:"database" default:"visatrack.db"`
	Username string `json:"username"`
	Password string `json:"password"`
	SSLMode  string `json:"ssl_mode" default:"disable"`

	// Connection pool settings
	MaxOpenConns    int `json:"max_open_conns" default:"25"`
	MaxIdleConns    int `json:"max_idle_conns" default:"5"`
	ConnMaxLifetime int `json:"conn_max_lifetime" default:"300"` // seconds
}

type SecurityConfig struct {
	JWTSecret          string `json:"jwt_secret"`
	JWTExpirationHours int    `json:"jwt_expiration_hours" default:"24"`

	// Shared secret for the external dispatch scheduler. The dispatch
	// endpoint is disabled when empty.
	DispatchToken string `json:"dispatch_token"`

	// Rate limiting
	RateLimitEnabled   bool `json:"rate_limit_enabled" default:"true"`
	RateLimitPerMinute int  `json:"rate_limit_per_minute" default:"60"`
	RateLimitBurstSize int  `json:"rate_limit_burst_size" default:"10"`
}

type LoggingConfig struct {
	Level      string `json:"level" default:"info"`    // debug, info, warn, error
	Format     string `json:"format" default:"json"`   // json, text
	Output     string `json:"output" default:"stdout"` // stdout, file
	FilePath   string `json:"file_path" default:"logs/visatrack.log"`
	MaxSize    int    `json:"max_size" default:"100"` // MB
	MaxBackups int    `json:"max_backups" default:"3"`
	MaxAge     int    `json:"max_age" default:"28"` // days
	Compress   bool   `json:"compress" default:"true"`
}

// MailConfig configures the outbound mail relay. Sending is skipped
// (reported as not sent, not an error) when APIKey is empty.
type MailConfig struct {
	APIKey      string `json:"api_key"`
	FromAddress string `json:"from_address" default:"noreply@visatrack.app"`
	FromName    string `json:"from_name" default:"VisaTrack"`
	APIBaseURL  string `json:"api_base_url" default:"https://api.resend.com"`
}

// TelegramConfig configures the Telegram bot channel.
type TelegramConfig struct {
	BotToken   string `json:"bot_token"`
	APIBaseURL string `json:"api_base_url" default:"https://api.telegram.org"`
}

// WeChatConfig configures the WeChat template-message channel.
type WeChatConfig struct {
	AppID      string `json:"app_id"`
	AppSecret  string `json:"app_secret"`
	TemplateID string `json:"template_id"`
	APIBaseURL string `json:"api_base_url" default:"https://api.weixin.qq.com"`
}
