package config

import "time"

// Config holds all configuration for the application
type Config struct {
	Environment string           `mapstructure:"environment"`
	Server      ServerConfig     `mapstructure:"server"`
	Logger      LoggerConfig     `mapstructure:"logger"`
	App         AppConfig        `mapstructure:"app"`
	PocketBase  PocketBaseConfig `mapstructure:"pocketbase"`
	Stripe      StripeConfig     `mapstructure:"stripe"`
	Gemini      GeminiConfig     `mapstructure:"gemini"`
	Resend      ResendConfig     `mapstructure:"resend"`
	Redis       RedisConfig      `mapstructure:"redis"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host              string        `mapstructure:"host"`
	Port              int           `mapstructure:"port"`
	ReadTimeout       time.Duration `mapstructure:"readTimeout"`       // seconds
	WriteTimeout      time.Duration `mapstructure:"writeTimeout"`      // seconds
	IdleTimeout       time.Duration `mapstructure:"idleTimeout"`       // seconds
	ReadHeaderTimeout time.Duration `mapstructure:"readHeaderTimeout"` // seconds
	ShutdownTimeout   time.Duration `mapstructure:"shutdownTimeout"`   // seconds
	AllowedOrigins    []string      `mapstructure:"allowedOrigins"`
}

// LoggerConfig contains logger settings
type LoggerConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// AppConfig contains application-level business settings
type AppConfig struct {
	ProjectName         string  `mapstructure:"projectName"`
	SignupBonusCoins    float64 `mapstructure:"signupBonusCoins"`
	TextGenerationCost  float64 `mapstructure:"textGenerationCost"`
	ImageGenerationCost float64 `mapstructure:"imageGenerationCost"`
	AuthRateLimit       int     `mapstructure:"authRateLimit"`      // requests per window
	AuthRateWindowSecs  int     `mapstructure:"authRateWindowSecs"` // window length in seconds
}

// PocketBaseConfig contains settings for the auth/storage backend
type PocketBaseConfig struct {
	URL           string        `mapstructure:"url"`
	AdminEmail    string        `mapstructure:"adminEmail"`
	AdminPassword string        `mapstructure:"adminPassword"`
	Timeout       time.Duration `mapstructure:"timeout"` // seconds
}

// StripeConfig contains settings for the payment backend
type StripeConfig struct {
	APIKey        string `mapstructure:"apiKey"`
	WebhookSecret string `mapstructure:"webhookSecret"`
	AppID         string `mapstructure:"appId"` // scopes product search to this application
}

// GeminiConfig contains settings for the generative AI backend
type GeminiConfig struct {
	APIKey     string `mapstructure:"apiKey"`
	TextModel  string `mapstructure:"textModel"`
	ImageModel string `mapstructure:"imageModel"`
}

// ResendConfig contains settings for the email provider
type ResendConfig struct {
	APIKey      string `mapstructure:"apiKey"`
	FromAddress string `mapstructure:"fromAddress"`
}

// RedisConfig contains cache settings
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}
