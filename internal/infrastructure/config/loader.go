package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Environment constants
const (
	Development = "development"
	Production  = "production"
	Test        = "test"
)

// ConfigPaths defines the paths to look for config files
var ConfigPaths = []string{
	"./configs",
	"../configs",
	"../../configs",
}

// DotEnvPaths defines the paths to look for .env files
var DotEnvPaths = []string{
	".env",
	"./.env",
	"../.env",
	"../../.env",
	"./configs/.env",
}

// LoadConfig loads configuration from file based on the environment
func LoadConfig() (*Config, error) {
	if err := loadDotEnvFile(); err != nil {
		fmt.Println("Warning: Could not load .env file:", err)
	}

	env := getEnvironment()

	v := viper.New()
	v.SetConfigName(env)
	v.SetConfigType("yaml")

	for _, path := range ConfigPaths {
		v.AddConfigPath(path)
	}

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	v.SetEnvPrefix("BZ")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	processEnvOverrides(v)

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}

	config.Environment = env
	processDurations(&config)

	return &config, nil
}

// loadDotEnvFile attempts to load environment variables from .env files
func loadDotEnvFile() error {
	var lastError error

	for _, path := range DotEnvPaths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				return nil
			} else {
				lastError = err
			}
		}
	}

	if lastError != nil {
		return fmt.Errorf("could not load any .env file: %w", lastError)
	}

	return fmt.Errorf("no .env file found in search paths")
}

// setDefaults sets default values for non-critical configuration
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.readTimeout", 15)       // seconds
	v.SetDefault("server.writeTimeout", 30)      // seconds; AI calls can be slow
	v.SetDefault("server.idleTimeout", 60)       // seconds
	v.SetDefault("server.readHeaderTimeout", 10) // seconds
	v.SetDefault("server.shutdownTimeout", 10)   // seconds
	v.SetDefault("server.allowedOrigins", []string{"http://localhost:5173", "http://localhost:3000"})

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "json")
	v.SetDefault("logger.output", "stdout")

	v.SetDefault("app.projectName", "Bizniz AI")
	v.SetDefault("app.signupBonusCoins", 10)
	v.SetDefault("app.textGenerationCost", 1.0)
	v.SetDefault("app.imageGenerationCost", 5.0)
	v.SetDefault("app.authRateLimit", 20)
	v.SetDefault("app.authRateWindowSecs", 60)

	v.SetDefault("pocketbase.timeout", 10) // seconds

	v.SetDefault("gemini.textModel", "gemini-2.5-flash")
	v.SetDefault("gemini.imageModel", "gemini-2.5-flash")

	v.SetDefault("stripe.appId", "bizniz_ai_v1")

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.db", 0)
}

// getEnvironment determines the environment to use based on BZ_ENV
func getEnvironment() string {
	env := os.Getenv("BZ_ENV")
	if env == "" {
		env = Development
	}
	return strings.ToLower(env)
}

// processEnvOverrides ensures environment variables override config values
// for sensitive settings that should never land in a YAML file
func processEnvOverrides(v *viper.Viper) {
	if url := os.Getenv("BZ_POCKETBASE_URL"); url != "" {
		v.Set("pocketbase.url", url)
	}
	if email := os.Getenv("BZ_POCKETBASE_ADMIN_EMAIL"); email != "" {
		v.Set("pocketbase.adminEmail", email)
	}
	if pass := os.Getenv("BZ_POCKETBASE_ADMIN_PASSWORD"); pass != "" {
		v.Set("pocketbase.adminPassword", pass)
	}

	if key := os.Getenv("BZ_STRIPE_API_KEY"); key != "" {
		v.Set("stripe.apiKey", key)
	}
	if secret := os.Getenv("BZ_STRIPE_WEBHOOK_SECRET"); secret != "" {
		v.Set("stripe.webhookSecret", secret)
	}

	if key := os.Getenv("BZ_GEMINI_API_KEY"); key != "" {
		v.Set("gemini.apiKey", key)
	}

	if key := os.Getenv("BZ_RESEND_API_KEY"); key != "" {
		v.Set("resend.apiKey", key)
	}
	if from := os.Getenv("BZ_RESEND_FROM_ADDRESS"); from != "" {
		v.Set("resend.fromAddress", from)
	}

	if addr := os.Getenv("BZ_REDIS_ADDR"); addr != "" {
		v.Set("redis.addr", addr)
	}
	if pass := os.Getenv("BZ_REDIS_PASSWORD"); pass != "" {
		v.Set("redis.password", pass)
	}

	if host := os.Getenv("BZ_SERVER_HOST"); host != "" {
		v.Set("server.host", host)
	}
	if port := os.Getenv("BZ_SERVER_PORT"); port != "" {
		v.Set("server.port", port)
	}
	if level := os.Getenv("BZ_LOGGER_LEVEL"); level != "" {
		v.Set("logger.level", level)
	}
}

// processDurations converts duration fields from their raw second values
func processDurations(config *Config) {
	config.Server.ReadTimeout = time.Duration(config.Server.ReadTimeout) * time.Second
	config.Server.WriteTimeout = time.Duration(config.Server.WriteTimeout) * time.Second
	config.Server.IdleTimeout = time.Duration(config.Server.IdleTimeout) * time.Second
	config.Server.ReadHeaderTimeout = time.Duration(config.Server.ReadHeaderTimeout) * time.Second
	config.Server.ShutdownTimeout = time.Duration(config.Server.ShutdownTimeout) * time.Second
	config.PocketBase.Timeout = time.Duration(config.PocketBase.Timeout) * time.Second
}
