package config

import (
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Log        LogConfig        `mapstructure:"log"`
	Store      StoreConfig      `mapstructure:"store"`
	Mongo      MongoConfig      `mapstructure:"mongo"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Redis      RedisConfig      `mapstructure:"redis"`
	Email      EmailConfig      `mapstructure:"email"`
	Submission SubmissionConfig `mapstructure:"submission"`
	Form       FormConfig       `mapstructure:"form"`
	CORS       CORSConfig       `mapstructure:"cors"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// Addr returns the listen address
func (c ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Document store drivers
const (
	StoreDriverMongo    = "mongo"
	StoreDriverPostgres = "postgres"
)

// StoreConfig selects the document store submissions are written to
type StoreConfig struct {
	Driver     string `mapstructure:"driver"`
	Collection string `mapstructure:"collection"`
}

// MongoConfig holds MongoDB configuration
type MongoConfig struct {
	URI      string `mapstructure:"uri"`
	Database string `mapstructure:"database"`
}

// DatabaseConfig holds PostgreSQL configuration
type DatabaseConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Name           string `mapstructure:"name"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	SSLMode        string `mapstructure:"ssl_mode"`
	MaxConnections int    `mapstructure:"max_connections"`
}

// DSN returns the PostgreSQL connection string
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode,
	)
}

// URL returns the PostgreSQL connection string in URL form, as golang-migrate expects it
func (c DatabaseConfig) URL() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Name, c.SSLMode,
	)
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// Addr returns the Redis address
func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Email providers
const (
	EmailProviderSES   = "ses"
	EmailProviderGmail = "gmail"
	EmailProviderSMTP  = "smtp"
	EmailProviderLog   = "log"
)

// EmailConfig holds email sending configuration
type EmailConfig struct {
	// Provider is the email provider to use: "ses", "gmail", "smtp" or "log"
	Provider string `mapstructure:"provider"`
	// SenderAddress is the verified "From" address used for every message
	SenderAddress string `mapstructure:"sender_address"`
	// SenderName is the display name for the sender (gmail and smtp only)
	SenderName string           `mapstructure:"sender_name"`
	SES        SESEmailConfig   `mapstructure:"ses"`
	Gmail      GmailEmailConfig `mapstructure:"gmail"`
	SMTP       SMTPEmailConfig  `mapstructure:"smtp"`
}

// SESEmailConfig holds AWS SES configuration
type SESEmailConfig struct {
	Region          string `mapstructure:"region"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
}

// GmailEmailConfig holds Gmail API configuration
type GmailEmailConfig struct {
	// CredentialsJSON is the service account credentials JSON content
	CredentialsJSON string `mapstructure:"credentials_json"`
	// ClientID for OAuth2 token-based auth (alternative to service account)
	ClientID string `mapstructure:"client_id"`
	// ClientSecret for OAuth2 token-based auth
	ClientSecret string `mapstructure:"client_secret"`
	// RefreshToken for OAuth2 token-based auth
	RefreshToken string `mapstructure:"refresh_token"`
}

// SMTPEmailConfig holds SMTP relay configuration
type SMTPEmailConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
}

// SubmissionConfig holds the submission endpoint rules
type SubmissionConfig struct {
	// RequireDate makes the date field mandatory alongside name, email and message
	RequireDate bool `mapstructure:"require_date"`
}

// Form session stores
const (
	SessionStoreMemory = "memory"
	SessionStoreRedis  = "redis"
)

// FormConfig holds configuration for the contact form page
type FormConfig struct {
	// EndpointURL is the base URL the form posts submissions to.
	// Empty means this server itself.
	EndpointURL     string        `mapstructure:"endpoint_url"`
	EndpointTimeout time.Duration `mapstructure:"endpoint_timeout"`
	// TimeLayout formats the time stamped on each submission
	TimeLayout   string        `mapstructure:"time_layout"`
	SessionStore string        `mapstructure:"session_store"`
	SessionTTL   time.Duration `mapstructure:"session_ttl"`
	CookieSecure bool          `mapstructure:"cookie_secure"`
}

// CORSConfig holds cross-origin configuration for the submission endpoint
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// Load reads configuration from .env, config file and environment variables
func Load() (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	v := viper.New()

	// Set config file name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/contactform")

	setDefaults(v)

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Bind environment variables
	v.SetEnvPrefix("CONTACTFORM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := bindLegacyEnv(v); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// bindLegacyEnv lets the plain AWS and hosting variable names configure the process
func bindLegacyEnv(v *viper.Viper) error {
	bindings := map[string][]string{
		"email.ses.region":            {"CONTACTFORM_EMAIL_SES_REGION", "AWS_REGION"},
		"email.ses.access_key_id":     {"CONTACTFORM_EMAIL_SES_ACCESS_KEY_ID", "AWS_ACCESS_KEY_ID"},
		"email.ses.secret_access_key": {"CONTACTFORM_EMAIL_SES_SECRET_ACCESS_KEY", "AWS_SECRET_ACCESS_KEY"},
		"email.sender_address":        {"CONTACTFORM_EMAIL_SENDER_ADDRESS", "AWS_SES_EMAIL"},
		"mongo.uri":                   {"CONTACTFORM_MONGO_URI", "MONGODB_URI", "MONGO_URI"},
		"server.port":                 {"CONTACTFORM_SERVER_PORT", "PORT"},
	}
	for key, envs := range bindings {
		if err := v.BindEnv(append([]string{key}, envs...)...); err != nil {
			return fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}
	return nil
}

// Validate checks the enumerated settings
func (c *Config) Validate() error {
	switch c.Store.Driver {
	case StoreDriverMongo, StoreDriverPostgres:
	default:
		return fmt.Errorf("unknown store driver %q", c.Store.Driver)
	}

	switch c.Email.Provider {
	case EmailProviderSES, EmailProviderGmail, EmailProviderSMTP, EmailProviderLog:
	default:
		return fmt.Errorf("unknown email provider %q", c.Email.Provider)
	}

	switch c.Form.SessionStore {
	case SessionStoreMemory, SessionStoreRedis:
	default:
		return fmt.Errorf("unknown form session store %q", c.Form.SessionStore)
	}

	if c.Store.Collection == "" {
		return fmt.Errorf("store collection is required")
	}
	return nil
}

// EndpointBaseURL returns the base URL the form posts submissions to.
// Without form.endpoint_url it is this server: loopback when listening on
// every interface, otherwise the configured host.
func (c *Config) EndpointBaseURL() string {
	if c.Form.EndpointURL != "" {
		return c.Form.EndpointURL
	}
	host := c.Server.Host
	switch host {
	case "", "0.0.0.0", "::", "[::]":
		host = "127.0.0.1"
	}
	return "http://" + net.JoinHostPort(strings.Trim(host, "[]"), strconv.Itoa(c.Server.Port))
}

// UsesRedis reports whether any component needs a Redis connection
func (c *Config) UsesRedis() bool {
	return c.Form.SessionStore == SessionStoreRedis
}

func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)

	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Document store defaults
	v.SetDefault("store.driver", StoreDriverMongo)
	v.SetDefault("store.collection", "contacts")

	v.SetDefault("mongo.uri", "mongodb://localhost:27017/contactform")
	v.SetDefault("mongo.database", "")

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.name", "contactform")
	v.SetDefault("database.user", "contactform")
	v.SetDefault("database.password", "")
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.max_connections", 10)

	// Redis defaults
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	// Email defaults
	v.SetDefault("email.provider", EmailProviderSES)
	v.SetDefault("email.sender_address", "")
	v.SetDefault("email.sender_name", "")
	v.SetDefault("email.ses.region", "us-east-1")
	v.SetDefault("email.ses.access_key_id", "")
	v.SetDefault("email.ses.secret_access_key", "")
	v.SetDefault("email.gmail.credentials_json", "")
	v.SetDefault("email.gmail.client_id", "")
	v.SetDefault("email.gmail.client_secret", "")
	v.SetDefault("email.gmail.refresh_token", "")
	v.SetDefault("email.smtp.host", "")
	v.SetDefault("email.smtp.port", 587)
	v.SetDefault("email.smtp.user", "")
	v.SetDefault("email.smtp.password", "")

	// Submission defaults
	v.SetDefault("submission.require_date", false)

	// Form defaults
	v.SetDefault("form.endpoint_url", "")
	v.SetDefault("form.endpoint_timeout", "10s")
	v.SetDefault("form.time_layout", "15:04")
	v.SetDefault("form.session_store", SessionStoreMemory)
	v.SetDefault("form.session_ttl", "24h")
	v.SetDefault("form.cookie_secure", false)

	// CORS defaults
	v.SetDefault("cors.allowed_origins", []string{"http://localhost:3000"})
}
