package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config represents the application configuration
type Config struct {
	Server   ServerConfig   `json:"server"`
	Database DatabaseConfig `json:"database"`
	Frontend FrontendConfig `json:"frontend"`
	Email    EmailConfig    `json:"email"`
	Worker   WorkerConfig   `json:"worker"`
	Logging  LoggingConfig  `json:"logging"`
}

// ServerConfig represents server configuration
type ServerConfig struct {
	Host         string        `json:"host"`
	Port         int           `json:"port"`
	ReadTimeout  time.Duration `json:"read_timeout"`
	WriteTimeout time.Duration `json:"write_timeout"`
	IdleTimeout  time.Duration `json:"idle_timeout"`
}

// DatabaseConfig represents database configuration
type DatabaseConfig struct {
	Host           string `json:"host"`
	Port           int    `json:"port"`
	User           string `json:"user"`
	Password       string `json:"password"`
	DBName         string `json:"db_name"`
	SSLMode        string `json:"ssl_mode"`
	MaxConnections int    `json:"max_connections"`
	MaxIdleConns   int    `json:"max_idle_conns"`
}

// FrontendConfig points at the participant-facing frontend, used for
// registration and evaluation links embedded in emails.
type FrontendConfig struct {
	BaseURL string `json:"base_url"`
}

// EmailConfig represents outbound email configuration. Provider is "ses" or
// "log".
type EmailConfig struct {
	Provider    string `json:"provider"`
	FromAddress string `json:"from_address"`
	FromName    string `json:"from_name"`
	AWSRegion   string `json:"aws_region"`
}

// WorkerConfig configures the background certificate worker
type WorkerConfig struct {
	CertificateSchedule string `json:"certificate_schedule"`
}

// LoggingConfig represents logging configuration
type LoggingConfig struct {
	Level string `json:"level"`
}

// LoadConfig loads configuration from file and environment variables
func LoadConfig(configPath string) (*Config, error) {
	config := &Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Database: DatabaseConfig{
			Host:    "localhost",
			Port:    5432,
			User:    os.Getenv("USER"),
			DBName:  "crosscert",
			SSLMode: "disable",
		},
		Frontend: FrontendConfig{
			BaseURL: "http://localhost:3000",
		},
		Email: EmailConfig{
			Provider:    "log",
			FromAddress: "crosscert.dvo@gmail.com",
			FromName:    "CROSSCERT",
			AWSRegion:   "ap-southeast-1",
		},
		Worker: WorkerConfig{
			CertificateSchedule: "@every 15m",
		},
	}

	if configPath != "" {
		if data, err := os.ReadFile(configPath); err == nil {
			if err := json.Unmarshal(data, config); err != nil {
				return nil, fmt.Errorf("failed to parse config file: %w", err)
			}
		}
	}

	overrideWithEnv(config)

	return config, nil
}

func overrideWithEnv(config *Config) {
	if host := os.Getenv("SERVER_HOST"); host != "" {
		config.Server.Host = host
	}
	if port := os.Getenv("SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if dbHost := os.Getenv("DATABASE_HOST"); dbHost != "" {
		config.Database.Host = dbHost
	}
	if dbPort := os.Getenv("DATABASE_PORT"); dbPort != "" {
		if p, err := strconv.Atoi(dbPort); err == nil {
			config.Database.Port = p
		}
	}
	if dbUser := os.Getenv("DATABASE_USER"); dbUser != "" {
		config.Database.User = dbUser
	}
	if dbPass := os.Getenv("DATABASE_PASSWORD"); dbPass != "" {
		config.Database.Password = dbPass
	}
	if dbName := os.Getenv("DATABASE_DBNAME"); dbName != "" {
		config.Database.DBName = dbName
	}
	if baseURL := os.Getenv("FRONTEND_BASE_URL"); baseURL != "" {
		config.Frontend.BaseURL = baseURL
	}
	if provider := os.Getenv("EMAIL_PROVIDER"); provider != "" {
		config.Email.Provider = provider
	}
	if from := os.Getenv("EMAIL_FROM"); from != "" {
		config.Email.FromAddress = from
	}
	if region := os.Getenv("AWS_REGION"); region != "" {
		config.Email.AWSRegion = region
	}
	if schedule := os.Getenv("CERTIFICATE_SCHEDULE"); schedule != "" {
		config.Worker.CertificateSchedule = schedule
	}
}

// GetDatabaseURL returns the database connection string
func (c *DatabaseConfig) GetDatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode)
}

// GetServerAddr returns the server address
func (c *ServerConfig) GetServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
