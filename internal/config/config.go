package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Supported platforms
const (
	PlatformTelegram = "telegram"
	PlatformDiscord  = "discord"
	PlatformSlack    = "slack"
)

// Config holds all application configuration
type Config struct {
	Platform string
	Telegram TelegramConfig
	Discord  DiscordConfig
	Slack    SlackConfig
	Admins   []string
	LogLevel string
	Prompts  PromptsConfig
	History  HistoryConfig
	Database DatabaseConfig
}

// TelegramConfig holds Telegram bot settings
type TelegramConfig struct {
	Token string
}

// DiscordConfig holds Discord bot settings
type DiscordConfig struct {
	Token string
}

// SlackConfig holds Slack app settings
type SlackConfig struct {
	BotToken string
	AppToken string
}

// PromptsConfig tunes prompt lifecycles and texts. Env vars set the timeouts;
// PROMPTS_FILE may override any field.
type PromptsConfig struct {
	Timeout         time.Duration `yaml:"timeout"`
	FinalizeTimeout time.Duration `yaml:"finalizeTimeout"`
	ConfirmTimeout  time.Duration `yaml:"confirmTimeout"`
	PagesTimeout    time.Duration `yaml:"pagesTimeout"`
	CancelFooter    string        `yaml:"cancelFooter"`
	ExpireFooter    string        `yaml:"expireFooter"`
	InvalidUserText string        `yaml:"invalidUserText"`
	HelpPages       []string      `yaml:"helpPages"`
}

// HistoryConfig holds prompt history settings
type HistoryConfig struct {
	RetentionDays int
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file (ignore error if not exists)
	_ = godotenv.Load()

	cfg := &Config{
		Platform: strings.ToLower(getEnv("PLATFORM", PlatformTelegram)),
		Telegram: TelegramConfig{
			Token: os.Getenv("TELEGRAM_TOKEN"),
		},
		Discord: DiscordConfig{
			Token: os.Getenv("DISCORD_TOKEN"),
		},
		Slack: SlackConfig{
			BotToken: os.Getenv("SLACK_BOT_TOKEN"),
			AppToken: os.Getenv("SLACK_APP_TOKEN"),
		},
		Admins:   splitList(os.Getenv("BOT_ADMINS")),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		Database: loadDatabase(),
	}

	var err error
	if cfg.Prompts.Timeout, err = getDuration("PROMPT_TIMEOUT", 90*time.Second); err != nil {
		return nil, err
	}
	if cfg.Prompts.FinalizeTimeout, err = getDuration("PROMPT_FINALIZE_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}
	if cfg.History.RetentionDays, err = getInt("HISTORY_RETENTION_DAYS", 30); err != nil {
		return nil, err
	}

	if path := os.Getenv("PROMPTS_FILE"); path != "" {
		if err := loadPrompts(path, &cfg.Prompts); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that the selected platform has its credentials
func (c *Config) Validate() error {
	switch c.Platform {
	case PlatformTelegram:
		if c.Telegram.Token == "" {
			return fmt.Errorf("TELEGRAM_TOKEN is required")
		}
	case PlatformDiscord:
		if c.Discord.Token == "" {
			return fmt.Errorf("DISCORD_TOKEN is required")
		}
	case PlatformSlack:
		if c.Slack.BotToken == "" {
			return fmt.Errorf("SLACK_BOT_TOKEN is required")
		}
		if c.Slack.AppToken == "" {
			return fmt.Errorf("SLACK_APP_TOKEN is required")
		}
	default:
		return fmt.Errorf("PLATFORM must be one of %s, %s, %s; got %q",
			PlatformTelegram, PlatformDiscord, PlatformSlack, c.Platform)
	}

	if c.Prompts.Timeout <= 0 {
		return fmt.Errorf("PROMPT_TIMEOUT must be positive")
	}
	if c.Prompts.FinalizeTimeout <= 0 {
		return fmt.Errorf("PROMPT_FINALIZE_TIMEOUT must be positive")
	}
	if c.History.RetentionDays <= 0 {
		return fmt.Errorf("HISTORY_RETENTION_DAYS must be positive")
	}

	return nil
}

// HistoryEnabled reports whether a database is configured
func (c *Config) HistoryEnabled() bool {
	return c.Database.Password != ""
}

// DSN returns PostgreSQL connection string
func (c *Config) DSN() string {
	return c.Database.DSN()
}

// LoadDatabase reads only the database settings. Commands that never talk to
// a chat platform use it instead of Load.
func LoadDatabase() (DatabaseConfig, error) {
	_ = godotenv.Load()

	db := loadDatabase()
	if db.Password == "" {
		return db, fmt.Errorf("DB_PASSWORD is required")
	}
	return db, nil
}

func loadDatabase() DatabaseConfig {
	return DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     getEnv("DB_PORT", "5432"),
		Name:     getEnv("DB_NAME", "promptbot"),
		User:     getEnv("DB_USER", "promptbot"),
		Password: os.Getenv("DB_PASSWORD"),
	}
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		d.Host,
		d.Port,
		d.User,
		d.Password,
		d.Name,
	)
}

// loadPrompts overlays a YAML file on top of the env settings
func loadPrompts(path string, prompts *PromptsConfig) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading prompts file: %w", err)
	}

	if err := yaml.Unmarshal([]byte(expandEnvVars(string(data))), prompts); err != nil {
		return fmt.Errorf("parsing prompts file: %w", err)
	}
	return nil
}

// expandEnvVars replaces ${VAR} patterns with environment variable values
func expandEnvVars(s string) string {
	return os.Expand(s, func(key string) string {
		if val, ok := os.LookupEnv(key); ok {
			return val
		}
		return "${" + key + "}"
	})
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

func getInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func splitList(value string) []string {
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
