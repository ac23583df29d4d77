package core

import (
	"net"
	"net/mail"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

type (
	Config struct {
		Env      string // DEV (default), TEST, QA, PROD
		Debug    bool
		TestMode bool
		AppName  string
		WorkDir  string
		Build    string

		DefaultFromName string
		DefaultFromAddr string
		FrontendBaseURL string
		SendgridApiKey  string
		RollbarToken    string
		PaletteColors   []string

		Server   ServerConfig
		Database DatabaseConfig
		Cache    CacheConfig
		Reminder ReminderConfig
	}

	ServerConfig struct {
		Host            string
		Port            string
		ShutdownTimeout time.Duration
	}

	DatabaseConfig struct {
		Engine        string // postgres | sqlite3
		Name          string
		Host          string
		Port          string
		User          string
		Password      string
		AdminUser     string
		AdminPassword string
		DisableTLS    bool
		Path          string // sqlite3 only
	}

	CacheConfig struct {
		Enabled  bool
		Addr     string
		Password string
		DB       int
		TTL      time.Duration
	}

	ReminderConfig struct {
		Enabled  bool
		CronSpec string
		Lead     time.Duration
	}
)

func (c ServerConfig) Address() string   { return net.JoinHostPort(c.Host, c.Port) }
func (c DatabaseConfig) Address() string { return net.JoinHostPort(c.Host, c.Port) }

func (c *Config) DefaultFromEmail() mail.Address {
	return mail.Address{Name: c.DefaultFromName, Address: c.DefaultFromAddr}
}

// NewConfig loads the app configuration from the environment.
// An optional config/.env.<env> file is loaded first if present.
func NewConfig() (*Config, error) {
	v := viper.New()
	v.SetTypeByDefaultValue(true)

	// defaults
	v.SetDefault("debug", true)
	v.SetDefault("appName", "Ofisi")
	v.SetDefault("defaultFromName", "Ofisi")
	v.SetDefault("defaultFromEmail", "noreply@localhost")
	v.SetDefault("frontendBaseUrl", "http://localhost:3000")
	v.SetDefault("paletteColors", []string{"indigo", "teal", "amber", "rose", "slate"})

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", "8000")
	v.SetDefault("server.shutdownTimeout", 5*time.Second)

	v.SetDefault("database.engine", "postgres")
	v.SetDefault("database.name", "ofisi")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.disableTls", true)
	v.SetDefault("database.path", "ofisi.db")

	v.SetDefault("cache.enabled", false)
	v.SetDefault("cache.addr", "localhost:6379")
	v.SetDefault("cache.ttl", 5*time.Minute)

	v.SetDefault("reminder.enabled", false)
	v.SetDefault("reminder.cronSpec", "*/5 * * * *")
	v.SetDefault("reminder.lead", 30*time.Minute)

	env := strings.ToUpper(os.Getenv("ENV"))
	if env == "" {
		env = "DEV"
	}
	v.SetEnvPrefix(env)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	wd, err := os.Getwd()
	if err != nil {
		return nil, errors.Wrap(err, "getting working directory")
	}

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join(wd, "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			return nil, errors.Wrapf(err, "loading %s", dotEnvPath)
		}
	} else if !os.IsNotExist(err) {
		return nil, errors.Wrapf(err, "checking %s", dotEnvPath)
	}
	v.AutomaticEnv()

	conf := &Config{
		Env:             env,
		Debug:           v.GetBool("debug"),
		TestMode:        env == "TEST",
		AppName:         v.GetString("appName"),
		WorkDir:         wd,
		Build:           v.GetString("build"),
		DefaultFromName: v.GetString("defaultFromName"),
		DefaultFromAddr: v.GetString("defaultFromEmail"),
		FrontendBaseURL: v.GetString("frontendBaseUrl"),
		SendgridApiKey:  v.GetString("sendgridApiKey"),
		RollbarToken:    v.GetString("rollbarToken"),
		PaletteColors:   v.GetStringSlice("paletteColors"),
		Server: ServerConfig{
			Host:            v.GetString("server.host"),
			Port:            v.GetString("server.port"),
			ShutdownTimeout: v.GetDuration("server.shutdownTimeout"),
		},
		Database: DatabaseConfig{
			Engine:        v.GetString("database.engine"),
			Name:          v.GetString("database.name"),
			Host:          v.GetString("database.host"),
			Port:          v.GetString("database.port"),
			User:          v.GetString("database.user"),
			Password:      v.GetString("database.password"),
			AdminUser:     v.GetString("database.adminUser"),
			AdminPassword: v.GetString("database.adminPassword"),
			DisableTLS:    v.GetBool("database.disableTls"),
			Path:          v.GetString("database.path"),
		},
		Cache: CacheConfig{
			Enabled:  v.GetBool("cache.enabled"),
			Addr:     v.GetString("cache.addr"),
			Password: v.GetString("cache.password"),
			DB:       v.GetInt("cache.db"),
			TTL:      v.GetDuration("cache.ttl"),
		},
		Reminder: ReminderConfig{
			Enabled:  v.GetBool("reminder.enabled"),
			CronSpec: v.GetString("reminder.cronSpec"),
			Lead:     v.GetDuration("reminder.lead"),
		},
	}
	return conf, nil
}
