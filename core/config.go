package core

import (
	"log"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// Record sources
const (
	SourceFixtures = "fixtures"
	SourceDatabase = "database"
	SourceRemote   = "remote"
)

type (
	serverConfig struct {
		Host            string        `validate:"required"`
		Address         string        `validate:"required"`
		DebugHost       string        `validate:"required"`
		ReadTimeout     time.Duration `validate:"gt=0"`
		WriteTimeout    time.Duration `validate:"gt=0"`
		ShutdownTimeout time.Duration `validate:"gt=0"`
		DisableReqLogs  bool
	}

	databaseConfig struct {
		Engine        string `validate:"oneof=postgres sqlite"`
		Host          string
		Port          string
		Name          string `validate:"required"`
		User          string
		Password      string
		AdminUser     string
		AdminPassword string
		DisableTLS    bool
		Path          string // sqlite only
	}

	sourceConfig struct {
		Kind      string        `validate:"oneof=fixtures database remote"`
		RemoteURL string        `validate:"required_if=Kind remote"`
		APIKey    string        // sent as "apikey" and bearer token to the remote source
		CacheTTL  time.Duration `validate:"gte=0"`
		RetryMax  int           `validate:"gte=0"`
		Timeout   time.Duration `validate:"gt=0"`
	}

	tableConfig struct {
		PageSize     int `validate:"gte=1,lte=500"`
		SkeletonRows int `validate:"gte=1,lte=50"`
	}

	Config struct {
		AppName      string `validate:"required"`
		Env          string
		Build        string
		Debug        bool
		TestMode     bool
		RollbarToken string
		WorkDir      string
		Server       serverConfig
		Database     databaseConfig
		Source       sourceConfig
		Table        tableConfig
	}
)

func (dbConf databaseConfig) Address() string {
	if dbConf.Port == "" {
		return dbConf.Host
	}
	return net.JoinHostPort(dbConf.Host, dbConf.Port)
}

// NewConfig loads the configuration from defaults, the optional config/.env.<env> file and
// environment variables prefixed with the upper-cased environment name (DEV_DEBUG, PROD_DATABASE_HOST, ...).
func NewConfig() *Config {
	conf := viper.New()

	env := strings.ToUpper(os.Getenv("ENV")) // DEV (local; default), TEST, QA, PROD
	if env == "" {
		env = "DEV"
	}
	workDir := Getwd()

	// defaults
	conf.SetTypeByDefaultValue(true)
	conf.SetDefault("appName", "Dipapa")
	conf.SetDefault("env", env)
	conf.SetDefault("build", "develop")
	conf.SetDefault("debug", true)
	conf.SetDefault("testMode", env == "TEST")
	conf.SetDefault("rollbarToken", "")
	conf.SetDefault("workDir", workDir)

	conf.SetDefault("server.host", "localhost")
	conf.SetDefault("server.address", ":8000")
	conf.SetDefault("server.debugHost", ":4000")
	conf.SetDefault("server.readTimeout", 5*time.Second)
	conf.SetDefault("server.writeTimeout", 10*time.Second)
	conf.SetDefault("server.shutdownTimeout", 5*time.Second)
	conf.SetDefault("server.disableReqLogs", false)

	conf.SetDefault("database.engine", "sqlite")
	conf.SetDefault("database.host", "localhost")
	conf.SetDefault("database.port", "5432")
	conf.SetDefault("database.name", "dipapa")
	conf.SetDefault("database.user", "")
	conf.SetDefault("database.password", "")
	conf.SetDefault("database.adminUser", "postgres")
	conf.SetDefault("database.adminPassword", "")
	conf.SetDefault("database.disableTLS", true)
	conf.SetDefault("database.path", filepath.Join(workDir, "dipapa.db"))

	conf.SetDefault("source.kind", SourceFixtures)
	conf.SetDefault("source.remoteURL", "")
	conf.SetDefault("source.apiKey", "")
	conf.SetDefault("source.cacheTTL", 30*time.Second)
	conf.SetDefault("source.retryMax", 3)
	conf.SetDefault("source.timeout", 10*time.Second)

	conf.SetDefault("table.pageSize", 10)
	conf.SetDefault("table.skeletonRows", 5)

	conf.SetEnvPrefix(env)
	conf.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join(workDir, "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	conf.AutomaticEnv()

	var cfg Config
	if err := conf.Unmarshal(&cfg); err != nil {
		log.Fatalf("config.Unmarshal: %v", err)
	}
	return &cfg
}

// Validate checks the loaded configuration. Call it once at start-up.
func (c *Config) Validate(validate *validator.Validate) error {
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(err, "invalid configuration")
	}
	if c.Source.Kind == SourceDatabase && c.Database.Engine == "sqlite" && c.Database.Path == "" {
		return errors.New("invalid configuration: database.path is required for sqlite")
	}
	return nil
}

// Getwd walks up from the working directory to the module root (the directory holding go.mod).
// go test runs in the package directory, so relative asset paths cannot be trusted.
func Getwd() string {
	wd, err := os.Getwd()
	if err != nil {
		log.Fatal(err)
	}
	currDir := wd
	for {
		if fi, err := os.Stat(filepath.Join(currDir, "go.mod")); err == nil && !fi.IsDir() {
			return currDir
		}
		newDir := filepath.Dir(currDir)
		if newDir == currDir {
			return wd
		}
		currDir = newDir
	}
}
