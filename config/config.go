package config

import (
	"errors"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	log "github.com/sirupsen/logrus"
)

// ErrMissingMongoURI is returned by Load when no connection string was supplied.
var ErrMissingMongoURI = errors.New("please define the MONGODB_URI environment variable")

type Application struct {
	HTTP      HTTP      `koanf:"http"`
	Mongo     Mongo     `koanf:"mongodb"`
	Redis     Redis     `koanf:"redis"`
	Auth      Auth      `koanf:"auth"`
	RateLimit RateLimit `koanf:"ratelimit"`
	Quota     Quota     `koanf:"quota"`
	Analytics Analytics `koanf:"analytics"`
}

type HTTP struct {
	Addr string `koanf:"addr"`
}

type Mongo struct {
	URI            string        `koanf:"uri"`
	Database       string        `koanf:"database"`
	ConnectTimeout time.Duration `koanf:"connecttimeout"`
	OpTimeout      time.Duration `koanf:"optimeout"`
}

// Redis backs the booking quota. An empty Addr disables the quota.
type Redis struct {
	Addr string `koanf:"addr"`
}

// Auth guards event writes. An empty Secret leaves them open.
type Auth struct {
	Secret            string        `koanf:"secret"`
	TokenTTL          time.Duration `koanf:"tokenttl"`
	AdminEmail        string        `koanf:"adminemail"`
	AdminPasswordHash string        `koanf:"adminpasswordhash"`
}

type RateLimit struct {
	RPS     float64       `koanf:"rps"`
	Burst   int           `koanf:"burst"`
	IdleTTL time.Duration `koanf:"idlettl"`
}

// Quota limits how many bookings one client IP may create per window.
type Quota struct {
	Limit  int           `koanf:"limit"`
	Window time.Duration `koanf:"window"`
}

// Analytics configures the /ingest reverse proxy.
type Analytics struct {
	Enabled    bool   `koanf:"enabled"`
	Host       string `koanf:"host"`
	AssetsHost string `koanf:"assetshost"`
}

func defaults() Application {
	return Application{
		HTTP: HTTP{Addr: ":8080"},
		Mongo: Mongo{
			Database:       "devevent",
			ConnectTimeout: 10 * time.Second,
			OpTimeout:      5 * time.Second,
		},
		Auth: Auth{TokenTTL: 2 * time.Hour},
		RateLimit: RateLimit{
			RPS:     20,
			Burst:   40,
			IdleTTL: 3 * time.Minute,
		},
		Quota: Quota{
			Limit:  20,
			Window: 24 * time.Hour,
		},
		Analytics: Analytics{
			Enabled:    true,
			Host:       "https://us.i.posthog.com",
			AssetsHost: "https://us-assets.i.posthog.com",
		},
	}
}

// Load merges defaults, the optional YAML file at path, a .env file and the
// process environment, in that order of precedence (last wins).
func Load(path string) (Application, error) {
	if err := godotenv.Load(); err != nil {
		log.Debugf(".env not loaded: %v", err)
	}

	var k = koanf.New(".")

	if err := k.Load(structs.Provider(defaults(), "koanf"), nil); err != nil {
		log.Errorf("error loading config from structs: %v", err)
		return Application{}, err
	}

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			if os.IsNotExist(err) {
				log.Infof("Config file not found at %s, using defaults and environment variables", path)
			} else {
				log.Errorf("error loading config from YAML: %v", err)
				return Application{}, err
			}
		} else {
			log.Infof("Loaded configuration from file: %s", path)
		}
	}

	// EVENTS_MONGODB_DATABASE -> mongodb.database
	err := k.Load(env.Provider(".", env.Opt{
		Prefix: "EVENTS_",
		TransformFunc: func(k, v string) (string, any) {
			k = strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(k, "EVENTS_")), "_", ".")
			return k, v
		},
	}), nil)
	if err != nil {
		log.Errorf("error loading config from envs: %v", err)
		return Application{}, err
	}

	// MONGODB_URI -> mongodb.uri
	err = k.Load(env.Provider(".", env.Opt{
		Prefix: "MONGODB_",
		TransformFunc: func(k, v string) (string, any) {
			return strings.ReplaceAll(strings.ToLower(k), "_", "."), v
		},
	}), nil)
	if err != nil {
		log.Errorf("error loading mongodb envs: %v", err)
		return Application{}, err
	}

	var app Application
	if err := k.Unmarshal("", &app); err != nil {
		return Application{}, err
	}
	if strings.TrimSpace(app.Mongo.URI) == "" {
		return Application{}, ErrMissingMongoURI
	}
	return app, nil
}

// SetupLogging applies LOG_LEVEL to the global logrus logger.
func SetupLogging() error {
	level := os.Getenv("LOG_LEVEL")
	if level == "" {
		log.SetLevel(log.InfoLevel)
		return nil
	}
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return err
	}
	log.SetLevel(lvl)
	return nil
}
