package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Mode           string        `envconfig:"ANYNOW_MODE" default:"all"` // all | storefront | admin
	StorefrontAddr string        `envconfig:"STOREFRONT_ADDR" default:":8080"`
	AdminAddr      string        `envconfig:"ADMIN_ADDR" default:":8081"`
	Backend        string        `envconfig:"STORE_BACKEND" default:"sqlite"` // sqlite | redis | memory
	DBDSN          string        `envconfig:"DB_DSN" default:"anynow.db"`
	RedisAddr      string        `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	RedisPassword  string        `envconfig:"REDIS_PASSWORD"`
	RedisPrefix    string        `envconfig:"REDIS_PREFIX" default:"anynow"`
	PollInterval   time.Duration `envconfig:"POLL_INTERVAL" default:"2s"`
	DeliveryFee    float64       `envconfig:"DELIVERY_FEE" default:"30"`
	AdminEmail     string        `envconfig:"ADMIN_EMAIL" default:"admin@anynow.test"`
	AdminPassword  string        `envconfig:"ADMIN_PASSWORD" default:"Passw0rd!"`
	JWTSecret      string        `envconfig:"JWT_SECRET" default:"change-me"`
	LogFile        string        `envconfig:"LOG_FILE"`
	LogLevel       string        `envconfig:"LOG_LEVEL" default:"info"`
}

func (c Config) RunStorefront() bool { return c.Mode == "all" || c.Mode == "storefront" }
func (c Config) RunAdmin() bool      { return c.Mode == "all" || c.Mode == "admin" }

func Load() Config {
	if err := godotenv.Load(); err != nil {
		if os.IsNotExist(err) {
			log.Println("[config] .env not found, using environment and defaults")
		} else {
			log.Printf("[config] could not load .env: %v", err)
		}
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		log.Fatalf("[config] %v", err)
	}
	switch cfg.Mode {
	case "all", "storefront", "admin":
	default:
		log.Printf("[config] unknown ANYNOW_MODE=%q, running all", cfg.Mode)
		cfg.Mode = "all"
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 2 * time.Second
	}

	log.Printf("[config] MODE=%s STOREFRONT_ADDR=%s ADMIN_ADDR=%s STORE_BACKEND=%s DB_DSN=%s POLL_INTERVAL=%s LOG_FILE=%s",
		cfg.Mode, cfg.StorefrontAddr, cfg.AdminAddr, cfg.Backend, cfg.DBDSN, cfg.PollInterval, cfg.LogFile)
	return cfg
}
