package config

import (
	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
)

type Config struct {
	HTTPAddr string `envconfig:"HTTP_ADDR" default:":8080"`

	MySQLDSN         string `envconfig:"MYSQL_DSN" default:"root:root@tcp(localhost:3306)/minishop?parseTime=true"`
	MySQLMaxOpen     int    `envconfig:"MYSQL_MAX_OPEN_CONNS" default:"50"`
	MySQLMaxIdle     int    `envconfig:"MYSQL_MAX_IDLE_CONNS" default:"25"`
	MySQLMaxLifetime int    `envconfig:"MYSQL_CONN_MAX_LIFETIME_MINUTES" default:"5"`

	RedisAddr string `envconfig:"REDIS_ADDR" default:"localhost:6379"`

	// Purchase endpoint throttle: sustained requests per second and burst.
	PurchaseRateLimit float64 `envconfig:"PURCHASE_RATE_LIMIT" default:"100"`
	PurchaseRateBurst int     `envconfig:"PURCHASE_RATE_BURST" default:"200"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, errors.Wrap(err, "parse environment config")
	}
	return &cfg, nil
}
