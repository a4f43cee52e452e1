package database

import (
	"errors"
	"strconv"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func openPostgres(cfg Config) (*gorm.DB, error) {
	dsn, err := buildPostgresDSN(cfg)
	if err != nil {
		return nil, err
	}
	return gorm.Open(postgres.Open(dsn), &gorm.Config{})
}

func buildPostgresDSN(cfg Config) (string, error) {
	if cfg.DSN != "" {
		return cfg.DSN, nil
	}
	if cfg.User == "" || cfg.Name == "" {
		return "", errors.New("postgres configuration requires user and database name")
	}

	host, port := cfg.Host, cfg.Port
	if host == "" {
		host = "localhost"
	}
	if port == 0 {
		port = 5432
	}

	settings := map[string]string{
		"host":    host,
		"port":    strconv.Itoa(port),
		"user":    cfg.User,
		"dbname":  cfg.Name,
		"sslmode": "disable",
	}
	if cfg.Password != "" {
		settings["password"] = cfg.Password
	}
	for key, value := range cfg.Options {
		settings[key] = value
	}

	return encodeOptions(settings, " "), nil
}
