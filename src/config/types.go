package config

import (
	"fmt"

	"github.com/jackc/pgx/v5/tracelog"
	"github.com/rs/zerolog"
)

type Environment string

const (
	Live Environment = "live"
	Beta             = "beta"
	Dev              = "dev"
)

type PngkitConfig struct {
	Env      Environment
	LogLevel zerolog.Level

	Postgres PostgresConfig
	Spaces   SpacesConfig
}

type PostgresConfig struct {
	User     string
	Password string
	Hostname string
	Port     int
	DbName   string
	LogLevel tracelog.LogLevel
	MinConn  int32
	MaxConn  int32
}

func (info PostgresConfig) DSN() string {
	return fmt.Sprintf("user=%s password=%s host=%s port=%d dbname=%s", info.User, info.Password, info.Hostname, info.Port, info.DbName)
}

// S3-compatible object storage for published scans. Works against real
// Spaces/S3 or the built-in fakes3 server.
type SpacesConfig struct {
	Key      string
	Secret   string
	Region   string
	Endpoint string
	Bucket   string
}
