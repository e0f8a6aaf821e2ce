package config

import (
	"github.com/jackc/pgx/v5/tracelog"
	"github.com/rs/zerolog"
)

// Defaults target a local dev setup: Postgres on localhost and the fakes3
// subcommand for object storage. Adjust for a real deployment.
var Config = PngkitConfig{
	Env:      Dev,
	LogLevel: zerolog.InfoLevel,

	Postgres: PostgresConfig{
		User:     "pngkit",
		Password: "password",
		Hostname: "localhost",
		Port:     5432,
		DbName:   "pngkit",
		LogLevel: tracelog.LogLevelWarn,
		MinConn:  2,
		MaxConn:  8,
	},

	Spaces: SpacesConfig{
		Key:      "dvlpr",
		Secret:   "dvlprpassword",
		Region:   "dvlpr",
		Endpoint: "http://localhost:9004",
		Bucket:   "pngkit-dev",
	},
}
