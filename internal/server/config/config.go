// Package config handles configuration for the server component: defaults,
// an optional JSON or YAML file, a .env file plus environment variables, and
// finally command-line flags, each layer overriding the previous one.
package config

import (
	"os"
	"time"

	"github.com/dmitrijs2005/holidaycal/internal/server/upstream/countriesnow"
	"github.com/dmitrijs2005/holidaycal/internal/server/upstream/nager"
)

// Config holds runtime settings for the holidaycal server.
//
// Fields:
//   - HTTPAddr: bind address of the REST API (PORT).
//   - GRPCAddr: bind address of the gRPC health endpoint; empty disables it.
//   - DateNagerAPIURL / CountriesNowAPIURL: upstream API base URLs.
//   - DatabaseDSN: PostgreSQL DSN (pgx). Takes precedence over MongoURI.
//   - MongoURI / MongoDatabase: MongoDB connection. Without either store the
//     server keeps data in memory.
//   - PopulationTimeout: bound on the population lookup.
//   - UpstreamTimeout: bound on every other upstream call; zero means none.
//   - S3*: object storage for published calendar exports. Publishing is
//     enabled only when S3Bucket is set.
//   - ExportLinkValidity: lifetime of presigned export links.
type Config struct {
	HTTPAddr           string
	GRPCAddr           string
	DateNagerAPIURL    string
	CountriesNowAPIURL string
	DatabaseDSN        string
	MongoURI           string
	MongoDatabase      string
	PopulationTimeout  time.Duration
	UpstreamTimeout    time.Duration
	LogLevel           string
	S3RootUser         string
	S3RootPassword     string
	S3Bucket           string
	S3Region           string
	S3BaseEndpoint     string
	ExportLinkValidity time.Duration
}

// LoadDefaults populates Config with development defaults.
func (c *Config) LoadDefaults() {
	c.HTTPAddr = ":3000"
	c.GRPCAddr = ":50051"
	c.DateNagerAPIURL = nager.DefaultBaseURL
	c.CountriesNowAPIURL = countriesnow.DefaultBaseURL
	c.PopulationTimeout = countriesnow.DefaultPopulationTimeout
	c.UpstreamTimeout = 0
	c.LogLevel = "info"
	c.S3Region = "us-east-1"
	c.ExportLinkValidity = 15 * time.Minute
}

// ExportEnabled reports whether calendar exports can be published to S3.
func (c *Config) ExportEnabled() bool {
	return c.S3Bucket != ""
}

// LoadConfig builds a Config from os.Args and the process environment.
func LoadConfig() (*Config, error) {
	return Load(os.Args[1:])
}

// Load builds a Config by applying defaults, then the config file named by
// -c/-config in args, then .env and environment variables, then the flags in
// args.
func Load(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := parseFile(cfg, args); err != nil {
		return nil, err
	}
	if err := parseEnv(cfg); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}

	return cfg, nil
}
