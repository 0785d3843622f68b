package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// envFile is loaded before the environment is read. Variables already set
// in the process environment win over the file.
var envFile = ".env"

// parseEnv overlays environment variables. A missing .env file is not an
// error.
func parseEnv(config *Config) error {
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load %s: %w", envFile, err)
	}

	if v, ok := lookup("PORT"); ok {
		config.HTTPAddr = portToAddr(v)
	}
	if v, ok := os.LookupEnv("GRPC_ADDR"); ok {
		config.GRPCAddr = strings.TrimSpace(v)
	}

	envString(&config.DateNagerAPIURL, "DATE_NAGER_API_URL")
	envString(&config.CountriesNowAPIURL, "COUNTRIES_NOW_API_URL")
	envString(&config.DatabaseDSN, "DATABASE_DSN")
	envString(&config.MongoURI, "MONGODB_URI")
	envString(&config.MongoDatabase, "MONGODB_DATABASE")
	envString(&config.LogLevel, "LOG_LEVEL")
	envString(&config.S3RootUser, "S3_ROOT_USER")
	envString(&config.S3RootPassword, "S3_ROOT_PASSWORD")
	envString(&config.S3Bucket, "S3_BUCKET")
	envString(&config.S3Region, "S3_REGION")
	envString(&config.S3BaseEndpoint, "S3_BASE_ENDPOINT")

	for name, dst := range map[string]*time.Duration{
		"POPULATION_TIMEOUT":   &config.PopulationTimeout,
		"UPSTREAM_TIMEOUT":     &config.UpstreamTimeout,
		"EXPORT_LINK_VALIDITY": &config.ExportLinkValidity,
	} {
		v, ok := lookup(name)
		if !ok {
			continue
		}
		d, err := parseDuration(v)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		*dst = d
	}

	return nil
}

// lookup returns a non-empty, trimmed environment value.
func lookup(name string) (string, bool) {
	v, ok := os.LookupEnv(name)
	v = strings.TrimSpace(v)
	return v, ok && v != ""
}

func envString(dst *string, name string) {
	if v, ok := lookup(name); ok {
		*dst = v
	}
}

// portToAddr turns a bare port such as "3000" into ":3000" and leaves full
// addresses untouched.
func portToAddr(v string) string {
	if strings.Contains(v, ":") {
		return v
	}
	return ":" + v
}
