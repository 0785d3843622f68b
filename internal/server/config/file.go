package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dmitrijs2005/holidaycal/internal/flagx"
)

// FileConfig is the on-disk shape of the configuration. Empty fields leave
// the current value alone.
type FileConfig struct {
	HTTPAddr           string   `json:"http_addr" yaml:"http_addr"`
	GRPCAddr           *string  `json:"grpc_addr" yaml:"grpc_addr"`
	DateNagerAPIURL    string   `json:"date_nager_api_url" yaml:"date_nager_api_url"`
	CountriesNowAPIURL string   `json:"countries_now_api_url" yaml:"countries_now_api_url"`
	DatabaseDSN        string   `json:"database_dsn" yaml:"database_dsn"`
	MongoURI           string   `json:"mongodb_uri" yaml:"mongodb_uri"`
	MongoDatabase      string   `json:"mongodb_database" yaml:"mongodb_database"`
	PopulationTimeout  Duration `json:"population_timeout" yaml:"population_timeout"`
	UpstreamTimeout    Duration `json:"upstream_timeout" yaml:"upstream_timeout"`
	LogLevel           string   `json:"log_level" yaml:"log_level"`
	S3RootUser         string   `json:"s3_root_user" yaml:"s3_root_user"`
	S3RootPassword     string   `json:"s3_root_password" yaml:"s3_root_password"`
	S3Bucket           string   `json:"s3_bucket" yaml:"s3_bucket"`
	S3Region           string   `json:"s3_region" yaml:"s3_region"`
	S3BaseEndpoint     string   `json:"s3_base_endpoint" yaml:"s3_base_endpoint"`
	ExportLinkValidity Duration `json:"export_link_validity" yaml:"export_link_validity"`
}

// parseFile overlays the file named by -c/-config. The format follows the
// extension: .yaml and .yml are YAML, anything else is JSON.
func parseFile(config *Config, args []string) error {
	path := flagx.ConfigFileFlag(args)

	// nothing to load
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	c := &FileConfig{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, c)
	default:
		err = json.Unmarshal(data, c)
	}
	if err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	c.apply(config)
	return nil
}

func (c *FileConfig) apply(config *Config) {
	setString(&config.HTTPAddr, c.HTTPAddr)
	if c.GRPCAddr != nil {
		config.GRPCAddr = *c.GRPCAddr
	}
	setString(&config.DateNagerAPIURL, c.DateNagerAPIURL)
	setString(&config.CountriesNowAPIURL, c.CountriesNowAPIURL)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.MongoURI, c.MongoURI)
	setString(&config.MongoDatabase, c.MongoDatabase)
	setDuration(&config.PopulationTimeout, c.PopulationTimeout)
	setDuration(&config.UpstreamTimeout, c.UpstreamTimeout)
	setString(&config.LogLevel, c.LogLevel)
	setString(&config.S3RootUser, c.S3RootUser)
	setString(&config.S3RootPassword, c.S3RootPassword)
	setString(&config.S3Bucket, c.S3Bucket)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)
	setDuration(&config.ExportLinkValidity, c.ExportLinkValidity)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setDuration(dst *time.Duration, v Duration) {
	if v.Set {
		*dst = v.Duration
	}
}
