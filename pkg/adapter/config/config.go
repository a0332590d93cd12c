// Copyright (c) 2023-2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package config is an adapter which accepts yaml formatted config
// files from its users and allows the ffweb to instantiate different
// components, from the adapter or use cases layers, using those loaded
// configuration settings.
// The parsed and validated configurations are passed to their
// ultimate components as a series of individual params (for the
// mandatory items) and a series of functional options (for the
// optional items), so each component keeps validating its own inputs.
//
// Settings which are not given in the configuration file are left nil
// whenever the use cases layer has a default for them, so the defaults
// are kept in one place.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/momeni/fleetflow/pkg/adapter/config/settings"
	"github.com/momeni/fleetflow/pkg/adapter/config/vers"
	"github.com/momeni/fleetflow/pkg/adapter/db/postgres"
	"github.com/momeni/fleetflow/pkg/core/model"
	"gopkg.in/yaml.v3"
)

// These constants specify the version of the configuration file
// format which is supported by this package.
const (
	Major = 1
	Minor = 0
	Patch = 0
)

// Version is the semantic version of the supported config format.
var Version = model.SemVer{Major, Minor, Patch}

// DefaultPath is the configuration file which is used if neither the
// command line nor the CONFIG_FILE environment variable name a file.
const DefaultPath = "configs/sample-config.yaml"

// Environment variables which may override the configuration file.
// They may also be given in a .env file in the working directory.
const (
	EnvConfigFile    = "CONFIG_FILE"
	EnvDatabaseHost  = "FFWEB_DB_HOST"
	EnvDatabasePort  = "FFWEB_DB_PORT"
	EnvJWTSecret     = "FFWEB_JWT_SECRET"
	EnvJWTSecretFile = "FFWEB_JWT_SECRET_FILE"
)

// Config is the root of all configuration settings. It is loaded
// from a YAML file and implements the appuc.Builder interface.
type Config struct {
	Database Database // PostgreSQL database connection settings
	Gin      Gin      // Gin-Gonic instantiation settings
	Auth     Auth     // Bearer token verification settings
	Usecases Usecases // Configuration settings for supported use cases

	// Vers contains the configuration file and database schema version
	// strings corresponding to this Config instance and its Database
	// target.
	Vers vers.Config `yaml:",inline"`
}

// LoadEnv loads the environment variables from the given dotenv
// files, defaulting to .env in the working directory. Missing files
// are ignored and variables which are set already are not overridden.
func LoadEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		err := godotenv.Load(f)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("loading %q: %w", f, err)
		}
	}
	return nil
}

// ResolvePath returns the configuration file path. The explicit path
// argument takes precedence over the CONFIG_FILE environment variable
// and both take precedence over the DefaultPath.
func ResolvePath(path string) string {
	if path != "" {
		return path
	}
	if p := os.Getenv(EnvConfigFile); p != "" {
		return p
	}
	return DefaultPath
}

// Load function loads, validates, and normalizes the configuration
// file and returns its settings as an instance of the Config struct.
// Given path must belong to a configuration file which conforms with
// the latest known configuration settings format.
// The corresponding database schema version must also match with the
// latest known database schema version.
// Environment variables override the file contents, so LoadEnv should
// be called beforehand if a .env file has to be considered.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, err
	}
	if err = c.applyEnv(); err != nil {
		return nil, fmt.Errorf("applying environment variables: %w", err)
	}
	return c, nil
}

// Parse unmarshals the data byte slice and loads a Config instance
// after checking its versions. Extra items in the data will be ignored
// and missing items will take their default values. Thereafter, loaded
// Config will be validated and normalized in order to ensure that
// provided settings are acceptable.
func Parse(data []byte) (*Config, error) {
	v, err := vers.Load(data)
	if err != nil {
		return nil, fmt.Errorf("loading versions: %w", err)
	}
	if err = v.Check(Version, postgres.Version); err != nil {
		return nil, err
	}
	c := &Config{}
	if err := yaml.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("unmarshalling yaml: %w", err)
	}
	if err := c.ValidateAndNormalize(); err != nil {
		return nil, fmt.Errorf("validating configs: %w", err)
	}
	return c, nil
}

func (c *Config) applyEnv() error {
	if h := os.Getenv(EnvDatabaseHost); h != "" {
		c.Database.Host = h
	}
	if p := os.Getenv(EnvDatabasePort); p != "" {
		port, err := strconv.Atoi(p)
		if err != nil {
			return fmt.Errorf("parsing %s: %w", EnvDatabasePort, err)
		}
		c.Database.Port = port
	}
	if f := os.Getenv(EnvJWTSecretFile); f != "" {
		c.Auth.JWTSecretFile = f
	}
	return c.ValidateAndNormalize()
}

// ValidateAndNormalize validates the configuration settings and
// returns an error if they were not acceptable. It can also modify
// settings in order to normalize them or replace some zero values with
// their expected default values (if any).
func (c *Config) ValidateAndNormalize() error {
	settings.Nil2Zero(&c.Gin.Logger)
	settings.Nil2Zero(&c.Gin.Recovery)
	if err := c.Database.ValidateAndNormalize(); err != nil {
		return fmt.Errorf("validating database settings: %w", err)
	}
	if err := c.Auth.ValidateAndNormalize(); err != nil {
		return fmt.Errorf("validating auth settings: %w", err)
	}
	if err := c.Usecases.ValidateAndNormalize(); err != nil {
		return fmt.Errorf("validating usecases settings: %w", err)
	}
	return nil
}

// Marshalled struct contains a field for each one of the Config struct
// fields. The types of those fields are the same if their default
// serialization format is acceptable, otherwise, they are serialized
// manually using the Marshal method and their target primitive types
// are used in the Marshalled struct.
type Marshalled struct {
	Database *MarshalledDatabase
	Gin      Gin
	Auth     *MarshalledAuth
	Usecases *MarshalledUsecases
	Vers     *vers.Marshalled `yaml:",inline"`
}

// MarshalYAML implements yaml.Marshaler and encodes the Marshalled
// form of c instead of c itself.
func (c *Config) MarshalYAML() (interface{}, error) {
	return c.Marshal(), nil
}

// Marshal creates an instance of the Marshalled struct and fills it
// with the `c` Config instance contents. Fields which are defined in
// this package are replaced by their Marshal results recursively.
func (c *Config) Marshal() *Marshalled {
	return &Marshalled{
		Database: c.Database.Marshal(),
		Gin:      c.Gin,
		Auth:     c.Auth.Marshal(),
		Usecases: c.Usecases.Marshal(),
		Vers:     c.Vers.Marshal(),
	}
}
