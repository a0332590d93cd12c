// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package vers parses the versions block of a configuration file before
// the rest of it, so an unsupported file is rejected with a version
// error instead of a confusing field error.
package vers

import (
	"fmt"

	"github.com/momeni/fleetflow/pkg/core/cerr"
	"github.com/momeni/fleetflow/pkg/core/model"
	"gopkg.in/yaml.v3"
)

// Config may be embedded inline in a configuration struct in order to
// carry the versions block.
type Config struct {
	Versions Versions `yaml:"versions"`
}

// Versions contains the configuration file and database schema versions.
type Versions struct {
	Database model.SemVer `yaml:"database"`
	Config   model.SemVer `yaml:"config"`
}

// Marshalled is the YAML form of Config. The yaml.v3 encoder only asks
// the top level value for a MarshalYAML replacement, so each nested
// section provides a Marshalled form of its own.
type Marshalled struct {
	Versions struct {
		Database string
		Config   string
	}
}

// Marshal creates a Marshalled instance representing vc.
func (vc *Config) Marshal() *Marshalled {
	m := &Marshalled{}
	m.Versions.Database = vc.Versions.Database.String()
	m.Versions.Config = vc.Versions.Config.String()
	return m
}

// Load deserializes the versions block of data, ignoring other fields.
func Load(data []byte) (*Config, error) {
	vc := &Config{}
	if err := yaml.Unmarshal(data, vc); err != nil {
		return nil, err
	}
	return vc, nil
}

// Check returns an error unless the config file version is supported
// by the cfg format and the database schema version equals db.
// The returned errors wrap a *cerr.MismatchingSemVerError.
func (vc *Config) Check(cfg, db model.SemVer) error {
	if v := vc.Versions.Config; !cfg.Supports(v) {
		return fmt.Errorf(
			"unsupported config version: %w",
			&cerr.MismatchingSemVerError{cfg, v},
		)
	}
	if v := vc.Versions.Database; v != db {
		return fmt.Errorf(
			"unexpected database schema version: %w",
			&cerr.MismatchingSemVerError{db, v},
		)
	}
	return nil
}
