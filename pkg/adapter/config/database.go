// Copyright (c) 2023-2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package config

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/momeni/fleetflow/pkg/adapter/config/settings"
	"github.com/momeni/fleetflow/pkg/adapter/db/postgres"
	"github.com/momeni/fleetflow/pkg/core/log"
	"github.com/momeni/fleetflow/pkg/core/repo"
)

// Database contains the database related configuration settings.
type Database struct {
	Host    string // domain name or IP address of the DBMS server
	Port    int    // port number of the DBMS server
	Name    string // database name, like fleetflow
	PassDir string `yaml:"pass-dir"` // path of the passwords dir

	// SlowThreshold is the minimum duration of queries which are
	// logged as slow queries. A nil value keeps the postgres adapter
	// default.
	SlowThreshold *settings.Duration `yaml:"slow-threshold,omitempty"`
}

// ConnectionPool creates a database connection pool using the
// connection information which are kept in the `d` settings.
// Initially, the .pgpass file in the d.PassDir folder is checked
// which should conform with the pgpass format with lines like this:
//
//	host:port:dbname:role:password
//
// If a database connection could be established, created pool and nil
// error will be returned. Otherwise, passwords might have been rotated
// by an operator which left the new passwords in the .pgpass.new file
// in the same d.PassDir folder. If a connection could be established
// with them, the .pgpass.new will be moved to the .pgpass file.
func (d Database) ConnectionPool(
	ctx context.Context, r repo.Role,
) (*postgres.Pool, error) {
	var opts []postgres.Option
	if d.SlowThreshold != nil {
		opts = append(opts, postgres.WithSlowThreshold(
			time.Duration(*d.SlowThreshold),
		))
	}
	path := filepath.Join(d.PassDir, ".pgpass")
	u, err := d.ConnectionURL(r, path)
	if err != nil {
		return nil, fmt.Errorf("using %q pass-file: %w", path, err)
	}
	p, err := postgres.NewPool(ctx, u, opts...)
	if err == nil {
		return p, nil
	}
	newPath := filepath.Join(d.PassDir, ".pgpass.new")
	log.Warn(
		ctx, "cannot connect with the pass-file, trying the new one",
		log.Err("err", err),
	)
	u, err = d.ConnectionURL(r, newPath)
	if err != nil {
		return nil, fmt.Errorf("using %q pass-file: %w", newPath, err)
	}
	p, err = postgres.NewPool(ctx, u, opts...)
	if err != nil {
		return nil, fmt.Errorf("can use neither pass-file: %w", err)
	}
	if err = os.Rename(newPath, path); err != nil {
		p.Close()
		return nil, fmt.Errorf("os.Rename: %w", err)
	}
	return p, nil
}

// ConnectionURL returns the database connection URL embedding the host,
// port, role name, database name, and password value. These items are
// directly taken from the `d` settings, but the role name which is
// specified by the `r` argument and the password value which is read
// from the given `path` file. Returned URL has the postgresql scheme.
func (d Database) ConnectionURL(
	r repo.Role, path string,
) (string, error) {
	pass, err := d.password(r, path)
	if err != nil {
		return "", err
	}
	u := url.URL{
		Scheme: "postgresql",
		User:   url.UserPassword(string(r), pass),
		Host:   fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:   d.Name,
	}
	return u.String(), nil
}

// Password returns the password of the `r` role from the .pgpass file
// of the PassDir folder.
func (d Database) Password(r repo.Role) (string, error) {
	return d.password(r, filepath.Join(d.PassDir, ".pgpass"))
}

// password reads the `path` file which may contain empty or `#`-commented
// lines in addition to the password specifying lines which should
// conform with the pgpass files format with lines like this:
//
//	host:port:dbname:role:password
func (d Database) password(r repo.Role, path string) (string, error) {
	passLines, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading pass-file: %w", err)
	}
	prfx := fmt.Sprintf("%s:%d:%s:%s:", d.Host, d.Port, d.Name, r)
	for _, line := range strings.Split(string(passLines), "\n") {
		if line == "" || line[0] == '#' {
			continue
		}
		if pass, ok := strings.CutPrefix(line, prfx); ok && pass != "" {
			return pass, nil
		}
	}
	return "", errors.New("no matching password line")
}

// ValidateAndNormalize checks the connection settings.
func (d *Database) ValidateAndNormalize() error {
	var errs []error
	if d.Host == "" {
		errs = append(errs, errors.New("host is empty"))
	}
	errs = append(errs, settings.Between("port", &d.Port, 1, 65535))
	if d.Name == "" {
		errs = append(errs, errors.New("name is empty"))
	}
	if d.SlowThreshold != nil && *d.SlowThreshold <= 0 {
		errs = append(errs, errors.New("slow-threshold is not positive"))
	}
	return errors.Join(errs...)
}

// MarshalledDatabase is the YAML form of Database.
type MarshalledDatabase struct {
	Host          string
	Port          int
	Name          string
	PassDir       string  `yaml:"pass-dir"`
	SlowThreshold *string `yaml:"slow-threshold,omitempty"`
}

// Marshal returns the YAML form of d.
func (d Database) Marshal() *MarshalledDatabase {
	return &MarshalledDatabase{
		Host:          d.Host,
		Port:          d.Port,
		Name:          d.Name,
		PassDir:       d.PassDir,
		SlowThreshold: d.SlowThreshold.Marshal(),
	}
}
