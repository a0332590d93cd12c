// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/momeni/fleetflow/pkg/adapter/config/settings"
	"github.com/momeni/fleetflow/pkg/adapter/restful/gin"
	"github.com/momeni/fleetflow/pkg/adapter/restful/gin/authn"
	"github.com/momeni/fleetflow/pkg/core/usecase/tripsuc"
)

// Gin contains the gin-gonic related configuration settings.
// Fields are defined as pointers, so it is possible to detect if they
// are or are not initialized.
type Gin struct {
	Logger   *bool // Whether to register the gin.Logger() middleware
	Recovery *bool // Whether to register the gin.Recovery() middleware
}

// NewEngine instantiates a new gin-gonic engine instance based on
// the `g` settings. Request identifiers are always assigned.
func (g Gin) NewEngine() *gin.Engine {
	middlewares := make([]gin.HandlerFunc, 0, 3)
	middlewares = append(middlewares, gin.RequestID())
	if *g.Logger {
		middlewares = append(middlewares, gin.Logger())
	}
	if *g.Recovery {
		middlewares = append(middlewares, gin.Recovery())
	}
	return gin.New(middlewares...)
}

// Auth contains the bearer token verification settings.
type Auth struct {
	// JWTSecretFile is the path of a file which holds the HS256
	// secret. Surrounding white spaces are ignored. The FFWEB_JWT_SECRET
	// environment variable takes precedence over this file.
	JWTSecretFile string `yaml:"jwt-secret-file"`

	// Leeway is the tolerated clock skew when the exp, nbf, and iat
	// claims are verified. A nil value means no leeway.
	Leeway *settings.Duration `yaml:",omitempty"`
}

// ValidateAndNormalize checks the auth settings.
func (a *Auth) ValidateAndNormalize() error {
	return settings.AtLeast("leeway", a.Leeway, 0)
}

// Secret returns the HS256 secret from the FFWEB_JWT_SECRET
// environment variable or the JWTSecretFile file.
func (a Auth) Secret() ([]byte, error) {
	if s := os.Getenv(EnvJWTSecret); s != "" {
		return []byte(s), nil
	}
	if a.JWTSecretFile == "" {
		return nil, fmt.Errorf(
			"neither %s nor jwt-secret-file is set", EnvJWTSecret,
		)
	}
	b, err := os.ReadFile(a.JWTSecretFile)
	if err != nil {
		return nil, fmt.Errorf("reading jwt-secret-file: %w", err)
	}
	return bytes.TrimSpace(b), nil
}

// NewAuthenticator instantiates a bearer token authenticator based on
// the `a` settings.
func (a Auth) NewAuthenticator() (*authn.Authenticator, error) {
	secret, err := a.Secret()
	if err != nil {
		return nil, err
	}
	var leeway time.Duration
	if a.Leeway != nil {
		leeway = time.Duration(*a.Leeway)
	}
	return authn.New(secret, leeway)
}

// MarshalledAuth is the YAML form of Auth.
type MarshalledAuth struct {
	JWTSecretFile string  `yaml:"jwt-secret-file"`
	Leeway        *string `yaml:",omitempty"`
}

// Marshal returns the YAML form of a.
func (a Auth) Marshal() *MarshalledAuth {
	return &MarshalledAuth{
		JWTSecretFile: a.JWTSecretFile,
		Leeway:        a.Leeway.Marshal(),
	}
}

// Usecases contains the configuration settings for all use cases.
type Usecases struct {
	Trips       Trips       // trip workflow settings
	Maintenance Maintenance // maintenance lifecycle settings
	Finance     Finance     // financial aggregation settings
}

// Trips contains the configuration settings of the trips use case.
// The MaxAttempts bounds the number of transaction attempts of one
// transition. It is verified to be in the [MinMaxAttempts,
// MaxMaxAttempts] range when those optional bounds are given, and in
// any case it must be accepted by the trips use case itself.
type Trips struct {
	MaxAttempts    *int `yaml:"max-attempts,omitempty"`
	MinMaxAttempts *int `yaml:"max-attempts-minimum,omitempty"`
	MaxMaxAttempts *int `yaml:"max-attempts-maximum,omitempty"`
}

// Maintenance contains the configuration settings of the maintenance
// use case.
type Maintenance struct {
	MaxAttempts *int `yaml:"max-attempts,omitempty"`
}

// Finance contains the configuration settings of the finance use case.
type Finance struct {
	// TopCostVehicles is the length of the top cost vehicles list.
	TopCostVehicles *int `yaml:"top-cost-vehicles,omitempty"`

	// Location is the IANA time zone name which calendar months are
	// computed in, like UTC or Asia/Tehran. The process dependent
	// "Local" zone is not accepted.
	Location string `yaml:",omitempty"`

	loc *time.Location
}

// ValidateAndNormalize checks the use cases settings. Out of range
// values are reported as errors.
func (u *Usecases) ValidateAndNormalize() error {
	t := &u.Trips
	err := errors.Join(
		settings.VerifyRange(
			"trips max-attempts",
			t.MaxAttempts, t.MinMaxAttempts, t.MaxMaxAttempts,
		),
		settings.Between(
			"trips max-attempts", t.MaxAttempts,
			tripsuc.MinMaxAttempts, tripsuc.MaxMaxAttempts,
		),
		settings.AtLeast(
			"maintenance max-attempts", u.Maintenance.MaxAttempts, 1,
		),
	)
	if err != nil {
		return err
	}
	return u.Finance.ValidateAndNormalize()
}

// ValidateAndNormalize checks the finance settings and loads the
// time zone of its Location.
func (f *Finance) ValidateAndNormalize() error {
	if err := settings.AtLeast(
		"top-cost-vehicles", f.TopCostVehicles, 1,
	); err != nil {
		return err
	}
	switch f.Location {
	case "":
		f.loc = nil
		return nil
	case "Local":
		return errors.New("the Local location is not portable")
	}
	loc, err := time.LoadLocation(f.Location)
	if err != nil {
		return fmt.Errorf("loading location: %w", err)
	}
	f.loc = loc
	return nil
}

// MarshalledUsecases is the YAML form of Usecases.
type MarshalledUsecases struct {
	Trips       Trips
	Maintenance Maintenance
	Finance     struct {
		TopCostVehicles *int   `yaml:"top-cost-vehicles,omitempty"`
		Location        string `yaml:",omitempty"`
	}
}

// Marshal returns the YAML form of u.
func (u Usecases) Marshal() *MarshalledUsecases {
	m := &MarshalledUsecases{
		Trips:       u.Trips,
		Maintenance: u.Maintenance,
	}
	m.Finance.TopCostVehicles = u.Finance.TopCostVehicles
	m.Finance.Location = u.Finance.Location
	return m
}
