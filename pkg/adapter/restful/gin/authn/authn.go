// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package authn authenticates the REST API callers. Each request must
// carry an HS256 signed JWT as its bearer token. The token subject is
// the actor identity and its role claim is one of the model.Role wire
// names. The optional driver_id claim links the actor with a driver
// record. Middleware stores the resulting model.Actor in the gin
// context, so resource packages can obtain it with ActorOf and pass it
// explicitly to the use cases.
package authn

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/momeni/fleetflow/pkg/adapter/restful/gin/serdser"
	"github.com/momeni/fleetflow/pkg/core/cerr"
	"github.com/momeni/fleetflow/pkg/core/model"
)

const actorKey = "fleetflow/actor"

// Claims lists the JWT claims which are understood by Authenticator.
type Claims struct {
	Role     string `json:"role"`
	DriverID string `json:"driver_id,omitempty"`
	jwt.RegisteredClaims
}

// Authenticator verifies bearer tokens with a shared HS256 secret.
type Authenticator struct {
	secret []byte
	leeway time.Duration
}

// New instantiates an Authenticator. The secret must not be empty and
// the leeway, which is tolerated for the exp/nbf/iat claims, must not
// be negative.
func New(secret []byte, leeway time.Duration) (*Authenticator, error) {
	if len(secret) == 0 {
		return nil, errors.New("jwt secret is empty")
	}
	if leeway < 0 {
		return nil, fmt.Errorf("leeway (%v) is negative", leeway)
	}
	return &Authenticator{secret: secret, leeway: leeway}, nil
}

// Sign creates a token for the a actor which expires after ttl.
// It is used by the CLI to issue development tokens and by tests.
func (auth *Authenticator) Sign(a model.Actor, ttl time.Duration) (string, error) {
	role, err := a.Role.MarshalText()
	if err != nil {
		return "", err
	}
	now := time.Now()
	c := Claims{
		Role: string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   a.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	if a.DriverID != nil {
		c.DriverID = a.DriverID.String()
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	return t.SignedString(auth.secret)
}

// Parse verifies the token signature and time based claims and
// converts its claims into an actor.
func (auth *Authenticator) Parse(token string) (*model.Actor, error) {
	var c Claims
	_, err := jwt.ParseWithClaims(
		token, &c,
		func(*jwt.Token) (any, error) { return auth.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithLeeway(auth.leeway),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, err
	}
	a := &model.Actor{}
	if a.ID, err = uuid.Parse(c.Subject); err != nil {
		return nil, fmt.Errorf("parsing sub claim: %w", err)
	}
	if err = a.Role.UnmarshalText([]byte(c.Role)); err != nil {
		return nil, fmt.Errorf("parsing role claim: %w", err)
	}
	if c.DriverID != "" {
		did, err := uuid.Parse(c.DriverID)
		if err != nil {
			return nil, fmt.Errorf("parsing driver_id claim: %w", err)
		}
		a.DriverID = &did
	}
	return a, nil
}

// Middleware rejects requests without a valid bearer token with
// a 401 status code and stores the authenticated actor otherwise.
func (auth *Authenticator) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(h, "Bearer ")
		if !ok || token == "" {
			serdser.SerErr(c, cerr.Authentication(
				errors.New("bearer token is missing"),
			))
			c.Abort()
			return
		}
		a, err := auth.Parse(token)
		if err != nil {
			serdser.SerErr(c, cerr.Authentication(err))
			c.Abort()
			return
		}
		c.Set(actorKey, *a)
		c.Next()
	}
}

// ActorOf returns the actor which was stored by Middleware. It panics
// if c was not passed through Middleware.
func ActorOf(c *gin.Context) model.Actor {
	return c.MustGet(actorKey).(model.Actor)
}

// Require aborts requests whose actor role is not among roles with
// a 403 status code.
func Require(roles ...model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		a := ActorOf(c)
		if !a.Role.In(roles...) {
			serdser.SerErr(c, cerr.Unauthorized(fmt.Errorf(
				"role %s may not call %s %s",
				a.Role, c.Request.Method, c.FullPath(),
			)))
			c.Abort()
			return
		}
		c.Next()
	}
}
