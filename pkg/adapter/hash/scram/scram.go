// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package scram implements the core scram.Hasher port on top of the
// github.com/xdg-go/scram module. SHA256 is what PostgreSQL expects by
// default; SHA1 is kept for servers configured with older mechanisms.
package scram

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/momeni/fleetflow/pkg/core/scram"
	xdg "github.com/xdg-go/scram"
)

var b64 = base64.StdEncoding

// Mechanism computes verifiers with one hash function.
type Mechanism struct {
	gen     xdg.HashGeneratorFcn
	saltLen int
	prefix  string
}

var _ scram.Hasher = (*Mechanism)(nil)

// SHA1 returns a SCRAM-SHA-1 Mechanism.
func SHA1() *Mechanism {
	return &Mechanism{gen: xdg.SHA1, saltLen: 20, prefix: "SCRAM-SHA-1"}
}

// SHA256 returns a SCRAM-SHA-256 Mechanism.
func SHA256() *Mechanism {
	return &Mechanism{gen: xdg.SHA256, saltLen: 32, prefix: "SCRAM-SHA-256"}
}

// Hash implements scram.Hasher.
func (m *Mechanism) Hash(pass, salt string, iters int) (string, error) {
	if pass == "" {
		return "", errors.New("empty password")
	}
	if iters < scram.MinIterations {
		return "", fmt.Errorf(
			"iterations (%d) is less than %d", iters, scram.MinIterations,
		)
	}
	var raw []byte
	var err error
	if salt == "" {
		raw = make([]byte, m.saltLen)
		if _, err = rand.Read(raw); err != nil {
			return "", fmt.Errorf("random salt: %w", err)
		}
		salt = b64.EncodeToString(raw)
	} else if raw, err = b64.DecodeString(salt); err != nil {
		return "", fmt.Errorf("salt is not base64: %w", err)
	}
	client, err := m.gen.NewClient("", pass, "")
	if err != nil {
		return "", fmt.Errorf("SASLprep of password: %w", err)
	}
	sc := client.WithMinIterations(iters).GetStoredCredentials(
		xdg.KeyFactors{Salt: string(raw), Iters: iters},
	)
	return fmt.Sprintf(
		"%s$%d:%s$%s:%s", m.prefix, iters, salt,
		b64.EncodeToString(sc.StoredKey), b64.EncodeToString(sc.ServerKey),
	), nil
}
