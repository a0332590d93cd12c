// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package scram is the port for computing SCRAM password verifiers
// (RFC 5802, RFC 7677). The "db init" command uses a Hasher to set the
// password of the ffweb database role, so that only a verifier and
// never the plaintext reaches the ALTER ROLE statement.
//
// PostgreSQL runs the challenge/response conversation itself when ffweb
// connects, so nothing beyond verifier generation is needed here.
package scram

const (
	// MinIterations is the smallest PBKDF2 iterations count which is
	// accepted by a Hasher.
	MinIterations = 4096

	// RecommendedIterations is the iterations count of RFC 7677 for
	// new SCRAM-SHA-256 verifiers.
	RecommendedIterations = 15000
)

// Hasher computes the stored verifier of a password for one underlying
// hash function.
type Hasher interface {
	// Hash returns the verifier of pass in the format that PostgreSQL
	// stores in pg_authid:
	//
	//	SCRAM-SHA-256$<iters>:<b64 salt>$<b64 StoredKey>:<b64 ServerKey>
	//
	// pass must be non-empty and is normalized with SASLprep. salt is
	// the base64 encoding of the salt bytes, or empty for a random
	// salt. iters must be at least MinIterations.
	Hash(pass, salt string, iters int) (string, error)
}
