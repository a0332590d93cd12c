// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package log

import (
	"log/slog"

	"github.com/google/uuid"
)

// Valuer returns an Attr which is resolved by value.LogValue.
func Valuer(key string, value slog.LogValuer) slog.Attr {
	return slog.Any(key, value)
}

// Err returns a string Attr holding value.Error(), or "no-error" for
// a nil value.
func Err(key string, value error) slog.Attr {
	if value == nil {
		return slog.String(key, "no-error")
	}
	return slog.String(key, value.Error())
}

// UUID returns a string Attr in the canonical 8-4-4-4-12 form.
func UUID(key string, value uuid.UUID) slog.Attr {
	return slog.String(key, value.String())
}

// Stringer returns an Attr for the given fmt.Stringer value. It is
// resolved lazily, so it costs nothing when the level is disabled.
func Stringer(key string, value interface{ String() string }) slog.Attr {
	return slog.Any(key, stringerValuer{value})
}

type stringerValuer struct {
	s interface{ String() string }
}

func (sv stringerValuer) LogValue() slog.Value {
	return slog.StringValue(sv.s.String())
}
