// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package settings

import (
	"errors"
	"log/slog"
	"strings"
	"time"
)

// Duration is a time.Duration which is read from and written to the
// configuration files in a human-readable form, like 30s or 1h30m.
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler using the
// time.ParseDuration format. The `d` is updated only on success.
func (d *Duration) UnmarshalText(data []byte) error {
	dd, err := time.ParseDuration(string(data))
	if err != nil {
		return err
	}
	*d = Duration(dd)
	return nil
}

// String returns the time.Duration representation of d, like 2h3m4s,
// without its zero trailing units. So, no 0s or 0m0s suffix is added
// unless d is zero itself which is represented as 0s.
func (d Duration) String() string {
	s := time.Duration(d).String()
	if strings.HasSuffix(s, "m0s") {
		s = s[:len(s)-2]
	}
	if strings.HasSuffix(s, "h0m") {
		s = s[:len(s)-2]
	}
	return s
}

// Marshal returns the String representation of d in a newly allocated
// variable, or nil if d is nil. It is used by the Marshal methods of
// the config sections which present their durations as strings.
func (d *Duration) Marshal() *string {
	if d == nil {
		return nil
	}
	s := d.String()
	return &s
}

// MarshalText implements encoding.TextMarshaler interface.
func (d *Duration) MarshalText() ([]byte, error) {
	if s := d.Marshal(); s != nil {
		return []byte(*s), nil
	}
	return nil, errors.New("nil duration")
}

// LogValue implements slog.LogValuer and returns a DurationValue if
// this Duration is not nil, otherwise, it returns a StringValue with
// the constant "nil-duration" value.
func (d *Duration) LogValue() slog.Value {
	if d == nil {
		return slog.StringValue("nil-duration")
	}
	return slog.DurationValue(time.Duration(*d))
}
