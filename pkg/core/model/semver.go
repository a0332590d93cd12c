// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model

import (
	"fmt"
	"strconv"
	"strings"
)

// SemVer is a major.minor.patch semantic version. It tags the formats
// of the configuration file and the database schema, so a binary can
// refuse the formats which it does not understand.
type SemVer [3]uint

// ParseSemVer parses s which may omit its trailing components, so "1"
// and "1.2" are equivalent to "1.0.0" and "1.2.0" respectively.
func ParseSemVer(s string) (SemVer, error) {
	var sv SemVer
	p := strings.Split(s, ".")
	if s == "" || len(p) > 3 {
		return sv, fmt.Errorf("the %q has wrong number of components", s)
	}
	for i, c := range p {
		n, err := strconv.ParseUint(c, 10, 32)
		if err != nil {
			return sv, fmt.Errorf("the %q component is not numeric", c)
		}
		sv[i] = uint(n)
	}
	return sv, nil
}

// UnmarshalText implements encoding.TextUnmarshaler using ParseSemVer.
// In case of errors, sv will be left unchanged.
func (sv *SemVer) UnmarshalText(text []byte) error {
	v, err := ParseSemVer(string(text))
	if err != nil {
		return err
	}
	*sv = v
	return nil
}

// MarshalText implements encoding.TextMarshaler interface.
func (sv SemVer) MarshalText() ([]byte, error) {
	return []byte(sv.String()), nil
}

func (sv SemVer) String() string {
	return fmt.Sprintf("%d.%d.%d", sv[0], sv[1], sv[2])
}

// Supports reports whether a reader of the sv format can read the v
// format. The major versions must match and v may not be newer than sv
// in its minor component. Patch versions never affect the format.
func (sv SemVer) Supports(v SemVer) bool {
	return sv[0] == v[0] && v[1] <= sv[1]
}
