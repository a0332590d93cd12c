// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package settings

import (
	"cmp"
	"fmt"
)

// OutOfRangeError indicates that the Name setting had a Value out of
// its acceptable range. Min or Max is nil if that side is unbounded.
type OutOfRangeError[T cmp.Ordered] struct {
	Name     string
	Value    T
	Min, Max *T
}

func (e *OutOfRangeError[T]) Error() string {
	switch {
	case e.Min != nil && e.Max != nil:
		return fmt.Sprintf(
			"%s (%v) is not in [%v, %v] range",
			e.Name, e.Value, *e.Min, *e.Max,
		)
	case e.Min != nil:
		return fmt.Sprintf("%s (%v) is less than %v", e.Name, e.Value, *e.Min)
	default:
		return fmt.Sprintf(
			"%s (%v) is greater than %v", e.Name, e.Value, *e.Max,
		)
	}
}

// VerifyRange returns nil if value is nil or falls within the minb and
// maxb boundaries. A nil boundary is not checked. If both boundaries
// are given, minb may not be greater than maxb.
func VerifyRange[T cmp.Ordered](name string, value, minb, maxb *T) error {
	if minb != nil && maxb != nil && *minb > *maxb {
		return fmt.Errorf(
			"%s bounds are inverted: %v > %v", name, *minb, *maxb,
		)
	}
	if value == nil {
		return nil
	}
	if (minb != nil && *value < *minb) || (maxb != nil && *value > *maxb) {
		return &OutOfRangeError[T]{
			Name: name, Value: *value, Min: minb, Max: maxb,
		}
	}
	return nil
}

// AtLeast is a VerifyRange with no upper boundary.
func AtLeast[T cmp.Ordered](name string, value *T, minb T) error {
	return VerifyRange(name, value, &minb, nil)
}

// Between is a VerifyRange with constant boundaries.
func Between[T cmp.Ordered](name string, value *T, minb, maxb T) error {
	return VerifyRange(name, value, &minb, &maxb)
}
