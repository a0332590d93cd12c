// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package tripsuc

import (
	"errors"
	"fmt"
	"time"
)

// These constants bound the number of attempts of a transition which
// keeps losing write-write races.
const (
	MinMaxAttempts = 1
	MaxMaxAttempts = 10
)

// Option is a functional option for the trips use case.
type Option func(uc *UseCase) error

// WithMaxAttempts option limits the number of times that a transition
// transaction may be started when it keeps failing due to concurrent
// transitions. This option may be passed to the New() function.
func WithMaxAttempts(n int) Option {
	return func(uc *UseCase) error {
		if n < MinMaxAttempts || n > MaxMaxAttempts {
			return fmt.Errorf(
				"max attempts (%d) is not in [%d, %d] range",
				n, MinMaxAttempts, MaxMaxAttempts,
			)
		}
		if uc.maxAttempts != 0 {
			return errors.New("max attempts is already configured")
		}
		uc.maxAttempts = n
		return nil
	}
}

// WithClock option replaces the time.Now function which provides the
// evaluation date of driver licenses and the audit log timestamps.
func WithClock(now func() time.Time) Option {
	return func(uc *UseCase) error {
		if now == nil {
			return errors.New("clock is nil")
		}
		if uc.now != nil {
			return errors.New("clock is already configured")
		}
		uc.now = now
		return nil
	}
}

// WithObserver option registers o, so it is notified of every
// finished transition. It may be passed multiple times.
func WithObserver(o Observer) Option {
	return func(uc *UseCase) error {
		if o == nil {
			return errors.New("observer is nil")
		}
		uc.observers = append(uc.observers, o)
		return nil
	}
}
