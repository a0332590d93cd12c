// Copyright (c) 2023 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package repo

// Tx represents a READ-COMMITTED database transaction. It is unsafe to
// be used concurrently. The Lock methods of the repositories take row
// locks which are held until the end of the transaction, so a check
// and the update which depends on it observe the same row. Locks must
// be taken in the trip, vehicle, driver order in order to avoid
// deadlocks between concurrent transitions.
type Tx interface {
	Queryer

	// IsTx method prevents a non-Tx object (such as a Conn) to
	// mistakenly implement the Tx interface.
	IsTx()
}
