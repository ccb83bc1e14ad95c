/*
 * SPDX-FileCopyrightText: Copyright (c) 2026 Rackforge, Inc. All rights reserved.
 * SPDX-License-Identifier: Apache-2.0
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package connection owns the connect/disconnect state machine over
// physical ports. The invariants live in one place, the rules layer:
// connections pair two ports of the same family, every port has at most
// one peer, and both ends of a link change in the same transaction.
package connection

import (
	"github.com/google/uuid"

	"github.com/rackforge/topology/pkg/common/errors"
	"github.com/rackforge/topology/pkg/common/porttypes"
)

// PortView is the snapshot of one port read inside a transaction: its kind
// and whether any link, from either direction of lookup, already claims it.
type PortView struct {
	ID     uuid.UUID
	Kind   porttypes.ComponentKind
	PeerID *uuid.UUID
}

// Connected reports whether the port already has a peer.
func (p PortView) Connected() bool {
	return p.PeerID != nil
}

// CheckConnect validates that ports a and b may be linked. It enforces the
// family pairing (console port to console server port, power port to power
// outlet, interface to interface) and the degree-1 invariant on both ends.
func CheckConnect(a, b PortView) error {
	if err := checkPairing(a, b); err != nil {
		return err
	}

	if a.Connected() {
		return &errors.AlreadyConnectedError{PortID: a.ID, PeerID: *a.PeerID}
	}

	if b.Connected() {
		return &errors.AlreadyConnectedError{PortID: b.ID, PeerID: *b.PeerID}
	}

	return nil
}

func checkPairing(a, b PortView) error {
	mismatch := &errors.TypeMismatchError{
		KindA: a.Kind.String(),
		KindB: b.Kind.String(),
	}

	if a.ID == b.ID {
		return mismatch
	}

	famA, famB := porttypes.FamilyOf(a.Kind), porttypes.FamilyOf(b.Kind)
	if famA == porttypes.PortFamilyNone || famA != famB {
		return mismatch
	}

	// Within an asymmetric family exactly one side must be the dependent
	// kind; two console ports (or two power outlets) do not pair.
	if famA != porttypes.PortFamilyInterface && a.Kind == b.Kind {
		return mismatch
	}

	return nil
}

// Orient returns the dependent-side port first for an asymmetric pair, and
// reports whether the pair belongs to the symmetric interface family.
func Orient(a, b PortView) (dependent, peer PortView, symmetric bool) {
	family := porttypes.FamilyOf(a.Kind)
	if family == porttypes.PortFamilyInterface {
		return a, b, true
	}

	if a.Kind == porttypes.DependentKind(family) {
		return a, b, false
	}

	return b, a, false
}

// CheckDisconnect validates that port p currently has a peer to clear.
func CheckDisconnect(p PortView) error {
	if !p.Connected() {
		return &errors.NotConnectedError{PortID: p.ID}
	}

	return nil
}
