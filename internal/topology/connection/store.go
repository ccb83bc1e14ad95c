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

package connection

import (
	"context"

	"github.com/google/uuid"

	"github.com/rackforge/topology/pkg/common/porttypes"
)

// Peer describes the link a port participates in, seen from that port.
type Peer struct {
	PortID uuid.UUID
	PeerID uuid.UUID
	Family porttypes.PortFamily
	Status porttypes.ConnectionStatus
}

// Store executes connection-graph mutations against the record store. Every
// mutation is one atomic transaction: a half-connected or half-cleared pair
// is never an observable state.
type Store interface {
	// Connect links two ports of the same family with the given status.
	Connect(ctx context.Context, portA, portB uuid.UUID, status porttypes.ConnectionStatus) error

	// Disconnect clears the link the port participates in, from either
	// side, on both ends at once.
	Disconnect(ctx context.Context, portID uuid.UUID) error

	// Peer returns the link the port participates in, or nil when the
	// port is unconnected. Read-only, point-in-time.
	Peer(ctx context.Context, portID uuid.UUID) (*Peer, error)

	// InstallBay installs a child device into a device bay and overwrites
	// the child's rack from the bay's parent device.
	InstallBay(ctx context.Context, bayID, deviceID uuid.UUID) error

	// RemoveBay clears the bay's occupant. The removed device keeps its
	// rack reference.
	RemoveBay(ctx context.Context, bayID uuid.UUID) error
}
