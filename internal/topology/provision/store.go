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

package provision

import (
	"context"

	"github.com/google/uuid"

	"github.com/rackforge/topology/internal/db/model"
)

// Store executes provisioning batches against the record store. Every
// batch is one atomic transaction: zero components persist when any
// candidate fails validation.
type Store interface {
	// Provision expands the request's pattern, validates every candidate
	// against the target devices, and commits all-or-nothing. Created
	// components come back in device-major, pattern-minor order.
	Provision(ctx context.Context, req Request) ([]model.Component, error)

	// DeleteComponents removes components and clears the connection state
	// of any peer in the same transaction, so no dangling half-link ever
	// persists.
	DeleteComponents(ctx context.Context, ids []uuid.UUID) error

	// ImportChildDevice creates a child device declared with a parent bay:
	// the device is created, its rack overwritten from the bay's parent
	// device, and the bay's occupant reference set, as one transaction.
	ImportChildDevice(ctx context.Context, device *model.Device, bayID uuid.UUID) error
}
