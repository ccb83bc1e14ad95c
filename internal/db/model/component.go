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

package model

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/rackforge/topology/pkg/common/porttypes"
)

// Component is one physical component of a device: a console port, console
// server port, power port, power outlet, network interface, or device bay.
// Names are unique per (device, kind), exact case.
//
// For the asymmetric connection families the dependent side holds the link:
// a console port's PeerID points at a console server port, a power port's
// PeerID at a power outlet. Interface links live in InterfaceConnection.
// Device bays hold their occupant in InstalledDeviceID.
type Component struct {
	bun.BaseModel `bun:"table:component,alias:c"`

	ID                uuid.UUID  `bun:"id,pk,type:uuid,default:gen_random_uuid()"`
	DeviceID          uuid.UUID  `bun:"device_id,type:uuid,notnull,unique:component_device_kind_name_idx"`
	Kind              string     `bun:"kind,type:varchar(24),notnull,unique:component_device_kind_name_idx"`
	Name              string     `bun:"name,notnull,unique:component_device_kind_name_idx"`
	FormFactor        string     `bun:"form_factor,nullzero"`
	MACAddress        string     `bun:"mac_address,nullzero"`
	MgmtOnly          bool       `bun:"mgmt_only,notnull,default:false"`
	PeerID            *uuid.UUID `bun:"peer_id,type:uuid"`
	ConnectionStatus  *string    `bun:"connection_status,type:varchar(16)"`
	InstalledDeviceID *uuid.UUID `bun:"installed_device_id,type:uuid"`
	CreatedAt         time.Time  `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt         time.Time  `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
	Device            *Device    `bun:"rel:belongs-to,join:device_id=id"`
}

// ComponentKind returns the typed kind of the component.
func (cd *Component) ComponentKind() porttypes.ComponentKind {
	return porttypes.ComponentKindFromString(cd.Kind)
}

func (cd *Component) Create(ctx context.Context, idb bun.IDB) error {
	_, err := idb.NewInsert().Model(cd).Exec(ctx)
	return err
}

func (cd *Component) Get(ctx context.Context, idb bun.IDB) (*Component, error) {
	var component Component
	q := idb.NewSelect().Model(&component).Where("c.id = ?", cd.ID)

	if err := q.Scan(ctx); err != nil {
		return nil, err
	}

	return &component, nil
}

func (cd *Component) Patch(ctx context.Context, idb bun.IDB) error {
	_, err := idb.NewUpdate().Model(cd).Where("id = ?", cd.ID).Exec(ctx)
	return err
}

func (cd *Component) Delete(ctx context.Context, idb bun.IDB) error {
	_, err := idb.NewDelete().Model(cd).Where("id = ?", cd.ID).Exec(ctx)
	return err
}

// SetPeer writes the peer reference and status of a dependent-side port.
// Passing nils clears the link.
func (cd *Component) SetPeer(
	ctx context.Context,
	idb bun.IDB,
	peerID *uuid.UUID,
	status *string,
) error {
	_, err := idb.NewUpdate().Model(cd).
		Set("peer_id = ?", peerID).
		Set("connection_status = ?", status).
		Where("id = ?", cd.ID).
		Exec(ctx)
	return err
}

// SetInstalledDevice writes the bay occupant reference. Passing nil clears
// the bay.
func (cd *Component) SetInstalledDevice(
	ctx context.Context,
	idb bun.IDB,
	deviceID *uuid.UUID,
) error {
	_, err := idb.NewUpdate().Model(cd).
		Set("installed_device_id = ?", deviceID).
		Where("id = ?", cd.ID).
		Exec(ctx)
	return err
}

// GetComponentsForDevice returns the device's components of one kind,
// ordered by name.
func GetComponentsForDevice(
	ctx context.Context,
	idb bun.IDB,
	deviceID uuid.UUID,
	kind porttypes.ComponentKind,
) ([]Component, error) {
	var components []Component
	q := idb.NewSelect().Model(&components).
		Where("device_id = ?", deviceID).
		Where("kind = ?", porttypes.ComponentKindToString(kind)).
		Order("name")

	if err := q.Scan(ctx); err != nil {
		return nil, err
	}

	return components, nil
}

// GetComponentReferencing returns the dependent-side port whose peer
// reference points at the given port, or nil when nothing references it.
func GetComponentReferencing(
	ctx context.Context,
	idb bun.IDB,
	peerID uuid.UUID,
) (*Component, error) {
	var components []Component
	q := idb.NewSelect().Model(&components).Where("peer_id = ?", peerID)

	if err := q.Scan(ctx); err != nil {
		return nil, err
	}

	if len(components) == 0 {
		return nil, nil
	}

	return &components[0], nil
}

// GetBayOf returns the device bay a device is installed in, or nil when
// the device occupies no bay.
func GetBayOf(
	ctx context.Context,
	idb bun.IDB,
	deviceID uuid.UUID,
) (*Component, error) {
	var components []Component
	q := idb.NewSelect().Model(&components).
		Where("installed_device_id = ?", deviceID)

	if err := q.Scan(ctx); err != nil {
		return nil, err
	}

	if len(components) == 0 {
		return nil, nil
	}

	return &components[0], nil
}

// GetConnectedDependents returns every dependent-side port of a kind that
// currently holds a peer reference, with owning devices loaded.
func GetConnectedDependents(
	ctx context.Context,
	idb bun.IDB,
	kind porttypes.ComponentKind,
) ([]Component, error) {
	var components []Component
	q := idb.NewSelect().Model(&components).
		Where("kind = ?", porttypes.ComponentKindToString(kind)).
		Where("peer_id IS NOT NULL").
		Relation("Device").
		Order("name")

	if err := q.Scan(ctx); err != nil {
		return nil, err
	}

	return components, nil
}

// GetComponentWithDevice returns a component with its owning device loaded.
func GetComponentWithDevice(
	ctx context.Context,
	idb bun.IDB,
	id uuid.UUID,
) (*Component, error) {
	var component Component
	q := idb.NewSelect().Model(&component).
		Where("c.id = ?", id).
		Relation("Device")

	if err := q.Scan(ctx); err != nil {
		return nil, err
	}

	return &component, nil
}

// CreateComponents inserts a batch of components in one statement. Callers
// are responsible for running it inside a transaction.
func CreateComponents(
	ctx context.Context,
	idb bun.IDB,
	components []Component,
) error {
	if len(components) == 0 {
		return nil
	}

	_, err := idb.NewInsert().Model(&components).Exec(ctx)
	return err
}
