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

// Package manager provides the business-logic facade over the topology
// stores. The surrounding service layer calls these contracts with an
// already-authorized caller; no permission model lives here.
package manager

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/rackforge/topology/internal/db/model"
	"github.com/rackforge/topology/internal/export"
	"github.com/rackforge/topology/internal/topology/connection"
	"github.com/rackforge/topology/internal/topology/provision"
	"github.com/rackforge/topology/pkg/common/errors"
	"github.com/rackforge/topology/pkg/common/porttypes"
	"github.com/rackforge/topology/pkg/elevation"
	"github.com/rackforge/topology/pkg/namepattern"
)

// Reader is the read-only inventory surface the facade projects from.
type Reader interface {
	GetRackByID(ctx context.Context, id uuid.UUID) (*model.Rack, error)
	GetRackByName(ctx context.Context, site, name string) (*model.Rack, error)
	GetDevicesForRack(ctx context.Context, rackID uuid.UUID) ([]model.Device, error)
	ListConnections(ctx context.Context, family porttypes.PortFamily) ([]export.ConnectionRow, error)
}

// Store is the full storage surface of the topology subsystem.
type Store interface {
	connection.Store
	provision.Store
	Reader
}

// Manager defines the topology business-logic interface consumed by the
// surrounding web layer.
type Manager interface {
	// Name patterns
	Expand(pattern string) ([]string, error)

	// Provisioning
	Provision(ctx context.Context, req provision.Request) ([]model.Component, error)
	DeleteComponents(ctx context.Context, ids []uuid.UUID) error
	ImportChildDevice(ctx context.Context, device *model.Device, bayID uuid.UUID) error

	// Connection graph
	Connect(ctx context.Context, portA, portB uuid.UUID, status porttypes.ConnectionStatus) error
	Disconnect(ctx context.Context, portID uuid.UUID) error
	Peer(ctx context.Context, portID uuid.UUID) (*connection.Peer, error)
	InstallBay(ctx context.Context, bayID, deviceID uuid.UUID) error
	RemoveBay(ctx context.Context, bayID uuid.UUID) error

	// Elevations
	Elevation(ctx context.Context, rackID uuid.UUID, face elevation.Face) (elevation.Rack, []elevation.Unit, error)
	AvailableUnits(ctx context.Context, rackID uuid.UUID, height int, face elevation.Face) ([]int, error)

	// Exports
	ExportConnections(ctx context.Context, family porttypes.PortFamily, path string) error
	ExportElevation(ctx context.Context, rackID uuid.UUID, face elevation.Face, path string) error
}

// ManagerImpl implements the Manager interface over a Store.
type ManagerImpl struct {
	store Store
}

// New creates a new topology manager with the given store.
func New(store Store) *ManagerImpl {
	return &ManagerImpl{store: store}
}

// Expand expands a name pattern into its ordered name list.
func (m *ManagerImpl) Expand(pattern string) ([]string, error) {
	return namepattern.Expand(pattern)
}

// Provision creates a batch of components, all-or-nothing.
func (m *ManagerImpl) Provision(
	ctx context.Context,
	req provision.Request,
) ([]model.Component, error) {
	created, err := m.store.Provision(ctx, req)
	if err != nil {
		return nil, err
	}

	log.Info().
		Int("count", len(created)).
		Str("kind", req.Kind.String()).
		Str("pattern", req.NamePattern).
		Msg("Provisioned components")

	return created, nil
}

// DeleteComponents removes components, clearing peers atomically.
func (m *ManagerImpl) DeleteComponents(ctx context.Context, ids []uuid.UUID) error {
	return m.store.DeleteComponents(ctx, ids)
}

// ImportChildDevice creates a child device installed in a parent bay.
func (m *ManagerImpl) ImportChildDevice(
	ctx context.Context,
	device *model.Device,
	bayID uuid.UUID,
) error {
	return m.store.ImportChildDevice(ctx, device, bayID)
}

// Connect links two ports of the same family.
func (m *ManagerImpl) Connect(
	ctx context.Context,
	portA, portB uuid.UUID,
	status porttypes.ConnectionStatus,
) error {
	return m.store.Connect(ctx, portA, portB, status)
}

// Disconnect clears a port's link from either side.
func (m *ManagerImpl) Disconnect(ctx context.Context, portID uuid.UUID) error {
	return m.store.Disconnect(ctx, portID)
}

// Peer returns the link a port participates in, or nil when unconnected.
func (m *ManagerImpl) Peer(ctx context.Context, portID uuid.UUID) (*connection.Peer, error) {
	return m.store.Peer(ctx, portID)
}

// InstallBay installs a device into a bay with rack inheritance.
func (m *ManagerImpl) InstallBay(ctx context.Context, bayID, deviceID uuid.UUID) error {
	return m.store.InstallBay(ctx, bayID, deviceID)
}

// RemoveBay clears a bay's occupant without un-racking it.
func (m *ManagerImpl) RemoveBay(ctx context.Context, bayID uuid.UUID) error {
	return m.store.RemoveBay(ctx, bayID)
}

// Elevation renders one face of a rack from its declared placements.
func (m *ManagerImpl) Elevation(
	ctx context.Context,
	rackID uuid.UUID,
	face elevation.Face,
) (elevation.Rack, []elevation.Unit, error) {
	rack, devices, err := m.loadRack(ctx, rackID)
	if err != nil {
		return elevation.Rack{}, nil, err
	}

	units, err := elevation.Build(rack, devices, face)
	if err != nil {
		return elevation.Rack{}, nil, err
	}

	return rack, units, nil
}

// AvailableUnits returns the positions where a device of the given height
// fits on the given face.
func (m *ManagerImpl) AvailableUnits(
	ctx context.Context,
	rackID uuid.UUID,
	height int,
	face elevation.Face,
) ([]int, error) {
	rack, devices, err := m.loadRack(ctx, rackID)
	if err != nil {
		return nil, err
	}

	return elevation.Available(rack, devices, height, face)
}

func (m *ManagerImpl) loadRack(
	ctx context.Context,
	rackID uuid.UUID,
) (elevation.Rack, []elevation.Device, error) {
	rack, err := m.store.GetRackByID(ctx, rackID)
	if err != nil {
		return elevation.Rack{}, nil, err
	}

	devices, err := m.store.GetDevicesForRack(ctx, rackID)
	if err != nil {
		return elevation.Rack{}, nil, err
	}

	views := make([]elevation.Device, 0, len(devices))
	for i := range devices {
		views = append(views, devices[i].ElevationView())
	}

	return rack.ElevationView(), views, nil
}

// ExportConnections writes the declared connection list of one family to
// an xlsx file.
func (m *ManagerImpl) ExportConnections(
	ctx context.Context,
	family porttypes.PortFamily,
	path string,
) error {
	rows, err := m.store.ListConnections(ctx, family)
	if err != nil {
		return err
	}

	if err := export.Connections(rows, family.String()+" Connections", path); err != nil {
		return errors.NewStorageError("export connections", err)
	}

	log.Info().
		Int("count", len(rows)).
		Str("family", family.String()).
		Str("path", path).
		Msg("Exported connections")

	return nil
}

// ExportElevation writes one rack face's elevation to an xlsx file.
func (m *ManagerImpl) ExportElevation(
	ctx context.Context,
	rackID uuid.UUID,
	face elevation.Face,
	path string,
) error {
	rack, units, err := m.Elevation(ctx, rackID, face)
	if err != nil {
		return err
	}

	if err := export.Elevation(rack, units, face, path); err != nil {
		return errors.NewStorageError("export elevation", err)
	}

	return nil
}
