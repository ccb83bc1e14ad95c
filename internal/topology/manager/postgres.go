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

package manager

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/rackforge/topology/internal/db/model"
	"github.com/rackforge/topology/internal/db/postgres"
	"github.com/rackforge/topology/internal/export"
	"github.com/rackforge/topology/internal/topology/connection"
	"github.com/rackforge/topology/internal/topology/provision"
	"github.com/rackforge/topology/pkg/common/errors"
	"github.com/rackforge/topology/pkg/common/porttypes"
)

// PostgresStore implements the Store interface using PostgreSQL. The
// mutating surfaces are delegated to the per-concern stores; the reader
// queries live here.
type PostgresStore struct {
	conn *connection.PostgresStore
	prov *provision.PostgresStore
	pg   *postgres.Postgres
}

// NewPostgres creates a new PostgreSQL-backed topology store.
func NewPostgres(pg *postgres.Postgres) *PostgresStore {
	return &PostgresStore{
		conn: connection.NewPostgres(pg),
		prov: provision.NewPostgres(pg),
		pg:   pg,
	}
}

func (s *PostgresStore) Connect(
	ctx context.Context,
	portA uuid.UUID,
	portB uuid.UUID,
	status porttypes.ConnectionStatus,
) error {
	return s.conn.Connect(ctx, portA, portB, status)
}

func (s *PostgresStore) Disconnect(ctx context.Context, portID uuid.UUID) error {
	return s.conn.Disconnect(ctx, portID)
}

func (s *PostgresStore) Peer(
	ctx context.Context,
	portID uuid.UUID,
) (*connection.Peer, error) {
	return s.conn.Peer(ctx, portID)
}

func (s *PostgresStore) InstallBay(ctx context.Context, bayID, deviceID uuid.UUID) error {
	return s.conn.InstallBay(ctx, bayID, deviceID)
}

func (s *PostgresStore) RemoveBay(ctx context.Context, bayID uuid.UUID) error {
	return s.conn.RemoveBay(ctx, bayID)
}

func (s *PostgresStore) Provision(
	ctx context.Context,
	req provision.Request,
) ([]model.Component, error) {
	return s.prov.Provision(ctx, req)
}

func (s *PostgresStore) DeleteComponents(ctx context.Context, ids []uuid.UUID) error {
	return s.prov.DeleteComponents(ctx, ids)
}

func (s *PostgresStore) ImportChildDevice(
	ctx context.Context,
	device *model.Device,
	bayID uuid.UUID,
) error {
	return s.prov.ImportChildDevice(ctx, device, bayID)
}

// GetRackByID returns the rack with the given ID.
func (s *PostgresStore) GetRackByID(
	ctx context.Context,
	id uuid.UUID,
) (*model.Rack, error) {
	rack, err := (&model.Rack{ID: id}).Get(ctx, s.pg.DB(), false)
	if err != nil {
		if s.pg.ErrorChecker().IsErrNoRows(err) {
			return nil, &errors.NotFoundError{Kind: "rack", Ref: id.String()}
		}

		return nil, errors.NewStorageError("get rack", err)
	}

	return rack, nil
}

// GetRackByName returns the rack with the given name within a site.
func (s *PostgresStore) GetRackByName(
	ctx context.Context,
	site string,
	name string,
) (*model.Rack, error) {
	rack, err := (&model.Rack{Site: site, Name: name}).Get(ctx, s.pg.DB(), false)
	if err != nil {
		if s.pg.ErrorChecker().IsErrNoRows(err) {
			return nil, &errors.NotFoundError{
				Kind: "rack",
				Ref:  fmt.Sprintf("%s/%s", site, name),
			}
		}

		return nil, errors.NewStorageError("get rack", err)
	}

	return rack, nil
}

// GetDevicesForRack returns the devices declared in a rack.
func (s *PostgresStore) GetDevicesForRack(
	ctx context.Context,
	rackID uuid.UUID,
) ([]model.Device, error) {
	devices, err := model.GetDevicesForRack(ctx, s.pg.DB(), rackID)
	if err != nil {
		return nil, errors.NewStorageError("list rack devices", err)
	}

	return devices, nil
}

// ListConnections returns every recorded link of one family as export
// rows, dependent (or side A) first.
func (s *PostgresStore) ListConnections(
	ctx context.Context,
	family porttypes.PortFamily,
) ([]export.ConnectionRow, error) {
	switch family {
	case porttypes.PortFamilyInterface:
		return s.listInterfaceConnections(ctx)
	case porttypes.PortFamilyConsole, porttypes.PortFamilyPower:
		return s.listDependentConnections(ctx, porttypes.DependentKind(family))
	default:
		return nil, fmt.Errorf("no connection listing for port family %q", family.String())
	}
}

func (s *PostgresStore) listDependentConnections(
	ctx context.Context,
	kind porttypes.ComponentKind,
) ([]export.ConnectionRow, error) {
	dependents, err := model.GetConnectedDependents(ctx, s.pg.DB(), kind)
	if err != nil {
		return nil, errors.NewStorageError("list connections", err)
	}

	rows := make([]export.ConnectionRow, 0, len(dependents))
	for i := range dependents {
		dep := &dependents[i]

		peer, err := model.GetComponentWithDevice(ctx, s.pg.DB(), *dep.PeerID)
		if err != nil {
			return nil, errors.NewStorageError("list connections", err)
		}

		rows = append(rows, export.ConnectionRow{
			DeviceA: deviceName(dep.Device),
			PortA:   dep.Name,
			DeviceB: deviceName(peer.Device),
			PortB:   peer.Name,
			Status:  statusString(dep.ConnectionStatus),
		})
	}

	return rows, nil
}

func (s *PostgresStore) listInterfaceConnections(
	ctx context.Context,
) ([]export.ConnectionRow, error) {
	conns, err := model.GetAllInterfaceConnections(ctx, s.pg.DB())
	if err != nil {
		return nil, errors.NewStorageError("list connections", err)
	}

	rows := make([]export.ConnectionRow, 0, len(conns))
	for i := range conns {
		sideA, err := model.GetComponentWithDevice(ctx, s.pg.DB(), conns[i].InterfaceAID)
		if err != nil {
			return nil, errors.NewStorageError("list connections", err)
		}

		sideB, err := model.GetComponentWithDevice(ctx, s.pg.DB(), conns[i].InterfaceBID)
		if err != nil {
			return nil, errors.NewStorageError("list connections", err)
		}

		rows = append(rows, export.ConnectionRow{
			DeviceA: deviceName(sideA.Device),
			PortA:   sideA.Name,
			DeviceB: deviceName(sideB.Device),
			PortB:   sideB.Name,
			Status:  conns[i].Status,
		})
	}

	return rows, nil
}

func deviceName(dd *model.Device) string {
	if dd == nil {
		return ""
	}

	return dd.Name
}

func statusString(status *string) string {
	if status == nil {
		return ""
	}

	return *status
}
