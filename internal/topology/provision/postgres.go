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
	"github.com/uptrace/bun"

	"github.com/rackforge/topology/internal/db/model"
	"github.com/rackforge/topology/internal/db/postgres"
	"github.com/rackforge/topology/pkg/common/errors"
	"github.com/rackforge/topology/pkg/common/porttypes"
	"github.com/rackforge/topology/pkg/namepattern"
)

// PostgresStore implements the Store interface using PostgreSQL.
type PostgresStore struct {
	pg *postgres.Postgres
}

// NewPostgres creates a new PostgreSQL-backed provisioning store.
func NewPostgres(pg *postgres.Postgres) *PostgresStore {
	return &PostgresStore{pg: pg}
}

// Provision expands the batch and commits it all-or-nothing. The name
// snapshot is read inside the transaction that performs the writes, so
// uniqueness holds under the store's isolation.
func (s *PostgresStore) Provision(
	ctx context.Context,
	req Request,
) ([]model.Component, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	names, err := namepattern.Expand(req.NamePattern)
	if err != nil {
		return nil, err
	}

	var created []model.Component

	operation := func(ctx context.Context, tx bun.Tx) error {
		views, err := s.loadDeviceViews(ctx, tx, req.DeviceIDs, req.Kind)
		if err != nil {
			return err
		}

		candidates, conflicts := ValidateBatch(views, req.Kind, names, req.Attributes)
		if len(conflicts) > 0 {
			return &errors.ValidationConflict{Conflicts: conflicts}
		}

		components := make([]model.Component, 0, len(candidates))
		for _, c := range candidates {
			components = append(components, model.Component{
				ID:         uuid.New(),
				DeviceID:   c.DeviceID,
				Kind:       porttypes.ComponentKindToString(c.Kind),
				Name:       c.Name,
				FormFactor: c.Attributes.FormFactor,
				MACAddress: c.Attributes.MACAddress,
				MgmtOnly:   c.Attributes.MgmtOnly,
			})
		}

		if err := model.CreateComponents(ctx, tx, components); err != nil {
			return err
		}

		created = components
		return nil
	}

	if err := s.runInTx(ctx, "provision", operation); err != nil {
		return nil, err
	}

	return created, nil
}

// loadDeviceViews reads every target device and its existing component
// names for the batch's kind. Device order follows the request, preserving
// device-major result ordering.
func (s *PostgresStore) loadDeviceViews(
	ctx context.Context,
	tx bun.Tx,
	deviceIDs []uuid.UUID,
	kind porttypes.ComponentKind,
) ([]DeviceView, error) {
	devices, err := model.GetDevicesByIDs(ctx, tx, deviceIDs, false)
	if err != nil {
		return nil, err
	}

	byID := make(map[uuid.UUID]*model.Device, len(devices))
	for i := range devices {
		byID[devices[i].ID] = &devices[i]
	}

	views := make([]DeviceView, 0, len(deviceIDs))
	for _, id := range deviceIDs {
		device, ok := byID[id]
		if !ok {
			return nil, &errors.NotFoundError{Kind: "device", Ref: id.String()}
		}

		existing, err := model.GetComponentsForDevice(ctx, tx, id, kind)
		if err != nil {
			return nil, err
		}

		taken := make(map[string]struct{}, len(existing))
		for _, comp := range existing {
			taken[comp.Name] = struct{}{}
		}

		views = append(views, DeviceView{
			ID:       id,
			Name:     device.Name,
			Existing: taken,
		})
	}

	return views, nil
}

// DeleteComponents deletes components and clears any peer's connection
// state in the same transaction.
func (s *PostgresStore) DeleteComponents(ctx context.Context, ids []uuid.UUID) error {
	operation := func(ctx context.Context, tx bun.Tx) error {
		for _, id := range ids {
			comp, err := (&model.Component{ID: id}).Get(ctx, tx)
			if err != nil {
				if s.pg.ErrorChecker().IsErrNoRows(err) {
					return &errors.NotFoundError{Kind: "component", Ref: id.String()}
				}
				return err
			}

			if err := s.clearConnectionState(ctx, tx, comp); err != nil {
				return err
			}

			if err := comp.Delete(ctx, tx); err != nil {
				return err
			}
		}

		return nil
	}

	return s.runInTx(ctx, "delete components", operation)
}

// clearConnectionState removes whatever link the component participates
// in, so its peer is never left half-connected after the delete.
func (s *PostgresStore) clearConnectionState(
	ctx context.Context,
	tx bun.Tx,
	comp *model.Component,
) error {
	kind := comp.ComponentKind()
	family := porttypes.FamilyOf(kind)

	switch {
	case family == porttypes.PortFamilyInterface:
		conn, err := model.GetInterfaceConnection(ctx, tx, comp.ID)
		if err != nil {
			return err
		}
		if conn != nil {
			return conn.Delete(ctx, tx)
		}

	case family != porttypes.PortFamilyNone && kind != porttypes.DependentKind(family):
		ref, err := model.GetComponentReferencing(ctx, tx, comp.ID)
		if err != nil {
			return err
		}
		if ref != nil {
			return ref.SetPeer(ctx, tx, nil, nil)
		}
	}

	// Dependent-side ports carry the reference themselves; deleting the
	// row is the disconnect. Device bays release nothing: the occupant
	// keeps its rack.
	return nil
}

// ImportChildDevice creates a child device and installs it into its parent
// bay as one atomic unit, inheriting the parent's rack.
func (s *PostgresStore) ImportChildDevice(
	ctx context.Context,
	device *model.Device,
	bayID uuid.UUID,
) error {
	operation := func(ctx context.Context, tx bun.Tx) error {
		bay, err := (&model.Component{ID: bayID}).Get(ctx, tx)
		if err != nil {
			if s.pg.ErrorChecker().IsErrNoRows(err) {
				return &errors.NotFoundError{Kind: "device bay", Ref: bayID.String()}
			}
			return err
		}

		if bay.ComponentKind() != porttypes.ComponentKindDeviceBay {
			return &errors.TypeMismatchError{
				KindA: bay.Kind,
				KindB: porttypes.ComponentKindDeviceBay.String(),
			}
		}

		if bay.InstalledDeviceID != nil {
			return &errors.AlreadyConnectedError{
				PortID: bayID,
				PeerID: *bay.InstalledDeviceID,
			}
		}

		deviceType, err := (&model.DeviceType{ID: device.DeviceTypeID}).Get(ctx, tx)
		if err != nil {
			if s.pg.ErrorChecker().IsErrNoRows(err) {
				return &errors.NotFoundError{Kind: "device type", Ref: device.DeviceTypeID.String()}
			}
			return err
		}

		if deviceType.SubdeviceRole != model.SubdeviceRoleChild {
			return &errors.ValidationConflict{Conflicts: []errors.Conflict{{
				DeviceID: device.ID,
				Name:     device.Name,
				Reason:   "device type is not a child type",
			}}}
		}

		parent, err := (&model.Device{ID: bay.DeviceID}).Get(ctx, tx, false)
		if err != nil {
			if s.pg.ErrorChecker().IsErrNoRows(err) {
				return &errors.NotFoundError{Kind: "device", Ref: bay.DeviceID.String()}
			}
			return err
		}

		// Placement inheritance: the child lands in the parent's rack no
		// matter what the import declared.
		device.RackID = parent.RackID
		device.Position = nil
		device.Face = nil

		if device.ID == uuid.Nil {
			device.ID = uuid.New()
		}

		if err := device.Create(ctx, tx); err != nil {
			return err
		}

		return bay.SetInstalledDevice(ctx, tx, &device.ID)
	}

	return s.runInTx(ctx, "import child device", operation)
}

func (s *PostgresStore) runInTx(
	ctx context.Context,
	op string,
	operation func(ctx context.Context, tx bun.Tx) error,
) error {
	if err := s.pg.RunInTx(ctx, operation); err != nil {
		return errors.NewStorageError(op, err)
	}
	return nil
}
