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
	"github.com/uptrace/bun"

	"github.com/rackforge/topology/internal/db/model"
	"github.com/rackforge/topology/internal/db/postgres"
	"github.com/rackforge/topology/pkg/common/errors"
	"github.com/rackforge/topology/pkg/common/porttypes"
)

// PostgresStore implements the Store interface using PostgreSQL.
type PostgresStore struct {
	pg *postgres.Postgres
}

// NewPostgres creates a new PostgreSQL-backed connection store.
func NewPostgres(pg *postgres.Postgres) *PostgresStore {
	return &PostgresStore{pg: pg}
}

// Connect links two ports. Both ends are validated against a snapshot read
// inside the transaction that also performs the write.
func (s *PostgresStore) Connect(
	ctx context.Context,
	portA uuid.UUID,
	portB uuid.UUID,
	status porttypes.ConnectionStatus,
) error {
	if err := status.Validate(); err != nil {
		return err
	}

	operation := func(ctx context.Context, tx bun.Tx) error {
		viewA, _, err := s.loadPortView(ctx, tx, portA)
		if err != nil {
			return err
		}

		viewB, _, err := s.loadPortView(ctx, tx, portB)
		if err != nil {
			return err
		}

		if err := CheckConnect(viewA, viewB); err != nil {
			return err
		}

		dependent, peer, symmetric := Orient(viewA, viewB)
		if symmetric {
			conn := &model.InterfaceConnection{
				InterfaceAID: dependent.ID,
				InterfaceBID: peer.ID,
				Status:       string(status),
			}
			return conn.Create(ctx, tx)
		}

		statusStr := string(status)
		dep := &model.Component{ID: dependent.ID}
		return dep.SetPeer(ctx, tx, &peer.ID, &statusStr)
	}

	return s.runInTx(ctx, "connect", operation)
}

// Disconnect clears the link the port participates in. Both ends are
// cleared in one transaction; a half-cleared link is never observable.
func (s *PostgresStore) Disconnect(ctx context.Context, portID uuid.UUID) error {
	operation := func(ctx context.Context, tx bun.Tx) error {
		view, comp, err := s.loadPortView(ctx, tx, portID)
		if err != nil {
			return err
		}

		if err := CheckDisconnect(view); err != nil {
			return err
		}

		family := porttypes.FamilyOf(view.Kind)
		if family == porttypes.PortFamilyInterface {
			conn, err := model.GetInterfaceConnection(ctx, tx, portID)
			if err != nil {
				return err
			}
			return conn.Delete(ctx, tx)
		}

		// The single directional reference held by the dependent side is
		// the whole link; clearing it clears both ends.
		if view.Kind == porttypes.DependentKind(family) {
			return comp.SetPeer(ctx, tx, nil, nil)
		}

		ref, err := model.GetComponentReferencing(ctx, tx, portID)
		if err != nil {
			return err
		}
		return ref.SetPeer(ctx, tx, nil, nil)
	}

	return s.runInTx(ctx, "disconnect", operation)
}

// Peer returns the link the port participates in, or nil when unconnected.
func (s *PostgresStore) Peer(ctx context.Context, portID uuid.UUID) (*Peer, error) {
	idb := s.pg.DB()

	comp, err := s.getComponent(ctx, idb, portID)
	if err != nil {
		return nil, errors.NewStorageError("peer", err)
	}

	kind := comp.ComponentKind()
	family := porttypes.FamilyOf(kind)

	switch {
	case family == porttypes.PortFamilyInterface:
		conn, err := model.GetInterfaceConnection(ctx, idb, portID)
		if err != nil {
			return nil, errors.NewStorageError("peer", err)
		}
		if conn == nil {
			return nil, nil
		}
		return &Peer{
			PortID: portID,
			PeerID: conn.OtherSide(portID),
			Family: family,
			Status: porttypes.ConnectionStatus(conn.Status),
		}, nil

	case kind == porttypes.DependentKind(family):
		if comp.PeerID == nil {
			return nil, nil
		}
		return &Peer{
			PortID: portID,
			PeerID: *comp.PeerID,
			Family: family,
			Status: statusOf(comp),
		}, nil

	default:
		ref, err := model.GetComponentReferencing(ctx, idb, portID)
		if err != nil {
			return nil, errors.NewStorageError("peer", err)
		}
		if ref == nil {
			return nil, nil
		}
		return &Peer{
			PortID: portID,
			PeerID: ref.ID,
			Family: family,
			Status: statusOf(ref),
		}, nil
	}
}

// InstallBay installs a child device into a bay. The child's rack reference
// is overwritten from the bay's parent device in the same transaction.
func (s *PostgresStore) InstallBay(ctx context.Context, bayID, deviceID uuid.UUID) error {
	operation := func(ctx context.Context, tx bun.Tx) error {
		bay, err := s.getComponent(ctx, tx, bayID)
		if err != nil {
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

		// A device occupies at most one bay across the whole system.
		occupied, err := model.GetBayOf(ctx, tx, deviceID)
		if err != nil {
			return err
		}
		if occupied != nil {
			return &errors.AlreadyConnectedError{
				PortID: deviceID,
				PeerID: occupied.ID,
			}
		}

		child, err := (&model.Device{ID: deviceID}).Get(ctx, tx, false)
		if err != nil {
			if s.pg.ErrorChecker().IsErrNoRows(err) {
				return &errors.NotFoundError{Kind: "device", Ref: deviceID.String()}
			}
			return err
		}

		if child.DeviceType == nil || child.DeviceType.SubdeviceRole != model.SubdeviceRoleChild {
			return &errors.ValidationConflict{Conflicts: []errors.Conflict{{
				DeviceID: deviceID,
				Name:     child.Name,
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

		if err := child.SetRack(ctx, tx, parent.RackID); err != nil {
			return err
		}

		return bay.SetInstalledDevice(ctx, tx, &deviceID)
	}

	return s.runInTx(ctx, "install bay", operation)
}

// RemoveBay clears a bay's occupant. The removed device stays in whatever
// rack the install left it in; removal does not un-rack.
func (s *PostgresStore) RemoveBay(ctx context.Context, bayID uuid.UUID) error {
	operation := func(ctx context.Context, tx bun.Tx) error {
		bay, err := s.getComponent(ctx, tx, bayID)
		if err != nil {
			return err
		}

		if bay.ComponentKind() != porttypes.ComponentKindDeviceBay {
			return &errors.TypeMismatchError{
				KindA: bay.Kind,
				KindB: porttypes.ComponentKindDeviceBay.String(),
			}
		}

		if bay.InstalledDeviceID == nil {
			return &errors.NotConnectedError{PortID: bayID}
		}

		return bay.SetInstalledDevice(ctx, tx, nil)
	}

	return s.runInTx(ctx, "remove bay", operation)
}

// loadPortView reads a port and resolves its peer state from whichever
// side the link was recorded on.
func (s *PostgresStore) loadPortView(
	ctx context.Context,
	idb bun.IDB,
	portID uuid.UUID,
) (PortView, *model.Component, error) {
	comp, err := s.getComponent(ctx, idb, portID)
	if err != nil {
		return PortView{}, nil, err
	}

	view := PortView{ID: portID, Kind: comp.ComponentKind()}
	family := porttypes.FamilyOf(view.Kind)

	switch {
	case family == porttypes.PortFamilyInterface:
		conn, err := model.GetInterfaceConnection(ctx, idb, portID)
		if err != nil {
			return PortView{}, nil, err
		}
		if conn != nil {
			other := conn.OtherSide(portID)
			view.PeerID = &other
		}

	case view.Kind == porttypes.DependentKind(family):
		view.PeerID = comp.PeerID

	case family != porttypes.PortFamilyNone:
		ref, err := model.GetComponentReferencing(ctx, idb, portID)
		if err != nil {
			return PortView{}, nil, err
		}
		if ref != nil {
			view.PeerID = &ref.ID
		}
	}

	return view, comp, nil
}

func (s *PostgresStore) getComponent(
	ctx context.Context,
	idb bun.IDB,
	id uuid.UUID,
) (*model.Component, error) {
	comp, err := (&model.Component{ID: id}).Get(ctx, idb)
	if err != nil {
		if s.pg.ErrorChecker().IsErrNoRows(err) {
			return nil, &errors.NotFoundError{Kind: "port", Ref: id.String()}
		}
		return nil, err
	}

	return comp, nil
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

func statusOf(comp *model.Component) porttypes.ConnectionStatus {
	if comp.ConnectionStatus == nil {
		return ""
	}

	return porttypes.ConnectionStatus(*comp.ConnectionStatus)
}
