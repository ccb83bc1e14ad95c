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
	"sort"

	"github.com/google/uuid"

	"github.com/rackforge/topology/internal/db/model"
	"github.com/rackforge/topology/internal/export"
	"github.com/rackforge/topology/internal/topology/connection"
	"github.com/rackforge/topology/internal/topology/provision"
	"github.com/rackforge/topology/pkg/common/errors"
	"github.com/rackforge/topology/pkg/common/porttypes"
	"github.com/rackforge/topology/pkg/namepattern"
)

// MockStore is an in-memory Store for tests. It enforces the same
// pairing, degree-1 and batch-uniqueness rules as the PostgreSQL store by
// going through the same rules layer, so tests against it exercise real
// transition semantics.
type MockStore struct {
	Racks      map[uuid.UUID]*model.Rack
	Devices    map[uuid.UUID]*model.Device
	Components map[uuid.UUID]*model.Component
	IfConns    map[uuid.UUID]*model.InterfaceConnection
}

// NewMockStore creates an empty in-memory store.
func NewMockStore() *MockStore {
	return &MockStore{
		Racks:      make(map[uuid.UUID]*model.Rack),
		Devices:    make(map[uuid.UUID]*model.Device),
		Components: make(map[uuid.UUID]*model.Component),
		IfConns:    make(map[uuid.UUID]*model.InterfaceConnection),
	}
}

// AddRack seeds a rack and returns its ID.
func (m *MockStore) AddRack(rack *model.Rack) uuid.UUID {
	if rack.ID == uuid.Nil {
		rack.ID = uuid.New()
	}
	m.Racks[rack.ID] = rack
	return rack.ID
}

// AddDevice seeds a device and returns its ID.
func (m *MockStore) AddDevice(device *model.Device) uuid.UUID {
	if device.ID == uuid.Nil {
		device.ID = uuid.New()
	}
	m.Devices[device.ID] = device
	return device.ID
}

// AddComponent seeds a component and returns its ID.
func (m *MockStore) AddComponent(comp *model.Component) uuid.UUID {
	if comp.ID == uuid.Nil {
		comp.ID = uuid.New()
	}
	if comp.Device == nil {
		comp.Device = m.Devices[comp.DeviceID]
	}
	m.Components[comp.ID] = comp
	return comp.ID
}

func (m *MockStore) portView(id uuid.UUID) (connection.PortView, *model.Component, error) {
	comp, ok := m.Components[id]
	if !ok {
		return connection.PortView{}, nil, &errors.NotFoundError{Kind: "port", Ref: id.String()}
	}

	view := connection.PortView{ID: id, Kind: comp.ComponentKind()}

	switch porttypes.FamilyOf(view.Kind) {
	case porttypes.PortFamilyInterface:
		if conn := m.ifConnOf(id); conn != nil {
			other := conn.OtherSide(id)
			view.PeerID = &other
		}
	case porttypes.PortFamilyConsole, porttypes.PortFamilyPower:
		if view.Kind == porttypes.DependentKind(porttypes.FamilyOf(view.Kind)) {
			view.PeerID = comp.PeerID
		} else if dep := m.dependentOf(id); dep != nil {
			view.PeerID = &dep.ID
		}
	}

	return view, comp, nil
}

func (m *MockStore) ifConnOf(interfaceID uuid.UUID) *model.InterfaceConnection {
	for _, conn := range m.IfConns {
		if conn.InterfaceAID == interfaceID || conn.InterfaceBID == interfaceID {
			return conn
		}
	}
	return nil
}

func (m *MockStore) dependentOf(peerID uuid.UUID) *model.Component {
	for _, comp := range m.Components {
		if comp.PeerID != nil && *comp.PeerID == peerID {
			return comp
		}
	}
	return nil
}

func (m *MockStore) Connect(
	ctx context.Context,
	portA uuid.UUID,
	portB uuid.UUID,
	status porttypes.ConnectionStatus,
) error {
	if err := status.Validate(); err != nil {
		return err
	}

	viewA, _, err := m.portView(portA)
	if err != nil {
		return err
	}
	viewB, _, err := m.portView(portB)
	if err != nil {
		return err
	}

	if err := connection.CheckConnect(viewA, viewB); err != nil {
		return err
	}

	dependent, peer, symmetric := connection.Orient(viewA, viewB)
	if symmetric {
		conn := &model.InterfaceConnection{
			ID:           uuid.New(),
			InterfaceAID: dependent.ID,
			InterfaceBID: peer.ID,
			Status:       string(status),
		}
		m.IfConns[conn.ID] = conn
		return nil
	}

	s := string(status)
	m.Components[dependent.ID].PeerID = &peer.ID
	m.Components[dependent.ID].ConnectionStatus = &s
	return nil
}

func (m *MockStore) Disconnect(ctx context.Context, portID uuid.UUID) error {
	view, comp, err := m.portView(portID)
	if err != nil {
		return err
	}

	if err := connection.CheckDisconnect(view); err != nil {
		return err
	}

	switch porttypes.FamilyOf(view.Kind) {
	case porttypes.PortFamilyInterface:
		conn := m.ifConnOf(portID)
		delete(m.IfConns, conn.ID)
	default:
		holder := comp
		if comp.PeerID == nil {
			holder = m.dependentOf(portID)
		}
		holder.PeerID = nil
		holder.ConnectionStatus = nil
	}

	return nil
}

func (m *MockStore) Peer(ctx context.Context, portID uuid.UUID) (*connection.Peer, error) {
	view, comp, err := m.portView(portID)
	if err != nil {
		return nil, err
	}

	if !view.Connected() {
		return nil, nil
	}

	peer := &connection.Peer{
		PortID: portID,
		PeerID: *view.PeerID,
		Family: porttypes.FamilyOf(view.Kind),
	}

	switch porttypes.FamilyOf(view.Kind) {
	case porttypes.PortFamilyInterface:
		peer.Status = porttypes.ConnectionStatus(m.ifConnOf(portID).Status)
	default:
		holder := comp
		if comp.PeerID == nil {
			holder = m.dependentOf(portID)
		}
		if holder.ConnectionStatus != nil {
			peer.Status = porttypes.ConnectionStatus(*holder.ConnectionStatus)
		}
	}

	return peer, nil
}

func (m *MockStore) InstallBay(ctx context.Context, bayID, deviceID uuid.UUID) error {
	bay, ok := m.Components[bayID]
	if !ok {
		return &errors.NotFoundError{Kind: "port", Ref: bayID.String()}
	}

	if bay.ComponentKind() != porttypes.ComponentKindDeviceBay {
		return &errors.TypeMismatchError{
			KindA: bay.Kind,
			KindB: porttypes.ComponentKindDeviceBay.String(),
		}
	}

	if bay.InstalledDeviceID != nil {
		return &errors.AlreadyConnectedError{PortID: bayID, PeerID: *bay.InstalledDeviceID}
	}

	for _, comp := range m.Components {
		if comp.InstalledDeviceID != nil && *comp.InstalledDeviceID == deviceID {
			return &errors.AlreadyConnectedError{PortID: comp.ID, PeerID: deviceID}
		}
	}

	child, ok := m.Devices[deviceID]
	if !ok {
		return &errors.NotFoundError{Kind: "device", Ref: deviceID.String()}
	}

	if child.DeviceType == nil || child.DeviceType.SubdeviceRole != model.SubdeviceRoleChild {
		return &errors.ValidationConflict{Conflicts: []errors.Conflict{{
			DeviceID: deviceID,
			Name:     child.Name,
			Reason:   "device type is not a child type",
		}}}
	}

	parent, ok := m.Devices[bay.DeviceID]
	if !ok {
		return &errors.NotFoundError{Kind: "device", Ref: bay.DeviceID.String()}
	}

	child.RackID = parent.RackID
	bay.InstalledDeviceID = &deviceID
	return nil
}

func (m *MockStore) RemoveBay(ctx context.Context, bayID uuid.UUID) error {
	bay, ok := m.Components[bayID]
	if !ok {
		return &errors.NotFoundError{Kind: "port", Ref: bayID.String()}
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

	bay.InstalledDeviceID = nil
	return nil
}

func (m *MockStore) Provision(
	ctx context.Context,
	req provision.Request,
) ([]model.Component, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	names, err := namepattern.Expand(req.NamePattern)
	if err != nil {
		return nil, err
	}

	views := make([]provision.DeviceView, 0, len(req.DeviceIDs))
	for _, id := range req.DeviceIDs {
		device, ok := m.Devices[id]
		if !ok {
			return nil, &errors.NotFoundError{Kind: "device", Ref: id.String()}
		}

		existing := make(map[string]struct{})
		for _, comp := range m.Components {
			if comp.DeviceID == id && comp.ComponentKind() == req.Kind {
				existing[comp.Name] = struct{}{}
			}
		}

		views = append(views, provision.DeviceView{
			ID:       id,
			Name:     device.Name,
			Existing: existing,
		})
	}

	candidates, conflicts := provision.ValidateBatch(views, req.Kind, names, req.Attributes)
	if len(conflicts) > 0 {
		return nil, &errors.ValidationConflict{Conflicts: conflicts}
	}

	created := make([]model.Component, 0, len(candidates))
	for _, cand := range candidates {
		comp := model.Component{
			ID:         uuid.New(),
			DeviceID:   cand.DeviceID,
			Kind:       porttypes.ComponentKindToString(cand.Kind),
			Name:       cand.Name,
			FormFactor: cand.Attributes.FormFactor,
			MACAddress: cand.Attributes.MACAddress,
			MgmtOnly:   cand.Attributes.MgmtOnly,
			Device:     m.Devices[cand.DeviceID],
		}
		stored := comp
		m.Components[comp.ID] = &stored
		created = append(created, comp)
	}

	return created, nil
}

func (m *MockStore) DeleteComponents(ctx context.Context, ids []uuid.UUID) error {
	for _, id := range ids {
		comp, ok := m.Components[id]
		if !ok {
			return &errors.NotFoundError{Kind: "component", Ref: id.String()}
		}

		switch porttypes.FamilyOf(comp.ComponentKind()) {
		case porttypes.PortFamilyInterface:
			if conn := m.ifConnOf(id); conn != nil {
				delete(m.IfConns, conn.ID)
			}
		case porttypes.PortFamilyConsole, porttypes.PortFamilyPower:
			if dep := m.dependentOf(id); dep != nil {
				dep.PeerID = nil
				dep.ConnectionStatus = nil
			}
		}

		delete(m.Components, id)
	}

	return nil
}

func (m *MockStore) ImportChildDevice(
	ctx context.Context,
	device *model.Device,
	bayID uuid.UUID,
) error {
	bay, ok := m.Components[bayID]
	if !ok {
		return &errors.NotFoundError{Kind: "device bay", Ref: bayID.String()}
	}

	if bay.ComponentKind() != porttypes.ComponentKindDeviceBay {
		return &errors.TypeMismatchError{
			KindA: bay.Kind,
			KindB: porttypes.ComponentKindDeviceBay.String(),
		}
	}

	if bay.InstalledDeviceID != nil {
		return &errors.AlreadyConnectedError{PortID: bayID, PeerID: *bay.InstalledDeviceID}
	}

	if device.DeviceType == nil || device.DeviceType.SubdeviceRole != model.SubdeviceRoleChild {
		return &errors.ValidationConflict{Conflicts: []errors.Conflict{{
			DeviceID: device.ID,
			Name:     device.Name,
			Reason:   "device type is not a child type",
		}}}
	}

	parent, ok := m.Devices[bay.DeviceID]
	if !ok {
		return &errors.NotFoundError{Kind: "device", Ref: bay.DeviceID.String()}
	}

	if device.ID == uuid.Nil {
		device.ID = uuid.New()
	}
	device.RackID = parent.RackID
	device.Position = nil
	device.Face = nil

	m.Devices[device.ID] = device
	bay.InstalledDeviceID = &device.ID
	return nil
}

func (m *MockStore) GetRackByID(ctx context.Context, id uuid.UUID) (*model.Rack, error) {
	rack, ok := m.Racks[id]
	if !ok {
		return nil, &errors.NotFoundError{Kind: "rack", Ref: id.String()}
	}
	return rack, nil
}

func (m *MockStore) GetRackByName(
	ctx context.Context,
	site string,
	name string,
) (*model.Rack, error) {
	for _, rack := range m.Racks {
		if rack.Site == site && rack.Name == name {
			return rack, nil
		}
	}
	return nil, &errors.NotFoundError{Kind: "rack", Ref: fmt.Sprintf("%s/%s", site, name)}
}

func (m *MockStore) GetDevicesForRack(
	ctx context.Context,
	rackID uuid.UUID,
) ([]model.Device, error) {
	var devices []model.Device
	for _, device := range m.Devices {
		if device.RackID != nil && *device.RackID == rackID {
			devices = append(devices, *device)
		}
	}

	sort.Slice(devices, func(i, j int) bool {
		return devices[i].Name < devices[j].Name
	})

	return devices, nil
}

func (m *MockStore) ListConnections(
	ctx context.Context,
	family porttypes.PortFamily,
) ([]export.ConnectionRow, error) {
	var rows []export.ConnectionRow

	if family == porttypes.PortFamilyInterface {
		for _, conn := range m.IfConns {
			sideA, sideB := m.Components[conn.InterfaceAID], m.Components[conn.InterfaceBID]
			rows = append(rows, export.ConnectionRow{
				DeviceA: deviceName(sideA.Device),
				PortA:   sideA.Name,
				DeviceB: deviceName(sideB.Device),
				PortB:   sideB.Name,
				Status:  conn.Status,
			})
		}
	} else {
		kind := porttypes.DependentKind(family)
		for _, comp := range m.Components {
			if comp.ComponentKind() != kind || comp.PeerID == nil {
				continue
			}
			peer := m.Components[*comp.PeerID]
			rows = append(rows, export.ConnectionRow{
				DeviceA: deviceName(comp.Device),
				PortA:   comp.Name,
				DeviceB: deviceName(peer.Device),
				PortB:   peer.Name,
				Status:  statusString(comp.ConnectionStatus),
			})
		}
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].DeviceA != rows[j].DeviceA {
			return rows[i].DeviceA < rows[j].DeviceA
		}
		return rows[i].PortA < rows[j].PortA
	})

	return rows, nil
}
