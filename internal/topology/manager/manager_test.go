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
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rackforge/topology/internal/db/model"
	"github.com/rackforge/topology/internal/topology/provision"
	"github.com/rackforge/topology/pkg/common/errors"
	"github.com/rackforge/topology/pkg/common/porttypes"
	"github.com/rackforge/topology/pkg/elevation"
)

func intPtr(i int) *int {
	return &i
}

func facePtr(f model.DeviceFace) *model.DeviceFace {
	return &f
}

// seedRack builds a 4U rack holding a 2U front-face server at position 1
// and a 1U rear-face PDU at position 1.
func seedRack(store *MockStore) uuid.UUID {
	rackID := store.AddRack(&model.Rack{Site: "dal01", Name: "r1", Height: 4})

	serverType := &model.DeviceType{ID: uuid.New(), UHeight: 2, IsFullDepth: false}
	pduType := &model.DeviceType{ID: uuid.New(), UHeight: 1, IsFullDepth: false}

	store.AddDevice(&model.Device{
		Name:       "web1",
		RackID:     &rackID,
		Position:   intPtr(1),
		Face:       facePtr(model.DeviceFaceFront),
		DeviceType: serverType,
	})
	store.AddDevice(&model.Device{
		Name:       "pdu1",
		RackID:     &rackID,
		Position:   intPtr(1),
		Face:       facePtr(model.DeviceFaceRear),
		DeviceType: pduType,
	})

	return rackID
}

func TestManagerElevation(t *testing.T) {
	store := NewMockStore()
	rackID := seedRack(store)
	mgr := New(store)

	rack, front, err := mgr.Elevation(context.Background(), rackID, elevation.FaceFront)
	require.NoError(t, err)
	assert.Equal(t, "r1", rack.Name)
	require.Len(t, front, 4)

	require.NotNil(t, front[0].Device)
	assert.Equal(t, "web1", front[0].Device.Name)
	require.NotNil(t, front[1].Device)
	assert.Equal(t, "web1", front[1].Device.Name)
	assert.Nil(t, front[2].Device)
	assert.Nil(t, front[3].Device)

	_, rear, err := mgr.Elevation(context.Background(), rackID, elevation.FaceRear)
	require.NoError(t, err)
	require.NotNil(t, rear[0].Device)
	assert.Equal(t, "pdu1", rear[0].Device.Name)
	assert.Nil(t, rear[1].Device)
}

func TestManagerElevationRackNotFound(t *testing.T) {
	mgr := New(NewMockStore())

	_, _, err := mgr.Elevation(context.Background(), uuid.New(), elevation.FaceFront)

	var notFound *errors.NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "rack", notFound.Kind)
}

func TestManagerAvailableUnits(t *testing.T) {
	store := NewMockStore()
	rackID := seedRack(store)
	mgr := New(store)

	testCases := map[string]struct {
		height   int
		face     elevation.Face
		expected []int
	}{
		"2U on the front face": {
			height:   2,
			face:     elevation.FaceFront,
			expected: []int{3},
		},
		"1U on the front face": {
			height:   1,
			face:     elevation.FaceFront,
			expected: []int{3, 4},
		},
		"2U on the rear face": {
			height:   2,
			face:     elevation.FaceRear,
			expected: []int{2, 3},
		},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			positions, err := mgr.AvailableUnits(context.Background(), rackID, tc.height, tc.face)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, positions)
		})
	}
}

func TestManagerConnectionLifecycle(t *testing.T) {
	store := NewMockStore()
	mgr := New(store)

	devA := store.AddDevice(&model.Device{Name: "leaf1"})
	devB := store.AddDevice(&model.Device{Name: "leaf2"})
	portA := store.AddComponent(&model.Component{
		DeviceID: devA,
		Kind:     porttypes.ComponentKindInterface.String(),
		Name:     "eth0",
	})
	portB := store.AddComponent(&model.Component{
		DeviceID: devB,
		Kind:     porttypes.ComponentKindInterface.String(),
		Name:     "eth0",
	})

	ctx := context.Background()

	require.NoError(t, mgr.Connect(ctx, portA, portB, porttypes.ConnectionStatusConnected))

	// The link is visible from both ends.
	peer, err := mgr.Peer(ctx, portA)
	require.NoError(t, err)
	require.NotNil(t, peer)
	assert.Equal(t, portB, peer.PeerID)
	assert.Equal(t, porttypes.ConnectionStatusConnected, peer.Status)

	peer, err = mgr.Peer(ctx, portB)
	require.NoError(t, err)
	require.NotNil(t, peer)
	assert.Equal(t, portA, peer.PeerID)

	// A second link on either end is refused.
	portC := store.AddComponent(&model.Component{
		DeviceID: devA,
		Kind:     porttypes.ComponentKindInterface.String(),
		Name:     "eth1",
	})
	var already *errors.AlreadyConnectedError
	require.ErrorAs(t, mgr.Connect(ctx, portC, portB, porttypes.ConnectionStatusPlanned), &already)

	// Disconnecting from the far side clears both ends.
	require.NoError(t, mgr.Disconnect(ctx, portB))

	peer, err = mgr.Peer(ctx, portA)
	require.NoError(t, err)
	assert.Nil(t, peer)

	var notConnected *errors.NotConnectedError
	require.ErrorAs(t, mgr.Disconnect(ctx, portA), &notConnected)
}

func TestManagerProvision(t *testing.T) {
	store := NewMockStore()
	mgr := New(store)

	devID := store.AddDevice(&model.Device{Name: "sw1"})
	ctx := context.Background()

	created, err := mgr.Provision(ctx, provision.Request{
		DeviceIDs:   []uuid.UUID{devID},
		Kind:        porttypes.ComponentKindInterface,
		NamePattern: "eth[0-2]",
	})
	require.NoError(t, err)
	require.Len(t, created, 3)
	assert.Equal(t, "eth0", created[0].Name)
	assert.Equal(t, "eth2", created[2].Name)
	assert.Equal(t, provision.DefaultFormFactor, created[0].FormFactor)

	// Re-running the same pattern collides on every name and creates
	// nothing.
	_, err = mgr.Provision(ctx, provision.Request{
		DeviceIDs:   []uuid.UUID{devID},
		Kind:        porttypes.ComponentKindInterface,
		NamePattern: "eth[0-2]",
	})

	var conflict *errors.ValidationConflict
	require.ErrorAs(t, err, &conflict)
	assert.Len(t, conflict.Conflicts, 3)
	assert.Len(t, store.Components, 3)
}

func TestManagerDeleteComponentsClearsPeer(t *testing.T) {
	store := NewMockStore()
	mgr := New(store)

	devA := store.AddDevice(&model.Device{Name: "srv1"})
	devB := store.AddDevice(&model.Device{Name: "term1"})
	cp := store.AddComponent(&model.Component{
		DeviceID: devA,
		Kind:     porttypes.ComponentKindConsolePort.String(),
		Name:     "console0",
	})
	csp := store.AddComponent(&model.Component{
		DeviceID: devB,
		Kind:     porttypes.ComponentKindConsoleServerPort.String(),
		Name:     "ttyS1",
	})

	ctx := context.Background()
	require.NoError(t, mgr.Connect(ctx, cp, csp, porttypes.ConnectionStatusConnected))

	// Deleting the server-port side clears the console port's link too.
	require.NoError(t, mgr.DeleteComponents(ctx, []uuid.UUID{csp}))

	peer, err := mgr.Peer(ctx, cp)
	require.NoError(t, err)
	assert.Nil(t, peer)
}

func TestManagerBayLifecycle(t *testing.T) {
	store := NewMockStore()
	mgr := New(store)

	rackID := store.AddRack(&model.Rack{Site: "dal01", Name: "r2", Height: 42})
	parentType := &model.DeviceType{ID: uuid.New(), UHeight: 4, SubdeviceRole: model.SubdeviceRoleParent}
	childType := &model.DeviceType{ID: uuid.New(), UHeight: 0, SubdeviceRole: model.SubdeviceRoleChild}

	parentID := store.AddDevice(&model.Device{
		Name:       "chassis1",
		RackID:     &rackID,
		Position:   intPtr(10),
		DeviceType: parentType,
	})
	childID := store.AddDevice(&model.Device{Name: "blade1", DeviceType: childType})
	bayID := store.AddComponent(&model.Component{
		DeviceID: parentID,
		Kind:     porttypes.ComponentKindDeviceBay.String(),
		Name:     "bay1",
	})

	ctx := context.Background()

	require.NoError(t, mgr.InstallBay(ctx, bayID, childID))

	// The child inherits the parent's rack.
	require.NotNil(t, store.Devices[childID].RackID)
	assert.Equal(t, rackID, *store.Devices[childID].RackID)

	// An occupied bay refuses a second occupant.
	other := store.AddDevice(&model.Device{Name: "blade2", DeviceType: childType})
	var already *errors.AlreadyConnectedError
	require.ErrorAs(t, mgr.InstallBay(ctx, bayID, other), &already)

	// Removal empties the bay but does not un-rack the child.
	require.NoError(t, mgr.RemoveBay(ctx, bayID))
	assert.Nil(t, store.Components[bayID].InstalledDeviceID)
	require.NotNil(t, store.Devices[childID].RackID)
	assert.Equal(t, rackID, *store.Devices[childID].RackID)

	// Bay operations refuse components of any other kind.
	ifaceID := store.AddComponent(&model.Component{
		DeviceID: parentID,
		Kind:     porttypes.ComponentKindInterface.String(),
		Name:     "eth0",
	})
	var mismatch *errors.TypeMismatchError
	require.ErrorAs(t, mgr.RemoveBay(ctx, ifaceID), &mismatch)
}

func TestManagerImportChildDevice(t *testing.T) {
	store := NewMockStore()
	mgr := New(store)

	rackID := store.AddRack(&model.Rack{Site: "dal01", Name: "r3", Height: 42})
	parentType := &model.DeviceType{ID: uuid.New(), UHeight: 4, SubdeviceRole: model.SubdeviceRoleParent}
	childType := &model.DeviceType{ID: uuid.New(), UHeight: 0, SubdeviceRole: model.SubdeviceRoleChild}

	parentID := store.AddDevice(&model.Device{
		Name:       "chassis2",
		RackID:     &rackID,
		Position:   intPtr(20),
		DeviceType: parentType,
	})
	bayID := store.AddComponent(&model.Component{
		DeviceID: parentID,
		Kind:     porttypes.ComponentKindDeviceBay.String(),
		Name:     "bay1",
	})

	child := &model.Device{
		Name:         "blade3",
		DeviceTypeID: childType.ID,
		DeviceType:   childType,
		Position:     intPtr(7),
	}
	require.NoError(t, mgr.ImportChildDevice(context.Background(), child, bayID))

	require.NotNil(t, child.RackID)
	assert.Equal(t, rackID, *child.RackID)
	assert.Nil(t, child.Position)
	assert.Equal(t, &child.ID, store.Components[bayID].InstalledDeviceID)
}

func TestManagerImportChildDeviceRejectsNonChildType(t *testing.T) {
	store := NewMockStore()
	mgr := New(store)

	rackID := store.AddRack(&model.Rack{Site: "dal01", Name: "r4", Height: 42})
	parentType := &model.DeviceType{ID: uuid.New(), UHeight: 4, SubdeviceRole: model.SubdeviceRoleParent}

	parentID := store.AddDevice(&model.Device{
		Name:       "chassis3",
		RackID:     &rackID,
		Position:   intPtr(30),
		DeviceType: parentType,
	})
	bayID := store.AddComponent(&model.Component{
		DeviceID: parentID,
		Kind:     porttypes.ComponentKindDeviceBay.String(),
		Name:     "bay1",
	})

	ctx := context.Background()

	// A parent-role device cannot be imported into a bay.
	wrongRole := &model.Device{
		Name:         "chassis4",
		DeviceTypeID: parentType.ID,
		DeviceType:   parentType,
	}
	var conflict *errors.ValidationConflict
	require.ErrorAs(t, mgr.ImportChildDevice(ctx, wrongRole, bayID), &conflict)
	assert.Nil(t, store.Components[bayID].InstalledDeviceID)

	// Nor can a device whose type carries no subdevice role at all.
	plainType := &model.DeviceType{ID: uuid.New(), UHeight: 1}
	plain := &model.Device{
		Name:         "srv9",
		DeviceTypeID: plainType.ID,
		DeviceType:   plainType,
	}
	require.ErrorAs(t, mgr.ImportChildDevice(ctx, plain, bayID), &conflict)
	assert.Nil(t, store.Components[bayID].InstalledDeviceID)
}

func TestManagerExpand(t *testing.T) {
	mgr := New(NewMockStore())

	names, err := mgr.Expand("ge-0/0/[0-3]")
	require.NoError(t, err)
	assert.Equal(t, []string{"ge-0/0/0", "ge-0/0/1", "ge-0/0/2", "ge-0/0/3"}, names)

	_, err = mgr.Expand("eth[3-1]")
	require.Error(t, err)
}

func TestManagerExportConnections(t *testing.T) {
	store := NewMockStore()
	mgr := New(store)

	devA := store.AddDevice(&model.Device{Name: "srv1"})
	devB := store.AddDevice(&model.Device{Name: "term1"})
	cp := store.AddComponent(&model.Component{
		DeviceID: devA,
		Kind:     porttypes.ComponentKindConsolePort.String(),
		Name:     "console0",
	})
	csp := store.AddComponent(&model.Component{
		DeviceID: devB,
		Kind:     porttypes.ComponentKindConsoleServerPort.String(),
		Name:     "ttyS1",
	})

	ctx := context.Background()
	require.NoError(t, mgr.Connect(ctx, cp, csp, porttypes.ConnectionStatusConnected))

	path := filepath.Join(t.TempDir(), "console.xlsx")
	require.NoError(t, mgr.ExportConnections(ctx, porttypes.PortFamilyConsole, path))
	assert.FileExists(t, path)
}

func TestManagerExportElevation(t *testing.T) {
	store := NewMockStore()
	rackID := seedRack(store)
	mgr := New(store)

	path := filepath.Join(t.TempDir(), "r1-front.xlsx")
	err := mgr.ExportElevation(context.Background(), rackID, elevation.FaceFront, path)
	require.NoError(t, err)
	assert.FileExists(t, path)
}
