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

package elevation

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rackforge/topology/pkg/common/errors"
)

func occupancy(units []Unit) []string {
	names := make([]string, 0, len(units))
	for _, u := range units {
		if u.Device == nil {
			names = append(names, "")
		} else {
			names = append(names, u.Device.Name)
		}
	}

	return names
}

func TestBuild(t *testing.T) {
	rack := Rack{ID: uuid.New(), Name: "R101", Height: 4}

	devices := []Device{
		{ID: uuid.New(), Name: "fw1", Position: 1, Height: 2, Orientation: OrientationFront},
		{ID: uuid.New(), Name: "pdu1", Position: 1, Height: 1, Orientation: OrientationRear},
	}

	front, err := Build(rack, devices, FaceFront)
	require.NoError(t, err)
	assert.Equal(t, []string{"fw1", "fw1", "", ""}, occupancy(front))

	rear, err := Build(rack, devices, FaceRear)
	require.NoError(t, err)
	assert.Equal(t, []string{"pdu1", "", "", ""}, occupancy(rear))
}

func TestBuildUnitNumbers(t *testing.T) {
	rack := Rack{ID: uuid.New(), Name: "R101", Height: 3}

	units, err := Build(rack, nil, FaceFront)
	require.NoError(t, err)

	require.Len(t, units, 3)
	for i, u := range units {
		assert.Equal(t, i+1, u.Number)
		assert.Nil(t, u.Device)
	}
}

func TestBuildSkipsUnmountable(t *testing.T) {
	rack := Rack{ID: uuid.New(), Name: "R101", Height: 4}

	devices := []Device{
		// Chassis-mounted blade: zero height, not unit-addressable.
		{ID: uuid.New(), Name: "blade1", Position: 2, Height: 0, Orientation: OrientationFront},
		// Unracked device.
		{ID: uuid.New(), Name: "spare1", Position: 0, Height: 1, Orientation: OrientationFront},
	}

	front, err := Build(rack, devices, FaceFront)
	require.NoError(t, err)
	assert.Equal(t, []string{"", "", "", ""}, occupancy(front))
}

func TestBuildConflicts(t *testing.T) {
	rackID := uuid.New()
	rack := Rack{ID: rackID, Name: "R101", Height: 8}

	testCases := map[string]struct {
		devices  []Device
		face     Face
		conflict bool
		unit     int
	}{
		"same face overlap at unit 2": {
			devices: []Device{
				{Name: "sw1", Position: 1, Height: 2, Orientation: OrientationFront},
				{Name: "sw2", Position: 2, Height: 2, Orientation: OrientationFront},
			},
			face:     FaceFront,
			conflict: true,
			unit:     2,
		},
		"opposite faces share a unit": {
			devices: []Device{
				{Name: "sw1", Position: 3, Height: 1, Orientation: OrientationFront},
				{Name: "pdu1", Position: 3, Height: 1, Orientation: OrientationRear},
			},
			face:     FaceFront,
			conflict: false,
		},
		"full depth collides with front-only": {
			devices: []Device{
				{Name: "chassis1", Position: 4, Height: 2, Orientation: OrientationBoth},
				{Name: "sw1", Position: 5, Height: 1, Orientation: OrientationFront},
			},
			face:     FaceFront,
			conflict: true,
			unit:     5,
		},
		"full depth collides with rear-only": {
			devices: []Device{
				{Name: "chassis1", Position: 4, Height: 2, Orientation: OrientationBoth},
				{Name: "pdu1", Position: 5, Height: 1, Orientation: OrientationRear},
			},
			face:     FaceRear,
			conflict: true,
			unit:     5,
		},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			units, err := Build(rack, tc.devices, tc.face)
			if !tc.conflict {
				require.NoError(t, err)
				require.Len(t, units, rack.Height)
				return
			}

			assert.Nil(t, units)

			var lc *errors.LayoutConflict
			require.ErrorAs(t, err, &lc)
			assert.Equal(t, rackID, lc.RackID)
			assert.Equal(t, tc.unit, lc.Unit)
			assert.Equal(t, tc.face.String(), lc.Face)
		})
	}
}

func TestAvailable(t *testing.T) {
	rack := Rack{ID: uuid.New(), Name: "R101", Height: 6}

	devices := []Device{
		{Name: "sw1", Position: 3, Height: 2, Orientation: OrientationFront},
	}

	testCases := map[string]struct {
		height   int
		face     Face
		expected []int
	}{
		"height 1 front": {height: 1, face: FaceFront, expected: []int{1, 2, 5, 6}},
		"height 2 front": {height: 2, face: FaceFront, expected: []int{1, 5}},
		"height 2 rear":  {height: 2, face: FaceRear, expected: []int{1, 2, 3, 4, 5}},
		"too tall":       {height: 7, face: FaceFront, expected: nil},
		"zero height":    {height: 0, face: FaceFront, expected: nil},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			positions, err := Available(rack, devices, tc.height, tc.face)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, positions)
		})
	}
}
