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

// Package elevation renders per-face rack elevations from declared device
// placements. It is a pure projection: it never mutates placement, and an
// overlap in the declared data is surfaced as a LayoutConflict rather than
// resolved silently.
package elevation

import (
	"github.com/google/uuid"

	"github.com/rackforge/topology/pkg/common/errors"
)

// Face is a physical mounting side of a rack.
type Face int

const (
	FaceFront Face = iota
	FaceRear
)

func (f Face) String() string {
	if f == FaceRear {
		return "rear"
	}

	return "front"
}

// Orientation is the face requirement fixed by a device's type.
type Orientation int

const (
	OrientationFront Orientation = iota
	OrientationRear
	OrientationBoth
)

// occupies reports whether a device with this orientation appears on the
// given elevation face. Full-depth devices appear on both.
func (o Orientation) occupies(f Face) bool {
	switch o {
	case OrientationBoth:
		return true
	case OrientationFront:
		return f == FaceFront
	default:
		return f == FaceRear
	}
}

// Rack is the placement-relevant view of a rack. Height is the total unit
// count; DescUnits is true when units are numbered descending from the top.
type Rack struct {
	ID        uuid.UUID
	Name      string
	Height    int
	DescUnits bool
}

// Device is the placement-relevant view of a racked device. Devices with
// Height 0 or Position < 1 are not unit-addressable and are excluded from
// elevations.
type Device struct {
	ID          uuid.UUID
	Name        string
	Position    int
	Height      int
	Orientation Orientation
}

func (d Device) mounted() bool {
	return d.Height > 0 && d.Position >= 1
}

// Unit is one slot of an elevation. Device is nil when the unit is free.
type Unit struct {
	Number int
	Device *Device
}

// Build renders the elevation of one rack face. It returns exactly
// rack.Height slots in ascending unit-number order (unit 1 first); callers
// rendering racks top-down reverse the slice for ascending-numbered racks.
// Two devices overlapping on the requested face fail with a LayoutConflict.
func Build(rack Rack, devices []Device, face Face) ([]Unit, error) {
	units := make([]Unit, rack.Height)
	for i := range units {
		units[i].Number = i + 1
	}

	for i := range devices {
		d := &devices[i]
		if !d.mounted() || !d.Orientation.occupies(face) {
			continue
		}

		for u := d.Position; u <= d.Position+d.Height-1; u++ {
			if u < 1 || u > rack.Height {
				continue
			}

			if prev := units[u-1].Device; prev != nil {
				return nil, &errors.LayoutConflict{
					RackID:  rack.ID,
					Unit:    u,
					Face:    face.String(),
					DeviceA: prev.Name,
					DeviceB: d.Name,
				}
			}

			units[u-1].Device = d
		}
	}

	return units, nil
}

// Available returns the starting positions, ascending, at which a device of
// the given unit height could be mounted on the given face without
// overlapping any declared placement.
func Available(rack Rack, devices []Device, height int, face Face) ([]int, error) {
	if height < 1 {
		return nil, nil
	}

	units, err := Build(rack, devices, face)
	if err != nil {
		return nil, err
	}

	var positions []int
	for start := 1; start+height-1 <= rack.Height; start++ {
		free := true
		for u := start; u <= start+height-1; u++ {
			if units[u-1].Device != nil {
				free = false
				break
			}
		}

		if free {
			positions = append(positions, start)
		}
	}

	return positions, nil
}
