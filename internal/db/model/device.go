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

	"github.com/rackforge/topology/pkg/elevation"
)

// SubdeviceRole constrains how a device type participates in bay
// composition: parents carry bays, children install into them.
type SubdeviceRole string

const (
	SubdeviceRoleNone   SubdeviceRole = ""
	SubdeviceRoleParent SubdeviceRole = "parent"
	SubdeviceRoleChild  SubdeviceRole = "child"
)

// DeviceFace is the mounting side a racked device was placed on.
type DeviceFace string

const (
	DeviceFaceFront DeviceFace = "front"
	DeviceFaceRear  DeviceFace = "rear"
)

type DeviceType struct {
	bun.BaseModel `bun:"table:device_type,alias:dt"`

	ID            uuid.UUID     `bun:"id,pk,type:uuid,default:gen_random_uuid()"`
	Manufacturer  string        `bun:"manufacturer,notnull,unique:device_type_idx"`
	Model         string        `bun:"model,notnull,unique:device_type_idx"`
	UHeight       int           `bun:"u_height,notnull"`
	IsFullDepth   bool          `bun:"is_full_depth,notnull,default:true"`
	SubdeviceRole SubdeviceRole `bun:"subdevice_role,type:varchar(8),default:''"`
}

func (dt *DeviceType) Create(ctx context.Context, idb bun.IDB) error {
	_, err := idb.NewInsert().Model(dt).Exec(ctx)
	return err
}

func (dt *DeviceType) Get(ctx context.Context, idb bun.IDB) (*DeviceType, error) {
	var deviceType DeviceType
	var query *bun.SelectQuery

	if dt.ID != uuid.Nil {
		query = idb.NewSelect().Model(&deviceType).Where("id = ?", dt.ID)
	} else {
		query = idb.NewSelect().Model(&deviceType).Where(
			"manufacturer = ? AND model = ?",
			dt.Manufacturer, dt.Model,
		)
	}

	if err := query.Scan(ctx); err != nil {
		return nil, err
	}

	return &deviceType, nil
}

type Device struct {
	bun.BaseModel `bun:"table:device,alias:d"`

	ID           uuid.UUID   `bun:"id,pk,type:uuid,default:gen_random_uuid()"`
	Name         string      `bun:"name,notnull,unique"`
	DeviceTypeID uuid.UUID   `bun:"device_type_id,type:uuid,notnull"`
	RackID       *uuid.UUID  `bun:"rack_id,type:uuid"`
	Position     *int        `bun:"position"`
	Face         *DeviceFace `bun:"face,type:varchar(8)"`
	CreatedAt    time.Time   `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt    time.Time   `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
	DeviceType   *DeviceType `bun:"rel:belongs-to,join:device_type_id=id"`
	Rack         *Rack       `bun:"rel:belongs-to,join:rack_id=id"`
	Components   []Component `bun:"rel:has-many,join:id=device_id"`
}

func (dd *Device) Create(ctx context.Context, idb bun.IDB) error {
	_, err := idb.NewInsert().Model(dd).Exec(ctx)
	return err
}

func (dd *Device) Get(
	ctx context.Context,
	idb bun.IDB,
	withComponents bool,
) (*Device, error) {
	var device Device
	var query *bun.SelectQuery

	if dd.ID != uuid.Nil {
		query = idb.NewSelect().Model(&device).Where("d.id = ?", dd.ID)
	} else {
		query = idb.NewSelect().Model(&device).Where("d.name = ?", dd.Name)
	}

	query = query.Relation("DeviceType")

	if withComponents {
		query = query.Relation("Components")
	}

	if err := query.Scan(ctx); err != nil {
		return nil, err
	}

	return &device, nil
}

func (dd *Device) Patch(ctx context.Context, idb bun.IDB) error {
	_, err := idb.NewUpdate().Model(dd).Where("id = ?", dd.ID).Exec(ctx)
	return err
}

func (dd *Device) Delete(ctx context.Context, idb bun.IDB) error {
	_, err := idb.NewDelete().Model(dd).Where("id = ?", dd.ID).Exec(ctx)
	return err
}

// SetRack overwrites only the rack reference of the device. Used by bay
// install to propagate the parent's rack onto the child.
func (dd *Device) SetRack(ctx context.Context, idb bun.IDB, rackID *uuid.UUID) error {
	_, err := idb.NewUpdate().Model(dd).
		Set("rack_id = ?", rackID).
		Where("id = ?", dd.ID).
		Exec(ctx)
	return err
}

// ElevationView converts the device to its placement-relevant projection.
// The DeviceType relation must be loaded.
func (dd *Device) ElevationView() elevation.Device {
	d := elevation.Device{
		ID:   dd.ID,
		Name: dd.Name,
	}

	if dd.Position != nil {
		d.Position = *dd.Position
	}

	if dd.DeviceType != nil {
		d.Height = dd.DeviceType.UHeight
		d.Orientation = orientationOf(dd)
	}

	return d
}

func orientationOf(dd *Device) elevation.Orientation {
	if dd.DeviceType.IsFullDepth {
		return elevation.OrientationBoth
	}

	if dd.Face != nil && *dd.Face == DeviceFaceRear {
		return elevation.OrientationRear
	}

	return elevation.OrientationFront
}

// GetDevicesForRack returns every device placed in the rack, with device
// types loaded so unit heights are available.
func GetDevicesForRack(
	ctx context.Context,
	idb bun.IDB,
	rackID uuid.UUID,
) ([]Device, error) {
	var devices []Device
	q := idb.NewSelect().Model(&devices).
		Where("rack_id = ?", rackID).
		Relation("DeviceType").
		Order("name")

	if err := q.Scan(ctx); err != nil {
		return nil, err
	}

	return devices, nil
}

// GetDevicesByIDs retrieves multiple devices by their UUIDs.
func GetDevicesByIDs(
	ctx context.Context,
	idb bun.IDB,
	ids []uuid.UUID,
	withComponents bool,
) ([]Device, error) {
	var devices []Device
	q := idb.NewSelect().Model(&devices).
		Where("d.id IN (?)", bun.In(ids)).
		Relation("DeviceType")

	if withComponents {
		q = q.Relation("Components")
	}

	if err := q.Scan(ctx); err != nil {
		return nil, err
	}

	return devices, nil
}
