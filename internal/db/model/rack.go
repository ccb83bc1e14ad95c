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

type Rack struct {
	bun.BaseModel `bun:"table:rack,alias:r"`

	ID        uuid.UUID `bun:"id,pk,type:uuid,default:gen_random_uuid()"`
	Name      string    `bun:"name,notnull,unique:rack_site_name_idx"`
	Site      string    `bun:"site,notnull,unique:rack_site_name_idx"`
	Height    int       `bun:"height,notnull"`
	DescUnits bool      `bun:"desc_units,notnull,default:false"`
	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
	Devices   []Device  `bun:"rel:has-many,join:id=rack_id"`
}

func (rd *Rack) Create(ctx context.Context, idb bun.IDB) error {
	_, err := idb.NewInsert().Model(rd).Exec(ctx)
	return err
}

func (rd *Rack) Get(
	ctx context.Context,
	idb bun.IDB,
	withDevices bool,
) (*Rack, error) {
	var rack Rack
	var query *bun.SelectQuery

	if rd.ID != uuid.Nil {
		// Get by the ID
		query = idb.NewSelect().Model(&rack).Where("r.id = ?", rd.ID)
	} else {
		// Get by site and name
		query = idb.NewSelect().Model(&rack).Where(
			"r.site = ? AND r.name = ?",
			rd.Site, rd.Name,
		)
	}

	if withDevices {
		query = query.Relation("Devices").Relation("Devices.DeviceType")
	}

	if err := query.Scan(ctx); err != nil {
		return nil, err
	}

	return &rack, nil
}

func (rd *Rack) Patch(ctx context.Context, idb bun.IDB) error {
	_, err := idb.NewUpdate().Model(rd).Where("id = ?", rd.ID).Exec(ctx)
	return err
}

func (rd *Rack) Delete(ctx context.Context, idb bun.IDB) error {
	_, err := idb.NewDelete().Model(rd).Where("id = ?", rd.ID).Exec(ctx)
	return err
}

// ElevationView converts the rack to its placement-relevant projection.
func (rd *Rack) ElevationView() elevation.Rack {
	return elevation.Rack{
		ID:        rd.ID,
		Name:      rd.Name,
		Height:    rd.Height,
		DescUnits: rd.DescUnits,
	}
}

// GetRacksForSite returns all racks declared for a site.
func GetRacksForSite(
	ctx context.Context,
	idb bun.IDB,
	site string,
) ([]Rack, error) {
	var racks []Rack
	q := idb.NewSelect().Model(&racks).Where("site = ?", site).Order("name")

	if err := q.Scan(ctx); err != nil {
		return nil, err
	}

	return racks, nil
}
