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

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// InterfaceConnection is the join entity for the symmetric
// interface-to-interface family. Either interface may be side A or side B;
// lookups must work from both. Deleting the row disconnects both sides.
type InterfaceConnection struct {
	bun.BaseModel `bun:"table:interface_connection,alias:ic"`

	ID           uuid.UUID `bun:"id,pk,type:uuid,default:gen_random_uuid()"`
	InterfaceAID uuid.UUID `bun:"interface_a_id,type:uuid,notnull,unique"`
	InterfaceBID uuid.UUID `bun:"interface_b_id,type:uuid,notnull,unique"`
	Status       string    `bun:"status,type:varchar(16),notnull"`
}

func (icd *InterfaceConnection) Create(ctx context.Context, idb bun.IDB) error {
	_, err := idb.NewInsert().Model(icd).Exec(ctx)
	return err
}

func (icd *InterfaceConnection) Delete(ctx context.Context, idb bun.IDB) error {
	_, err := idb.NewDelete().Model(icd).Where("id = ?", icd.ID).Exec(ctx)
	return err
}

// GetInterfaceConnection returns the connection an interface participates
// in, regardless of which side it was recorded as, or nil when the
// interface is unconnected.
func GetInterfaceConnection(
	ctx context.Context,
	idb bun.IDB,
	interfaceID uuid.UUID,
) (*InterfaceConnection, error) {
	var conns []InterfaceConnection
	q := idb.NewSelect().Model(&conns).
		WhereGroup(" AND ", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.
				Where("interface_a_id = ?", interfaceID).
				WhereOr("interface_b_id = ?", interfaceID)
		})

	if err := q.Scan(ctx); err != nil {
		return nil, err
	}

	if len(conns) == 0 {
		return nil, nil
	}

	return &conns[0], nil
}

// OtherSide returns the peer interface ID for the given side of the
// connection.
func (icd *InterfaceConnection) OtherSide(interfaceID uuid.UUID) uuid.UUID {
	if icd.InterfaceAID == interfaceID {
		return icd.InterfaceBID
	}

	return icd.InterfaceAID
}

// GetAllInterfaceConnections lists every recorded interface connection.
func GetAllInterfaceConnections(
	ctx context.Context,
	idb bun.IDB,
) ([]InterfaceConnection, error) {
	var conns []InterfaceConnection
	if err := idb.NewSelect().Model(&conns).Scan(ctx); err != nil {
		return nil, err
	}

	return conns, nil
}
