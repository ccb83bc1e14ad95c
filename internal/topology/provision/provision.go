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

// Package provision creates batches of uniquely named components from name
// patterns. Validation is accumulated across the whole batch and the commit
// is all-or-nothing: one invalid candidate means nothing is written.
package provision

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/google/uuid"

	"github.com/rackforge/topology/pkg/common/errors"
	"github.com/rackforge/topology/pkg/common/porttypes"
)

// DefaultFormFactor is applied to interfaces provisioned without an
// explicit form factor.
const DefaultFormFactor = "1000base-t"

var formFactors = []any{
	"virtual",
	"lag",
	"100base-tx",
	"1000base-t",
	"1000base-x-sfp",
	"10gbase-t",
	"10gbase-x-sfpp",
	"25gbase-x-sfp28",
	"40gbase-x-qsfpp",
	"100gbase-x-qsfp28",
}

// Attributes are the template attributes merged into every candidate of a
// batch. FormFactor, MACAddress and MgmtOnly are interface-family only.
type Attributes struct {
	FormFactor string
	MACAddress string
	MgmtOnly   bool
}

// Validate checks the attributes against the constraint set of the target
// component kind.
func (a Attributes) Validate(kind porttypes.ComponentKind) error {
	if kind == porttypes.ComponentKindInterface {
		return validation.ValidateStruct(&a,
			validation.Field(&a.FormFactor,
				validation.In(formFactors...).Error("unknown form factor")),
			validation.Field(&a.MACAddress,
				validation.When(a.MACAddress != "", is.MAC.Error("invalid MAC address"))),
		)
	}

	return validation.ValidateStruct(&a,
		validation.Field(&a.FormFactor,
			validation.Empty.Error("form factor applies to interfaces only")),
		validation.Field(&a.MACAddress,
			validation.Empty.Error("MAC address applies to interfaces only")),
	)
}

// Request describes one provisioning batch: the same pattern applied to
// every target device.
type Request struct {
	DeviceIDs   []uuid.UUID
	Kind        porttypes.ComponentKind
	NamePattern string
	Attributes  Attributes
}

// Validate checks the request shape before any expansion happens.
func (r Request) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.DeviceIDs, validation.Required.Error("at least one target device is required")),
		validation.Field(&r.Kind,
			validation.By(func(any) error {
				if r.Kind == porttypes.ComponentKindUnknown {
					return validation.NewError("validation_kind_required", "a component kind is required")
				}
				return nil
			})),
		validation.Field(&r.NamePattern, validation.Required.Error("a name pattern is required")),
	)
}

// DeviceView is the per-device snapshot the batch validates against: the
// component names the device already has for the target kind.
type DeviceView struct {
	ID       uuid.UUID
	Name     string
	Existing map[string]struct{}
}

// Candidate is one validated component-to-be.
type Candidate struct {
	DeviceID   uuid.UUID
	Name       string
	Kind       porttypes.ComponentKind
	Attributes Attributes
}

// ValidateBatch builds and validates every (device, name) candidate of a
// batch. Failures are accumulated, never short-circuited: the returned
// conflict list covers the whole batch so the caller can show every
// problem at once. When two candidates claim the same name on one device,
// both are rejected, not just the later one. Candidate order is
// device-major, pattern-minor.
func ValidateBatch(
	devices []DeviceView,
	kind porttypes.ComponentKind,
	names []string,
	attrs Attributes,
) ([]Candidate, []errors.Conflict) {
	candidates := make([]Candidate, 0, len(devices)*len(names))
	var conflicts []errors.Conflict

	batchCounts := make(map[string]int, len(names))
	for _, name := range names {
		batchCounts[name]++
	}

	for _, device := range devices {
		for _, name := range names {
			if batchCounts[name] > 1 {
				conflicts = append(conflicts, errors.Conflict{
					DeviceID: device.ID,
					Name:     name,
					Reason:   "name claimed more than once in this batch",
				})
				continue
			}

			if _, taken := device.Existing[name]; taken {
				conflicts = append(conflicts, errors.Conflict{
					DeviceID: device.ID,
					Name:     name,
					Reason:   "duplicate name",
				})
				continue
			}

			if err := attrs.Validate(kind); err != nil {
				conflicts = append(conflicts, errors.Conflict{
					DeviceID: device.ID,
					Name:     name,
					Reason:   err.Error(),
				})
				continue
			}

			candidate := Candidate{
				DeviceID:   device.ID,
				Name:       name,
				Kind:       kind,
				Attributes: attrs,
			}
			if kind == porttypes.ComponentKindInterface && candidate.Attributes.FormFactor == "" {
				candidate.Attributes.FormFactor = DefaultFormFactor
			}

			candidates = append(candidates, candidate)
		}
	}

	if len(conflicts) > 0 {
		return nil, conflicts
	}

	return candidates, nil
}
