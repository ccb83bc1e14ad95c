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

// Package export writes declared-topology reports as spreadsheets for
// operators who work rack lists offline.
package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/rackforge/topology/pkg/elevation"
)

const sheetName = "Sheet1"

// ConnectionRow is one declared port connection, rendered from the
// dependent (or side A) end.
type ConnectionRow struct {
	DeviceA string
	PortA   string
	DeviceB string
	PortB   string
	Status  string
}

// Connections writes a connection list to an xlsx file at path.
func Connections(rows []ConnectionRow, title string, path string) error {
	f := excelize.NewFile()
	defer f.Close()

	headers := []string{"Device A", "Port A", "Device B", "Port B", "Status"}
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheetName, cell, h); err != nil {
			return err
		}
	}

	for r, row := range rows {
		values := []string{row.DeviceA, row.PortA, row.DeviceB, row.PortB, row.Status}
		for c, v := range values {
			cell, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheetName, cell, v); err != nil {
				return err
			}
		}
	}

	if err := f.SetSheetName(sheetName, title); err != nil {
		return err
	}

	return f.SaveAs(path)
}

// Elevation writes one rack face's elevation to an xlsx file at path,
// top of the rack first.
func Elevation(rack elevation.Rack, units []elevation.Unit, face elevation.Face, path string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetCellValue(sheetName, "A1", "Unit"); err != nil {
		return err
	}
	if err := f.SetCellValue(sheetName, "B1", "Device"); err != nil {
		return err
	}

	// Ascending-numbered racks have unit 1 at the bottom, so the top of
	// the rack is the end of the slice.
	ordered := make([]elevation.Unit, len(units))
	copy(ordered, units)
	if !rack.DescUnits {
		for i, j := 0, len(ordered)-1; i < j; i, j = i+1, j-1 {
			ordered[i], ordered[j] = ordered[j], ordered[i]
		}
	}

	for i, u := range ordered {
		row := i + 2
		if err := f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), u.Number); err != nil {
			return err
		}

		name := ""
		if u.Device != nil {
			name = u.Device.Name
		}
		if err := f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), name); err != nil {
			return err
		}
	}

	title := fmt.Sprintf("%s %s", rack.Name, face)
	if err := f.SetSheetName(sheetName, title); err != nil {
		return err
	}

	return f.SaveAs(path)
}
