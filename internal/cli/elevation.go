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

package cli

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/rackforge/topology/pkg/elevation"
)

var (
	elevationRackID string
	elevationFace   string
)

func newElevationCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "elevation",
		Short: "Render one face of a rack",
		Long: `Render a rack face as a unit-by-unit listing, top of the rack first.

Examples:
  topoctl elevation --rack-id "uuid" --face front
  topoctl elevation --rack-id "uuid" --face rear
`,
		Run: func(cmd *cobra.Command, args []string) {
			doElevation()
		},
	}

	cmd.Flags().StringVar(&elevationRackID, "rack-id", "", "Rack UUID (required)")
	cmd.Flags().StringVar(&elevationFace, "face", "front", "Rack face: front, rear")

	_ = cmd.MarkFlagRequired("rack-id")

	return cmd
}

func init() {
	rootCmd.AddCommand(newElevationCmd())
}

func parseFace(s string) elevation.Face {
	switch s {
	case "front":
		return elevation.FaceFront
	case "rear":
		return elevation.FaceRear
	default:
		log.Fatal().Str("face", s).Msg("Invalid rack face")
		return elevation.FaceFront
	}
}

func doElevation() {
	rackID, err := uuid.Parse(elevationRackID)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid rack UUID")
	}

	face := parseFace(elevationFace)

	ctx := context.Background()
	mgr, closeFn := newManager(ctx)
	defer closeFn()

	rack, units, err := mgr.Elevation(ctx, rackID, face)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to build the elevation")
	}

	fmt.Printf("%s (%s face, %dU)\n", rack.Name, face, rack.Height)

	// Units print top of the rack first. Descending-numbered racks have
	// unit 1 at the top already.
	for i := range units {
		u := units[i]
		if !rack.DescUnits {
			u = units[len(units)-1-i]
		}

		name := "--"
		if u.Device != nil {
			name = u.Device.Name
		}
		fmt.Printf("U%02d  %s\n", u.Number, name)
	}
}
