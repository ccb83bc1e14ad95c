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

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/rackforge/topology/pkg/common/porttypes"
)

var (
	exportFamily string
	exportRackID string
	exportFace   string
	exportOut    string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export topology data to xlsx",
}

func newExportConnectionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "connections",
		Short: "Export the connection list of one port family",
		Long: `Export every recorded connection of a port family to an xlsx file.

Examples:
  topoctl export connections --family console --out console.xlsx
  topoctl export connections --family interface --out links.xlsx
`,
		Run: func(cmd *cobra.Command, args []string) {
			doExportConnections()
		},
	}

	cmd.Flags().StringVar(&exportFamily, "family", "", "Port family: console, power, interface (required)")
	cmd.Flags().StringVar(&exportOut, "out", "", "Output file path (required)")

	_ = cmd.MarkFlagRequired("family")
	_ = cmd.MarkFlagRequired("out")

	return cmd
}

func newExportElevationCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "elevation",
		Short: "Export one rack face as a spreadsheet",
		Run: func(cmd *cobra.Command, args []string) {
			doExportElevation()
		},
	}

	cmd.Flags().StringVar(&exportRackID, "rack-id", "", "Rack UUID (required)")
	cmd.Flags().StringVar(&exportFace, "face", "front", "Rack face: front, rear")
	cmd.Flags().StringVar(&exportOut, "out", "", "Output file path (required)")

	_ = cmd.MarkFlagRequired("rack-id")
	_ = cmd.MarkFlagRequired("out")

	return cmd
}

func init() {
	exportCmd.AddCommand(newExportConnectionsCmd())
	exportCmd.AddCommand(newExportElevationCmd())
	rootCmd.AddCommand(exportCmd)
}

func parseFamily(s string) porttypes.PortFamily {
	switch s {
	case "console":
		return porttypes.PortFamilyConsole
	case "power":
		return porttypes.PortFamilyPower
	case "interface":
		return porttypes.PortFamilyInterface
	default:
		log.Fatal().Str("family", s).Msg("Invalid port family")
		return porttypes.PortFamilyNone
	}
}

func doExportConnections() {
	family := parseFamily(exportFamily)

	ctx := context.Background()
	mgr, closeFn := newManager(ctx)
	defer closeFn()

	if err := mgr.ExportConnections(ctx, family, exportOut); err != nil {
		log.Fatal().Err(err).Msg("Failed to export connections")
	}
}

func doExportElevation() {
	rackID, err := uuid.Parse(exportRackID)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid rack UUID")
	}

	face := parseFace(exportFace)

	ctx := context.Background()
	mgr, closeFn := newManager(ctx)
	defer closeFn()

	if err := mgr.ExportElevation(ctx, rackID, face, exportOut); err != nil {
		log.Fatal().Err(err).Msg("Failed to export the elevation")
	}
}
