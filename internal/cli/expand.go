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
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/rackforge/topology/pkg/namepattern"
)

func newExpandCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "expand <pattern>",
		Short: "Expand a numeric name pattern",
		Long: `Expand a name pattern into the full name list it denotes.

A pattern may contain any number of [start-end] ranges; ranges expand in
document order with the leftmost range varying slowest.

Examples:
  topoctl expand "eth[0-3]"
  topoctl expand "ge-[0-1]/0/[0-47]"
`,
		Args: cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			names, err := namepattern.Expand(args[0])
			if err != nil {
				log.Fatal().Err(err).Msg("Invalid name pattern")
			}

			for _, name := range names {
				fmt.Println(name)
			}
		},
	}
}

func init() {
	rootCmd.AddCommand(newExpandCmd())
}
