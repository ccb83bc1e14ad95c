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

// Package cli implements the topoctl command set.
package cli

import (
	"context"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/rackforge/topology/internal/config"
	"github.com/rackforge/topology/internal/db/postgres"
	"github.com/rackforge/topology/internal/topology/manager"
)

var rootCmd = &cobra.Command{
	Use:   "topoctl",
	Short: "Data-center topology operations",
	Long:  `topoctl manages rack elevations, port connections and bulk component provisioning.`,
}

// Execute runs the root command.
func Execute() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newManager connects to the record store from the environment config and
// returns the topology manager plus a close function.
func newManager(ctx context.Context) (manager.Manager, func()) {
	cfg := config.ReadConfig()

	dbConfig := cfg.DBConfig()
	if err := dbConfig.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid database configuration")
	}

	connectCtx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()

	pg, err := postgres.New(connectCtx, dbConfig)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to the database")
	}

	return manager.New(manager.NewPostgres(pg)), func() {
		if err := pg.Close(ctx); err != nil {
			log.Warn().Err(err).Msg("Failed to close the database connection")
		}
	}
}
