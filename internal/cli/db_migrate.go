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
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/rackforge/topology/internal/config"
	"github.com/rackforge/topology/internal/db/migrations"
	"github.com/rackforge/topology/internal/db/postgres"
)

var (
	rollBack string

	dbCmd = &cobra.Command{
		Use:   "db",
		Short: "Database maintenance",
	}

	migrateCmd = &cobra.Command{
		Use:   "migrate",
		Short: "Run the db migration",
		Long:  `Run the db migration`,
		Run: func(cmd *cobra.Command, args []string) {
			doMigration()
		},
	}
)

func init() {
	dbCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(dbCmd)

	migrateCmd.Flags().StringVarP(&rollBack, "rollback", "r", "", "Roll back the schema to the way it was at the specified time.  This is the application time, not from the ID.  Format 2006-01-02T15:04:05")
}

func doMigration() {
	cfg := config.ReadConfig()

	dbConfig := cfg.DBConfig()
	if err := dbConfig.Validate(); err != nil {
		log.Fatal().Msgf("Unable to build database configuration: %v", err)
	}

	ctx := context.Background()

	db, err := postgres.New(ctx, dbConfig)
	if err != nil {
		log.Fatal().Msgf("failed to connect to DB: %v", err)
	}

	if rollBack != "" {
		rollbackTime, err := time.Parse("2006-01-02T15:04:05", rollBack)
		if err != nil {
			log.Fatal().Msg("Bad rollback time")
		}
		if err := migrations.Rollback(ctx, db, rollbackTime); err != nil {
			log.Fatal().Msgf("Failed to roll back migrations: %v", err)
		}
	} else {
		if err := migrations.Migrate(ctx, db); err != nil {
			log.Fatal().Msgf("Failed to run migrations: %v", err)
		}
	}
}
