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

// Package migrations applies the embedded SQL schema migrations. Each
// migration is an ID_NAME.up.sql file with a matching .down.sql; the
// applied set is tracked in a migrations table.
package migrations

import (
	"context"
	"crypto/sha256"
	"embed"
	"encoding/hex"
	"fmt"
	"io"
	"io/fs"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/uptrace/bun"

	"github.com/rackforge/topology/internal/db/postgres"
)

//go:embed *.sql
var sqlMigrations embed.FS

var migrationName = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// Migrate ensures that the database contains all currently known migrations.
func Migrate(ctx context.Context, db *postgres.Postgres) error {
	return run(ctx, db, nil)
}

// Rollback rolls back the migrations applied since the given time.
func Rollback(ctx context.Context, db *postgres.Postgres, since time.Time) error {
	return run(ctx, db, &since)
}

// lockMigrationTable returns with the applied-migrations table present and
// locked, so concurrent instances serialize on schema changes. On a very
// first run racing instances may abort on the create and restart.
func lockMigrationTable(ctx context.Context, tx *bun.Tx) error {
	_, err := tx.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS migrations (
					id TEXT NOT NULL PRIMARY KEY,
					name TEXT NOT NULL,
					hash TEXT NOT NULL,
					applied_date TIMESTAMP NOT NULL DEFAULT NOW()
					)`)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, "LOCK TABLE migrations")
	return err
}

type appliedMigration struct {
	id      string
	hash    string
	applied time.Time
}

func appliedMigrations(ctx context.Context, tx *bun.Tx) (map[string]appliedMigration, error) {
	applied := make(map[string]appliedMigration)

	rows, err := tx.QueryContext(ctx, "SELECT id, hash, applied_date FROM migrations")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var m appliedMigration
		if err := rows.Scan(&m.id, &m.hash, &m.applied); err != nil {
			return nil, err
		}
		applied[m.id] = m
	}

	return applied, rows.Err()
}

// parseFilename splits ID_NAME.up.sql (or .down.sql) into its parts. The ID
// is a timestamp in practice.
func parseFilename(path string, up bool) (id string, name string, ok bool) {
	suffix := ".up.sql"
	if !up {
		suffix = ".down.sql"
	}

	if !strings.HasSuffix(path, suffix) {
		return "", "", false
	}

	split := strings.SplitN(strings.TrimSuffix(path, suffix), "_", 2)
	if len(split) != 2 {
		log.Fatal().Msgf("Invalid migration filename %q, expected format: TIMESTAMP_NAME%s", path, suffix)
	}

	if !migrationName.MatchString(split[1]) {
		log.Fatal().Msgf("Invalid migration name %q in %q, must match [a-z][a-z0-9_]*", split[1], path)
	}

	return split[0], split[1], true
}

func contentHash(contents []byte) string {
	hash := sha256.Sum256(contents)
	return hex.EncodeToString(hash[:])
}

// counterpartPresent verifies the matching up/down file exists, so a
// migration is never applied without a way back.
func counterpartPresent(path string) bool {
	var alt string
	if strings.HasSuffix(path, ".up.sql") {
		alt = strings.TrimSuffix(path, ".up.sql") + ".down.sql"
	} else {
		alt = strings.TrimSuffix(path, ".down.sql") + ".up.sql"
	}

	file, err := sqlMigrations.Open(alt)
	if err != nil {
		return false
	}
	file.Close()
	return true
}

func readContents(path string) ([]byte, error) {
	file, err := sqlMigrations.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return io.ReadAll(file)
}

func apply(ctx context.Context, tx *bun.Tx, id, name string, contents []byte, rollback bool) error {
	if rollback {
		log.Info().Msgf("Rolling back migration %s (%s)", name, id)
	} else {
		log.Info().Msgf("Applying new migration %s (%s)", name, id)
	}

	// A migration may be split on -- SECTION markers so a failure points
	// at the responsible statement group.
	for _, section := range strings.Split(string(contents), "-- SECTION") {
		if _, err := tx.Exec(section); err != nil {
			return fmt.Errorf("migration %s failed: %v       Command: %s", id, err, section)
		}
	}

	var err error
	if rollback {
		_, err = tx.ExecContext(ctx, "DELETE FROM migrations WHERE id = ?0", id)
	} else {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO migrations (id, name, hash) VALUES (?0, ?1, ?2)",
			id, name, contentHash(contents))
	}
	return err
}

type pendingMigration struct {
	id   string
	name string
	path string
}

func run(ctx context.Context, db *postgres.Postgres, rollbackTime *time.Time) error {
	return db.RunInTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		if err := lockMigrationTable(ctx, &tx); err != nil {
			return err
		}

		applied, err := appliedMigrations(ctx, &tx)
		if err != nil {
			return err
		}

		rollback := rollbackTime != nil
		var pending []pendingMigration

		if err := fs.WalkDir(sqlMigrations, ".", func(path string, d fs.DirEntry, err error) error {
			id, name, ok := parseFilename(path, !rollback)
			if !ok {
				return nil
			}
			if !counterpartPresent(path) {
				return fmt.Errorf("migration file %s does not have a matching down/up migration", path)
			}

			migration, alreadyApplied := applied[id]
			if rollback {
				if !alreadyApplied || !rollbackTime.Before(migration.applied) {
					return nil
				}
			} else if alreadyApplied {
				// Verify the file was not altered after it was applied.
				contents, err := readContents(path)
				if err != nil {
					return err
				}
				if contentHash(contents) != migration.hash {
					return fmt.Errorf("hash for migration %s (%s) does not match the already applied migration, aborting", name, id)
				}
				return nil
			}

			pending = append(pending, pendingMigration{id: id, name: name, path: path})
			return nil
		}); err != nil {
			return err
		}

		// Forward runs oldest first, rollback newest first.
		sort.Slice(pending, func(i, j int) bool {
			if rollback {
				return pending[i].id > pending[j].id
			}
			return pending[i].id < pending[j].id
		})

		for _, m := range pending {
			contents, err := readContents(m.path)
			if err != nil {
				return err
			}
			if err := apply(ctx, &tx, m.id, m.name, contents, rollback); err != nil {
				return err
			}
		}

		if len(pending) == 0 {
			log.Info().Msg("Database schema up to date, no migrations applied")
		}

		return nil
	})
}
