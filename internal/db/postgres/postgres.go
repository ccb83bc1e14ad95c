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

package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"

	"github.com/rackforge/topology/internal/db"
)

type Postgres struct {
	dbName       string
	db           *bun.DB
	errorChecker db.ErrorChecker
}

func New(ctx context.Context, c db.Config) (*Postgres, error) {
	pool, err := pgxpool.New(ctx, c.BuildDSN())
	if err != nil {
		return nil, err
	}

	return &Postgres{
		dbName:       c.DBName,
		db:           bun.NewDB(stdlib.OpenDBFromPool(pool), pgdialect.New()),
		errorChecker: &PostgresErrorChecker{},
	}, nil
}

func (p *Postgres) Close(ctx context.Context) error {
	return p.db.Close()
}

func (p *Postgres) BeginTx(ctx context.Context) (bun.Tx, error) {
	return p.db.BeginTx(ctx, &sql.TxOptions{})
}

// txAttempts bounds the serialization-failure retry loop in RunInTx.
const txAttempts = 3

// RunInTx runs fn in a serializable transaction. Concurrent writers that
// race past an application-level check are forced down to one winner; the
// losers fail with SQLSTATE 40001 and are retried, re-running their checks
// against the committed state.
func (p *Postgres) RunInTx(
	ctx context.Context,
	fn func(ctx context.Context, tx bun.Tx) error,
) error {
	opts := &sql.TxOptions{Isolation: sql.LevelSerializable}

	var err error
	for attempt := 0; attempt < txAttempts; attempt++ {
		err = p.db.RunInTx(ctx, opts, fn)
		if !p.errorChecker.IsSerializationError(err) {
			return err
		}
	}

	return err
}

func (p *Postgres) ErrorChecker() db.ErrorChecker {
	return p.errorChecker
}

func (p *Postgres) DB() *bun.DB {
	return p.db
}

type PostgresErrorChecker struct{}

func (checker *PostgresErrorChecker) IsErrNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

func (checker *PostgresErrorChecker) IsUniqueConstraintError(err error) bool {
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			if pgErr.Code == "23505" {
				return true
			}
		}
	}

	return false
}

func (checker *PostgresErrorChecker) IsSerializationError(err error) bool {
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			// serialization_failure and deadlock_detected; both are safe
			// to retry once the conflicting transaction has finished.
			if pgErr.Code == "40001" || pgErr.Code == "40P01" {
				return true
			}
		}
	}

	return false
}
