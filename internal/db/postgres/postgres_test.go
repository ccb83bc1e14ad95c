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
	"database/sql"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestPostgresErrorChecker(t *testing.T) {
	checker := &PostgresErrorChecker{}

	tests := map[string]struct {
		err           error
		noRows        bool
		unique        bool
		serialization bool
	}{
		"nil": {},
		"no rows": {
			err:    sql.ErrNoRows,
			noRows: true,
		},
		"wrapped no rows": {
			err:    fmt.Errorf("get component: %w", sql.ErrNoRows),
			noRows: true,
		},
		"unique violation": {
			err:    &pgconn.PgError{Code: "23505"},
			unique: true,
		},
		"serialization failure": {
			err:           &pgconn.PgError{Code: "40001"},
			serialization: true,
		},
		"deadlock": {
			err:           &pgconn.PgError{Code: "40P01"},
			serialization: true,
		},
		"other pg error": {
			err: &pgconn.PgError{Code: "23503"},
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, test.noRows, checker.IsErrNoRows(test.err))
			assert.Equal(t, test.unique, checker.IsUniqueConstraintError(test.err))
			assert.Equal(t, test.serialization, checker.IsSerializationError(test.err))
		})
	}
}
