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

// Package db holds the database connection configuration shared by the
// storage backends.
package db

import (
	"errors"
	"fmt"
)

// Config represents the configuration needed to connect to a database.
type Config struct {
	Host              string
	Port              int
	User              string
	Password          string
	DBName            string
	CACertificatePath string
}

// Validate checks if the Config fields are set correctly.
func (c *Config) Validate() error {
	if c.Host == "" {
		return errors.New("database host is required")
	}

	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid database port %d", c.Port)
	}

	if c.User == "" {
		return errors.New("database user is required")
	}

	if c.DBName == "" {
		return errors.New("database name is required")
	}

	return nil
}

// BuildDSN builds the Data Source Name (DSN) string for connecting to
// the database.
func (c *Config) BuildDSN() string {
	dsn := fmt.Sprintf(
		"postgres://%v:%v@%v:%v/%v?sslmode=",
		c.User,
		c.Password,
		c.Host,
		c.Port,
		c.DBName,
	)

	if len(c.CACertificatePath) > 0 {
		dsn += fmt.Sprintf(
			"prefer&sslrootcert=%v",
			c.CACertificatePath,
		)
	} else {
		dsn += "disable"
	}

	return dsn
}

// ErrorChecker classifies driver errors so the storage layer can translate
// them without depending on a specific backend.
type ErrorChecker interface {
	IsErrNoRows(err error) bool
	IsUniqueConstraintError(err error) bool
	IsSerializationError(err error) bool
}
