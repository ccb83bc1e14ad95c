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

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadConfigMissingFileUsesDefaults(t *testing.T) {
	t.Setenv("TOPOLOGY_CONFIG_FILE", filepath.Join(t.TempDir(), "nope.yaml"))

	cfg := ReadConfig()

	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, 30*time.Second, cfg.ConnectTimeout)
}

func TestReadConfigPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "topology.yaml")
	contents := []byte("site: dal01\ndatabase:\n  host: db.internal\n")
	require.NoError(t, os.WriteFile(path, contents, 0o600))
	t.Setenv("TOPOLOGY_CONFIG_FILE", path)

	cfg := ReadConfig()

	assert.Equal(t, "dal01", cfg.Site)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	// Unspecified values fall back to defaults.
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "topology", cfg.Database.User)
}

func TestDBConfigPasswordFromEnv(t *testing.T) {
	t.Setenv("TOPOLOGY_CONFIG_FILE", filepath.Join(t.TempDir(), "nope.yaml"))
	t.Setenv("TOPOLOGY_DB_PASSWORD", "hunter2")

	dbConfig := ReadConfig().DBConfig()

	assert.Equal(t, "hunter2", dbConfig.Password)
	require.NoError(t, dbConfig.Validate())
}
