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

// Package config defines a configuration file that allows tweaking values on
// a per environment basis. Default values are used if the file is missing or
// for individual values that were not specified.
package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"github.com/rackforge/topology/internal/db"
)

const defaultLocation = "/etc/rackforge/topology.yaml"

// Database is the record-store section of the config file. The password is
// never read from the file; it comes from the TOPOLOGY_DB_PASSWORD
// environment variable, which godotenv may load from a .env file.
type Database struct {
	Host              string `yaml:"host"`
	Port              int    `yaml:"port"`
	User              string `yaml:"user"`
	DBName            string `yaml:"dbname"`
	CACertificatePath string `yaml:"ca_certificate_path"`
}

// Config is the set of configuration values read from an environment
// specific config file.
type Config struct {
	Database       Database      `yaml:"database"`
	ConnectTimeout time.Duration `yaml:"connect_timeout"`
	Site           string        `yaml:"site"`
}

// defaultConfig sets up the default values used when something is not specified
func defaultConfig() Config {
	return Config{
		Database: Database{
			Host:   "localhost",
			Port:   5432,
			User:   "topology",
			DBName: "topology",
		},
		ConnectTimeout: 30 * time.Second,
	}
}

// ReadConfig reads a configuration file if present and returns a Config with
// the details. A config file with invalid syntax will result in a fatal
// error.
func ReadConfig() (config Config) {
	// A .env file, when present, supplies the environment before any
	// lookups below. Missing files are fine.
	_ = godotenv.Load()

	filename := os.Getenv("TOPOLOGY_CONFIG_FILE")
	if filename == "" {
		filename = defaultLocation
	}

	file, err := os.Open(filename)
	if err != nil {
		log.Warn().Msgf("Config file %s not found, using defaults.", filename)
		return defaultConfig()
	}
	defer file.Close()

	// Will use default values for anything not specified
	config = defaultConfig()
	if err := yaml.NewDecoder(file).Decode(&config); err != nil {
		log.Fatal().Msgf("Invalid configuration file %s: %v", filename, err)
	}

	return config
}

// DBConfig assembles the record-store connection config, pulling the
// password from the environment.
func (c Config) DBConfig() db.Config {
	return db.Config{
		Host:              c.Database.Host,
		Port:              c.Database.Port,
		User:              c.Database.User,
		Password:          os.Getenv("TOPOLOGY_DB_PASSWORD"),
		DBName:            c.Database.DBName,
		CACertificatePath: c.Database.CACertificatePath,
	}
}

// UnitTestConfig returns a Config that is suitable for running unit tests.
func UnitTestConfig() Config {
	cfg := defaultConfig()
	cfg.ConnectTimeout = time.Millisecond

	return cfg
}
