// Copyright 2025 Kadir Pekel
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
)

// DatabaseConfig holds the account data store connection.
// Supports SQL Server, PostgreSQL, MySQL, and SQLite.
type DatabaseConfig struct {
	// Driver specifies the database driver: "sqlserver", "postgres", "mysql", or "sqlite"
	Driver string `yaml:"driver" json:"driver" jsonschema:"title=Database Type,description=Type of database,enum=sqlserver,enum=mssql,enum=postgres,enum=mysql,enum=sqlite,enum=sqlite3"`

	// Host is the database server hostname (not required for SQLite).
	Host string `yaml:"host,omitempty" json:"host,omitempty" jsonschema:"title=Host,description=Database server hostname (not required for SQLite)"`

	// Port is the database server port (not required for SQLite).
	Port int `yaml:"port,omitempty" json:"port,omitempty" jsonschema:"title=Port,description=Database server port (not required for SQLite)"`

	// Database is the database name (or file path for SQLite).
	Database string `yaml:"database" json:"database" jsonschema:"title=Database,description=Database name (or file path for SQLite)"`

	// Username for database authentication (not required for SQLite).
	Username string `yaml:"username,omitempty" json:"username,omitempty" jsonschema:"title=Username"`

	// Password for database authentication (not required for SQLite).
	Password string `yaml:"password,omitempty" json:"password,omitempty" jsonschema:"title=Password"`

	// SSLMode for PostgreSQL connections.
	SSLMode string `yaml:"ssl_mode,omitempty" json:"ssl_mode,omitempty" jsonschema:"title=SSL Mode,description=SSL mode for PostgreSQL connections"`

	// Timeout bounds connecting and pinging the server.
	Timeout time.Duration `yaml:"timeout,omitempty" json:"timeout,omitempty" jsonschema:"title=Timeout,description=Connection timeout (e.g. 30s),type=string,default=30s"`
}

// SetDefaults applies default values to the database config.
func (c *DatabaseConfig) SetDefaults() {
	if c.Timeout == 0 {
		c.Timeout = 30 * time.Second
	}

	// Default ports per driver
	if c.Port == 0 {
		switch c.Dialect() {
		case "postgres":
			c.Port = 5432
		case "mysql":
			c.Port = 3306
		case "sqlserver":
			c.Port = 1433
		}
	}

	// Default SSL mode for PostgreSQL
	if c.Driver == "postgres" && c.SSLMode == "" {
		c.SSLMode = "disable"
	}
}

// Validate checks the database configuration.
func (c *DatabaseConfig) Validate() error {
	if c.Driver == "" {
		return fmt.Errorf("driver is required")
	}

	validDrivers := map[string]bool{
		"sqlserver": true,
		"mssql":     true,
		"postgres":  true,
		"mysql":     true,
		"sqlite":    true,
		"sqlite3":   true,
	}
	if !validDrivers[c.Driver] {
		return fmt.Errorf("invalid driver %q (valid: sqlserver, postgres, mysql, sqlite)", c.Driver)
	}

	if c.Database == "" {
		return fmt.Errorf("database is required")
	}

	if c.Dialect() != "sqlite" && c.Host == "" {
		return fmt.Errorf("host is required for %s", c.Driver)
	}

	if c.Timeout < 0 {
		return fmt.Errorf("timeout must be non-negative")
	}

	return nil
}

// DSN returns the data source name (connection string) for the database.
func (c *DatabaseConfig) DSN() string {
	switch c.Dialect() {
	case "sqlserver":
		query := url.Values{}
		query.Set("database", c.Database)
		if c.Timeout > 0 {
			query.Set("connection timeout", strconv.Itoa(int(c.Timeout.Seconds())))
		}
		u := &url.URL{
			Scheme:   "sqlserver",
			Host:     net.JoinHostPort(c.Host, strconv.Itoa(c.Port)),
			RawQuery: query.Encode(),
		}
		if c.Username != "" {
			u.User = url.UserPassword(c.Username, c.Password)
		}
		return u.String()
	case "postgres":
		query := url.Values{}
		if c.SSLMode != "" {
			query.Set("sslmode", c.SSLMode)
		}
		if c.Timeout > 0 {
			query.Set("connect_timeout", strconv.Itoa(int(c.Timeout.Seconds())))
		}
		u := &url.URL{
			Scheme:   "postgres",
			Host:     net.JoinHostPort(c.Host, strconv.Itoa(c.Port)),
			Path:     "/" + c.Database,
			RawQuery: query.Encode(),
		}
		if c.Username != "" || c.Password != "" {
			u.User = url.UserPassword(c.Username, c.Password)
		}
		return u.String()
	case "mysql":
		mc := mysql.NewConfig()
		mc.User = c.Username
		mc.Passwd = c.Password
		mc.Net = "tcp"
		mc.Addr = net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
		mc.DBName = c.Database
		mc.ParseTime = true
		mc.Timeout = c.Timeout
		return mc.FormatDSN()
	case "sqlite":
		// For SQLite, database is the file path
		if c.Timeout > 0 && !strings.Contains(c.Database, "?") {
			return fmt.Sprintf("%s?_busy_timeout=%d", c.Database, c.Timeout.Milliseconds())
		}
		return c.Database
	default:
		return ""
	}
}

// Redacted returns the DSN with the password masked, for logs.
func (c *DatabaseConfig) Redacted() string {
	if c.Password == "" {
		return c.DSN()
	}
	masked := *c
	masked.Password = "xxxxx"
	return masked.DSN()
}

// DriverName returns the registered database/sql driver name.
// Converts "sqlite" to "sqlite3" for the go-sqlite3 driver.
func (c *DatabaseConfig) DriverName() string {
	switch c.Driver {
	case "sqlite":
		return "sqlite3"
	case "mssql":
		return "sqlserver"
	}
	return c.Driver
}

// Dialect returns the normalized SQL dialect name for query building.
func (c *DatabaseConfig) Dialect() string {
	switch c.Driver {
	case "sqlite3":
		return "sqlite"
	case "mssql":
		return "sqlserver"
	}
	return c.Driver
}
