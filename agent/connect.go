// SPDX-License-Identifier: GPL-3.0-or-later

package agent

import (
	"context"
	"database/sql"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
)

// DSN builds the driver data source name. The host may be a plain name,
// "name:port", or ":/path/to/socket". A socket from my.cnf is only used
// for "localhost".
func (c Config) DSN() string {
	cfg := mysql.NewConfig()
	cfg.User = c.User
	cfg.Passwd = c.Pass
	cfg.Timeout = c.Timeout.Duration()
	cfg.Net, cfg.Addr = c.address()
	return cfg.FormatDSN()
}

func (c Config) address() (network, addr string) {
	switch {
	case strings.HasPrefix(c.Host, ":/"):
		return "unix", c.Host[1:]
	case strings.HasPrefix(c.Host, "/"):
		return "unix", c.Host
	case c.Socket != "" && c.Host == "localhost":
		return "unix", c.Socket
	}
	if _, _, err := net.SplitHostPort(c.Host); err == nil {
		return "tcp", c.Host
	}
	return "tcp", net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

func safeDSN(dsn string) string {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return ""
	}
	cfg.Passwd = strings.Repeat("x", len(cfg.Passwd))
	return cfg.FormatDSN()
}

func openConnection(ctx context.Context, dsn string, timeout time.Duration) (*sql.DB, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, &ConnectionError{DSN: safeDSN(dsn), Err: err}
	}

	// named locks live in the session, everything runs on one connection
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(10 * time.Minute)

	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, &ConnectionError{DSN: safeDSN(dsn), Err: err}
	}
	return db, nil
}
