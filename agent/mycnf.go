// SPDX-License-Identifier: GPL-3.0-or-later

package agent

import (
	"errors"
	"fmt"
	"strconv"

	"gopkg.in/ini.v1"
)

// clientSection holds the connection options of a my.cnf [client] section.
type clientSection struct {
	user     string
	password string
	host     string
	port     int
	socket   string
}

func readMyCNF(filename string) (clientSection, error) {
	var client clientSection

	f, err := ini.Load(filename)
	if err != nil {
		return client, fmt.Errorf("error on reading '%s': %v", filename, err)
	}

	section, err := f.GetSection("client")
	if err != nil {
		return client, errors.New("section 'client' not found")
	}

	client.user = section.Key("user").String()
	client.password = section.Key("password").String()
	client.host = section.Key("host").String()
	client.socket = section.Key("socket").String()

	if s := section.Key("port").String(); s != "" {
		port, err := strconv.Atoi(s)
		if err != nil {
			return client, fmt.Errorf("invalid port '%s' in '%s'", s, filename)
		}
		client.port = port
	}

	return client, nil
}

// applyTo overrides the credentials and connection defaults of cfg with the
// options present in the section. A socket wins over host and port, as for
// the mysql client.
func (s clientSection) applyTo(cfg *Config) {
	if s.user != "" {
		cfg.User = s.user
	}
	if s.password != "" {
		cfg.Pass = s.password
	}
	if s.socket != "" {
		cfg.Socket = s.socket
		return
	}
	if s.host != "" && cfg.Host == "" {
		cfg.Host = s.host
	}
	if s.port != 0 {
		cfg.Port = s.port
	}
}
