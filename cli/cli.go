// SPDX-License-Identifier: GPL-3.0-or-later

package cli

import (
	"strings"

	"github.com/jessevdk/go-flags"

	"github.com/netdata/netdata/go/mysqlstats/agent"
	"github.com/netdata/netdata/go/mysqlstats/pkg/executable"
)

// Option defines command line options.
type Option struct {
	Host      string `long:"host" value-name:"HOST" description:"server to poll: name, name:port or :/path/to/socket"`
	Items     string `long:"items" value-name:"CODES" description:"comma-separated output codes to print"`
	User      string `long:"user" description:"user to connect as"`
	Pass      string `long:"pass" description:"password of the user"`
	Port      int    `long:"port" description:"server port"`
	Heartbeat string `long:"heartbeat" value-name:"DB.TABLE" description:"heartbeat table to read replication lag from"`
	NoCache   bool   `long:"nocache" description:"do not read or write the snapshot cache"`
	Config    string `short:"c" long:"config" description:"YAML config file to read"`
	Debug     bool   `short:"d" long:"debug" description:"debug mode, query failures are fatal"`
	Version   bool   `short:"v" long:"version" description:"display the version and exit"`
}

// Parse returns parsed command-line flags in Option struct.
// args must not include the program name. Errors are not printed.
func Parse(args []string) (*Option, error) {
	opt := &Option{}
	parser := flags.NewParser(opt, flags.HelpFlag|flags.PassDoubleDash)
	parser.Name = executable.Name
	parser.Usage = "--host=HOST --items=CODES [OPTIONS]"

	if _, err := parser.ParseArgs(args); err != nil {
		return nil, err
	}
	if opt.Version {
		return opt, nil
	}

	if opt.Host == "" {
		return nil, requiredError("--host")
	}
	if len(opt.ItemList()) == 0 {
		return nil, requiredError("--items")
	}

	return opt, nil
}

func IsHelp(err error) bool {
	return flags.WroteHelp(err)
}

// ItemList splits --items into codes, dropping empty entries.
func (o *Option) ItemList() []string {
	var items []string
	for _, item := range strings.Split(o.Items, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

// ApplyTo overrides cfg with the options given on the command line.
func (o *Option) ApplyTo(cfg *agent.Config) {
	cfg.Host = o.Host
	cfg.Items = o.ItemList()

	if o.User != "" {
		cfg.User = o.User
	}
	if o.Pass != "" {
		cfg.Pass = o.Pass
	}
	if o.Port != 0 {
		cfg.Port = o.Port
	}
	if o.Heartbeat != "" {
		cfg.Heartbeat = o.Heartbeat
	}
	if o.NoCache {
		cfg.NoCache = true
	}
	if o.Debug {
		cfg.Debug = true
	}
}

func requiredError(option string) error {
	return &flags.Error{
		Type:    flags.ErrRequired,
		Message: "the required flag `" + option + "' was not specified",
	}
}
