// SPDX-License-Identifier: GPL-3.0-or-later

package buildinfo

// Version stores the program version. Set on build via -ldflags "-X github.com/netdata/netdata/go/mysqlstats/pkg/buildinfo.Version=..."
var Version = "v0.0.0"
