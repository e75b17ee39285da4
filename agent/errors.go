// SPDX-License-Identifier: GPL-3.0-or-later

package agent

import "fmt"

// ConnectionError means the server could not be reached or refused the credentials.
type ConnectionError struct {
	DSN string // password masked
	Err error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("error on connecting to the mysql server [%s]: %v", e.DSN, e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }
