// SPDX-License-Identifier: GPL-3.0-or-later

package mysql

import "fmt"

// QueryError is a failed statement of the query catalog.
type QueryError struct {
	Query string
	Err   error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("error on executing query '%s': %v", e.Query, e.Err)
}

func (e *QueryError) Unwrap() error { return e.Err }
