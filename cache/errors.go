// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import "fmt"

// CacheWriteError means the snapshot file could not be created or written.
type CacheWriteError struct {
	Path string
	Err  error
}

func (e *CacheWriteError) Error() string {
	return fmt.Sprintf("can't write cache file '%s': %v", e.Path, e.Err)
}

func (e *CacheWriteError) Unwrap() error { return e.Err }
