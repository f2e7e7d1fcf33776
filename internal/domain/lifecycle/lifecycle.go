// Package lifecycle holds shared constants for component start/stop handling.
package lifecycle

import "time"

// DefaultTimeout bounds start and stop hooks (DB ping, server shutdown).
const DefaultTimeout = 10 * time.Second
