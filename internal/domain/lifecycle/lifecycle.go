// Package lifecycle holds process-wide start/stop constants.
package lifecycle

import "time"

// DefaultTimeout bounds fx start hooks (pings) and graceful shutdown.
const DefaultTimeout = 15 * time.Second
