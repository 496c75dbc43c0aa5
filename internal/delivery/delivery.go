// Package delivery defines the long-running servers a process starts.
package delivery

import "context"

// Delivery is a server started by the composition root. Serve blocks until the
// server stops; shutdown is driven by fx lifecycle hooks.
type Delivery interface {
	Serve(ctx context.Context) error
}
