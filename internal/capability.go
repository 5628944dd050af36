// Capability-probing interfaces an argument-source resource may optionally
// implement. Checked via type assertion, never required.

package taskforge_internal

import (
	"context"
	"time"
)

type Activatable interface {
	IsActive() bool
	Activate(ctx context.Context) error
	Deactivate(ctx context.Context) error
}

type Stoppable interface {
	IsRunning() bool
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}

type Throttling interface {
	ThrottleTimeout() time.Duration
}
