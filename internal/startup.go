// StartupRegistry: a bounded, submit-once registry of startup units run
// once, sequentially, before the host accepts work. A mutex-guarded slice
// of named funcs, registered ahead of time, drained once by Run.

package taskforge_internal

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"
)

// StartupUnit runs once during bring-up; sc is the same service context the
// rest of the engine uses for dependency lookup.
type StartupUnit func(ctx context.Context, sc ServiceContext) error

type StartupRegistry struct {
	mu     sync.Mutex
	units  []StartupUnit
	names  []string
	hasRun bool
	log    *logrus.Entry
}

func NewStartupRegistry() *StartupRegistry {
	return &StartupRegistry{log: NewCompLogger("startup")}
}

// Register adds a named unit to the registry. It panics if called after Run
// has already drained the registry, since the registry is submit-once by
// design.
func (r *StartupRegistry) Register(name string, unit StartupUnit) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.hasRun {
		panic("taskforge: StartupRegistry.Register called after Run")
	}
	r.units = append(r.units, unit)
	r.names = append(r.names, name)
}

// Run executes every registered unit once, sequentially, in registration
// order, stopping and returning the first error encountered. It is itself
// a no-op on any call after the first.
func (r *StartupRegistry) Run(ctx context.Context, sc ServiceContext) error {
	r.mu.Lock()
	if r.hasRun {
		r.mu.Unlock()
		return nil
	}
	r.hasRun = true
	units, names := r.units, r.names
	r.mu.Unlock()

	for i, unit := range units {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		r.log.Infof("running startup unit %q", names[i])
		if err := unit(ctx, sc); err != nil {
			r.log.WithError(err).Errorf("startup unit %q failed", names[i])
			return Errorf(KindBusinessError, "startup unit %q: %w", names[i], err)
		}
	}
	return nil
}

func (r *StartupRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.units)
}
