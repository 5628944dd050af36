package taskforge

import (
	"context"

	taskforge_internal "github.com/taskforge/taskforge/internal"
)

type (
	StartupUnit     = taskforge_internal.StartupUnit
	StartupRegistry = taskforge_internal.StartupRegistry
)

func NewStartupRegistry() *StartupRegistry {
	return taskforge_internal.NewStartupRegistry()
}

// NamedStartupUnit pairs a StartupUnit with the name logged around it.
type NamedStartupUnit struct {
	Name string
	Unit StartupUnit
}

// RunStartupWork is a convenience one-shot: register every unit in order
// then run the registry immediately, for hosts that assemble their startup
// list all at once rather than incrementally via Register.
func RunStartupWork(ctx context.Context, sc ServiceContext, units []NamedStartupUnit) error {
	r := NewStartupRegistry()
	for _, u := range units {
		r.Register(u.Name, u.Unit)
	}
	return r.Run(ctx, sc)
}
