// WorkScheduler facade: a non-generic dispatcher core plus the generic
// registration free functions Go's lack of generic methods requires
// (DESIGN.md Open Question 4).

package taskforge

import (
	"context"
	"time"

	taskforge_internal "github.com/taskforge/taskforge/internal"
)

type WorkScheduler = taskforge_internal.WorkScheduler

// NewWorkScheduler builds and starts a WorkScheduler. cfg == nil uses
// DefaultSchedulerConfig().
func NewWorkScheduler(cfg *SchedulerConfig, sc ServiceContext) *WorkScheduler {
	s := taskforge_internal.NewWorkScheduler(cfg, sc)
	s.Start()
	return s
}

func AddScheduledWorkAt[R any](s *WorkScheduler, unit UnitFunc[R], at time.Time, attempts int, inner context.Context) (*Future[R], error) {
	return taskforge_internal.AddScheduledWorkAt(s, unit, at, attempts, inner)
}

func AddScheduledWorkDelay[R any](s *WorkScheduler, unit UnitFunc[R], delay time.Duration, attempts int, inner context.Context) (*Future[R], error) {
	return taskforge_internal.AddScheduledWorkDelay(s, unit, delay, attempts, inner)
}

func AddRepeatedWork[R any](s *WorkScheduler, unit UnitFunc[R], startAt time.Time, period time.Duration, execCount, attempts int, inner context.Context) (*Stream[R], error) {
	return taskforge_internal.AddRepeatedWork(s, unit, startAt, period, execCount, attempts, inner)
}

func AddCronWork[R any](s *WorkScheduler, unit UnitFunc[R], cronExpr string, execCount, attempts int, inner context.Context) (*Stream[R], error) {
	return taskforge_internal.AddCronWork(s, unit, cronExpr, execCount, attempts, inner)
}
