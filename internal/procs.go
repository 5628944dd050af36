// GOMAXPROCS tuning: under a cgroup CPU quota the Go runtime otherwise sizes
// GOMAXPROCS off the host's full core count. Queue concurrency is not
// derived from GOMAXPROCS; it is whatever the caller passes at construction.

package taskforge_internal

import (
	"go.uber.org/automaxprocs/maxprocs"
)

var procsLog = NewCompLogger("procs")

func init() {
	_, err := maxprocs.Set(maxprocs.Logger(func(format string, args ...any) {
		procsLog.Debugf(format, args...)
	}))
	if err != nil {
		procsLog.Warnf("automaxprocs: %v", err)
	}
}
