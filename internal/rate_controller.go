// Credit-based rate limiter. ResourceProcessor.Drain and PoolProcessor.Drain
// both probe their resource argument for CreditController and, if present,
// call GetCredit(1, 1) before every task execution — so embedding a
// *RateLimiter in an [ReuseSingleReusable]/[ReuseMultipleStatic] resource
// bounds how fast its units draw on some external rate (e.g. outbound
// request volume). An HTTP-body throttling reader and an Mbps-string
// config parser were dropped from this pass, since this domain has no
// HTTP transport to throttle and no bandwidth-spec config surface (see
// DESIGN.md).
//
// The credit is a numerical quantity replenished periodically, at intervals T,
// with a constant number N. The replenished value may by capped to a max M>=N,
// or it may be unbound. The value R=N/T represents the target rate limit and
// M-N represents the burst limit.
//
// A user in need of n resources should request a credit ==/<= n before
// proceeding (the user may specify an interval nMin..n, nMin <= n). If credit
// is available the user receives a value c within the requested interval and it
// then should use no more than c.

package taskforge_internal

import (
	"context"
	"fmt"
	"sync"
	"time"
)

const (
	CREDIT_NO_LIMIT    = 0
	CREDIT_EXACT_MATCH = 0
	CREDIT_UNLIMITED   = -1
)

// CreditController is the interface RateLimiter satisfies; split out for
// testability.
type CreditController interface {
	GetCredit(desired, minAcceptable int) int
}

// RateLimiter is the concrete credit-bucket controller.
type RateLimiter struct {
	ctx            context.Context
	cancelFunc     context.CancelFunc
	wg             *sync.WaitGroup
	cond           *sync.Cond
	current        int
	maxValue       int
	replenishValue int
	replenishInt   time.Duration
}

func NewRateLimiter(replenishValue, maxValue int, replenishInt time.Duration) *RateLimiter {
	ctx, cancelFunc := context.WithCancel(context.Background())
	if maxValue > 0 {
		maxValue = max(replenishValue, maxValue)
	}

	c := &RateLimiter{
		ctx:            ctx,
		cancelFunc:     cancelFunc,
		wg:             &sync.WaitGroup{},
		cond:           sync.NewCond(&sync.Mutex{}),
		maxValue:       maxValue,
		replenishValue: replenishValue,
		replenishInt:   replenishInt,
	}
	c.startReplenish()
	return c
}

func (c *RateLimiter) startReplenish() {
	c.wg.Add(1)
	ticker := time.NewTicker(c.replenishInt)
	c.cond.L.Lock()
	c.current = c.replenishValue
	c.cond.Broadcast()
	c.cond.L.Unlock()
	go func() {
		defer c.wg.Done()
		for run := true; run; {
			select {
			case <-c.ctx.Done():
				ticker.Stop()
				c.cond.L.Lock()
				c.current = CREDIT_UNLIMITED
				run = false
			case <-ticker.C:
				c.cond.L.Lock()
				c.current += c.replenishValue
				if c.maxValue > 0 && c.current > c.maxValue {
					c.current = c.maxValue
				}
			}
			c.cond.Broadcast()
			c.cond.L.Unlock()
		}
	}()
}

func (c *RateLimiter) StopReplenish() {
	c.cancelFunc()
}

func (c *RateLimiter) StopReplenishWait() {
	c.cancelFunc()
	c.wg.Wait()
}

// GetCredit implements CreditController: block until at least minAcceptable
// units are available, then claim up to desired.
func (c *RateLimiter) GetCredit(desired, minAcceptable int) (got int) {
	if minAcceptable < 0 || minAcceptable > desired {
		minAcceptable = desired
	}

	c.cond.L.Lock()
	defer c.cond.L.Unlock()

	for c.current >= 0 && c.current < minAcceptable {
		c.cond.Wait()
	}

	if c.current < 0 {
		got = desired
	} else {
		got = min(desired, c.current)
		c.current -= got
	}
	return
}

func (c *RateLimiter) String() string {
	if c == nil {
		return fmt.Sprintf("%v", nil)
	}
	return fmt.Sprintf(
		"%T{replenishValue=%d, replenishInt=%s, max=%d}",
		c, c.replenishValue, c.replenishInt, c.maxValue,
	)
}
