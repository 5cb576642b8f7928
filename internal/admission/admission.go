package admission

import (
	"context"
	"errors"
	"time"

	"golang.org/x/time/rate"

	"github.com/fabric-tools/fabric-mcp-server/internal/protocol"
	"github.com/fabric-tools/fabric-mcp-server/internal/settings"
	"github.com/fabric-tools/fabric-mcp-server/internal/timeutil"
)

// waitBudget bounds how long a call may queue for an execution slot
// before it is refused outright.
const waitBudget = 30 * time.Second

// refusal marks an admission-gate rejection. It classifies like any
// other execution failure but stays detectable for audit purposes.
type refusal struct {
	env *protocol.Envelope
}

func (r *refusal) Error() string { return r.env.Error() }

func (r *refusal) Unwrap() error { return r.env }

// IsDenied reports whether err originated from an admission refusal.
func IsDenied(err error) bool {
	var r *refusal
	return errors.As(err, &r)
}

// Gate bounds concurrent external process spawns. Each single-call
// contract is unchanged; the gate only decides when a spawn may begin.
type Gate struct {
	sem     chan struct{}
	limiter *rate.Limiter
	wait    time.Duration
}

// NewGate builds a gate from admission settings. Zero limits disable
// the corresponding mechanism; a fully disabled gate admits everything
// immediately.
func NewGate(cfg settings.AdmissionConfig) *Gate {
	g := &Gate{wait: timeutil.ParseDurationOrDefault(cfg.WaitBudget, waitBudget)}
	if cfg.MaxConcurrent > 0 {
		g.sem = make(chan struct{}, cfg.MaxConcurrent)
	}
	if cfg.RatePerMinute > 0 {
		g.limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(cfg.RatePerMinute)), cfg.RatePerMinute)
	}
	return g
}

// Acquire admits one execution, waiting up to the wait budget for a
// slot. The returned release function must be called once the external
// process has settled.
func (g *Gate) Acquire(ctx context.Context) (func(), error) {
	if g == nil || (g.sem == nil && g.limiter == nil) {
		return func() {}, nil
	}

	budget := g.wait
	if budget <= 0 {
		budget = waitBudget
	}
	waitCtx, cancel := context.WithTimeout(ctx, budget)
	defer cancel()

	if g.limiter != nil {
		if err := g.limiter.Wait(waitCtx); err != nil {
			return nil, &refusal{env: protocol.Executionf("execution rate limit exceeded, try again later")}
		}
	}

	if g.sem == nil {
		return func() {}, nil
	}
	select {
	case g.sem <- struct{}{}:
		return func() { <-g.sem }, nil
	case <-waitCtx.Done():
		return nil, &refusal{env: protocol.Executionf("too many concurrent executions, try again later")}
	}
}
