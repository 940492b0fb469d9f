package correlation

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"github.com/sourcegraph/conc/pool"
	"go.uber.org/multierr"

	"github.com/KaramelBytes/corrloom/internal/dataset"
)

// Builder computes one correlation matrix per method.
//
// Every (method, pair) coefficient is an independent unit on a bounded worker
// pool. Workers write only their own slot, so no locking is needed; matrices
// are assembled after a single barrier once every unit has finished. A method
// with any failed unit yields no matrix.
type Builder struct {
	// Workers bounds concurrent units; <= 0 means GOMAXPROCS.
	Workers int
	// Coefficients overrides the primitive per method; nil uses DefaultCoefficients.
	Coefficients map[Method]CoefficientFunc
	Logger       *slog.Logger
}

// NewBuilder returns a Builder using the default coefficient primitives.
func NewBuilder(workers int) *Builder {
	return &Builder{Workers: workers, Coefficients: DefaultCoefficients()}
}

type methodSlot struct {
	method Method
	fn     CoefficientFunc
	values []float64
	errs   []error
}

// Build returns a matrix for each method that completed without error. The
// returned error combines one entry per failed method.
func (b *Builder) Build(ctx context.Context, ds *dataset.Dataset, methods []Method) (map[Method]*Matrix, error) {
	logger := b.Logger
	if logger == nil {
		logger = slog.Default()
	}
	n := ds.Len()
	pairs := Pairs(n)

	var buildErr error
	slots := make([]*methodSlot, 0, len(methods))
	for _, m := range methods {
		fn := b.coefficient(m)
		if fn == nil {
			buildErr = multierr.Append(buildErr, fmt.Errorf("build %s matrix: %w", m, ErrUnknownMethod))
			continue
		}
		slots = append(slots, &methodSlot{
			method: m,
			fn:     fn,
			values: make([]float64, len(pairs)),
			errs:   make([]error, len(pairs)),
		})
	}

	workers := b.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	start := time.Now()
	p := pool.New().WithMaxGoroutines(workers).WithContext(ctx)
	for _, s := range slots {
		for k, pr := range pairs {
			s, k, pr := s, k, pr
			p.Go(func(ctx context.Context) error {
				if err := ctx.Err(); err != nil {
					s.errs[k] = err
					return err
				}
				v, err := s.fn(ds.Values(pr.I), ds.Values(pr.J))
				if err != nil {
					s.errs[k] = fmt.Errorf("pair (%d,%d): %w", pr.I, pr.J, err)
					return s.errs[k]
				}
				s.values[k] = v
				return nil
			})
		}
	}
	// Barrier: nothing is assembled until every unit has returned. Failures are
	// read back from the slots, so the pool's combined error is not needed.
	_ = p.Wait()
	if failed := failedUnits(slots); failed > 0 {
		logger.Debug("correlation units failed", "failed", failed)
	}
	logger.Debug("correlation units complete",
		"methods", len(slots), "pairs", len(pairs), "workers", workers, "elapsed", time.Since(start))

	out := make(map[Method]*Matrix, len(slots))
	for _, s := range slots {
		if err := multierr.Combine(s.errs...); err != nil {
			logger.Warn("matrix build failed", "method", s.method.String(), "err", err)
			buildErr = multierr.Append(buildErr, fmt.Errorf("build %s matrix: %w", s.method, err))
			continue
		}
		m := NewMatrix(n)
		for k, pr := range pairs {
			m.setPair(pr.I, pr.J, s.values[k])
		}
		out[s.method] = m
	}
	return out, buildErr
}

func failedUnits(slots []*methodSlot) int {
	var n int
	for _, s := range slots {
		for _, err := range s.errs {
			if err != nil {
				n++
			}
		}
	}
	return n
}

func (b *Builder) coefficient(m Method) CoefficientFunc {
	if b.Coefficients != nil {
		return b.Coefficients[m]
	}
	return DefaultCoefficients()[m]
}
