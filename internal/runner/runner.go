// Package runner drives batch generation: it resolves the run configuration
// once, then synthesizes, validates, and emits records strictly sequentially.
// The batch fails fast: the first record rejected by the schema gate aborts
// the run with zero retries. Lines already written stay written; generation
// of further records stops.
package runner

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/example/custgen/internal/constraint"
	"github.com/example/custgen/internal/locale"
	"github.com/example/custgen/internal/report"
	"github.com/example/custgen/internal/schema"
	"github.com/example/custgen/internal/synth"
)

// RecordHook is called after each record is validated and written. Hook
// errors are logged and skipped; they never abort the batch. The line bytes
// are exactly what was written to the output.
type RecordHook func(index int, line []byte) error

// Config configures one generation run.
type Config struct {
	// Count is the number of records to generate.
	Count int

	// Seed selects the pseudorandom streams. The same seed, constraint set,
	// and count produce byte-identical output.
	Seed uint64

	// Constraints is the resolved constraint set.
	Constraints constraint.Set

	// Gate is the compiled schema validation gate. Required.
	Gate *schema.Gate

	// Locales optionally replaces the built-in locale registry.
	Locales *locale.Registry

	// Now optionally fixes the reference date. Defaults to time.Now.
	Now func() time.Time

	// Hooks are per-record callbacks (e.g., document rendering).
	Hooks []RecordHook

	// Logger receives run progress and hook warnings. Defaults to a no-op.
	Logger *zap.Logger
}

// Result summarizes a run. On a mid-batch abort it reflects the records
// emitted before the failure.
type Result struct {
	Records int
	Stats   *report.Stats
}

// Run generates cfg.Count records into out as JSON Lines. Configuration
// failures surface before the first record; schema violations surface as
// *schema.ValidationError identifying the failing record.
func Run(cfg Config, out io.Writer) (*Result, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	if cfg.Gate == nil {
		// A missing schema defeats the validity guarantee, so it is rejected
		// up front like any other configuration error.
		return nil, fmt.Errorf("%w: no compiled schema supplied", schema.ErrInvalidSchema)
	}
	if cfg.Count < 0 {
		return nil, fmt.Errorf("%w: count must be non-negative, got %d", constraint.ErrInvalidConstraints, cfg.Count)
	}

	opts := []synth.Option{}
	if cfg.Now != nil {
		opts = append(opts, synth.WithClock(cfg.Now))
	}
	if cfg.Locales != nil {
		opts = append(opts, synth.WithLocales(cfg.Locales))
	}
	syn, err := synth.New(cfg.Constraints, cfg.Seed, opts...)
	if err != nil {
		return nil, err
	}

	logger.Debug("starting generation",
		zap.Int("count", cfg.Count),
		zap.Uint64("seed", cfg.Seed),
		zap.String("country", cfg.Constraints.Country),
	)

	result := &Result{Stats: report.NewStats()}
	for i := 0; i < cfg.Count; i++ {
		rec, err := syn.Record(i)
		if err != nil {
			return result, fmt.Errorf("synthesizing record %d: %w", i, err)
		}

		line, err := json.Marshal(rec)
		if err != nil {
			return result, fmt.Errorf("encoding record %d: %w", i, err)
		}

		// The gate validates the exact bytes that go on the wire.
		if err := cfg.Gate.Validate(i, line); err != nil {
			return result, err
		}

		if _, err := out.Write(line); err != nil {
			return result, fmt.Errorf("writing record %d: %w", i, err)
		}
		if _, err := out.Write([]byte{'\n'}); err != nil {
			return result, fmt.Errorf("writing record %d: %w", i, err)
		}

		result.Records++
		result.Stats.Observe(rec)

		for _, hook := range cfg.Hooks {
			if err := hook(i, line); err != nil {
				logger.Warn("record hook failed",
					zap.Int("record", i),
					zap.Error(err),
				)
			}
		}
	}

	logger.Debug("generation complete", zap.Int("records", result.Records))
	return result, nil
}
