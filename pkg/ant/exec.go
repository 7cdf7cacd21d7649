package ant

import (
	"github.com/antlang/ant/internal/ant/cek"
	"github.com/antlang/ant/internal/ant/memo"
	"github.com/antlang/ant/internal/ant/store"
)

// StepFn is one entry of the generated step table. d exposes the
// suspension-point integration (EnterNewMemo, SuspendForFetch,
// CompleteRecording); s is the current machine state.
type StepFn = cek.StepFn

// Driver is an evaluator instance: its step table and memo trie.
type Driver struct {
	inner *cek.Driver
}

// NewDriver builds an evaluator instance bound to cfg. cfg is validated
// eagerly so a misconfigured driver fails at construction, not mid-run.
func NewDriver(cfg *Config) (*Driver, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Driver{inner: cek.NewDriverWithLimits(cek.Limits{
		MaxCycles:         cfg.MaxCycles,
		InitialFetchWidth: cfg.InitialFetchWidth,
		FetchGrowthFactor: cfg.FetchGrowthFactor,
		MemoEnabled:       cfg.MemoEnabled,
		MaxRecordingDepth: cfg.MaxRecordingDepth,
	})}, nil
}

// AddExp appends a step function to the table and returns its PC.
func (d *Driver) AddExp(fn StepFn) int { return d.inner.AddExp(fn) }

// Inner exposes the underlying substrate driver for step functions that
// need direct access to EnterNewMemo/SuspendForFetch/CompleteRecording.
func (d *Driver) Inner() *cek.Driver { return d.inner }

// ExecCEK runs the step table from pc with the given environment and
// kontinuation until termination, and returns the final state.
func (d *Driver) ExecCEK(pc int, env []*store.Value, k *store.Value) *memo.State {
	return d.inner.ExecCEK(pc, env, k)
}
