package ant

import "fmt"

// Config controls the evaluator's resource limits and memo behavior.
type Config struct {
	// MaxRecordingDepth bounds how many nested recordings exec_cek may
	// enter before aborting; guards against a runaway lift/enter chain.
	MaxRecordingDepth int

	// InitialFetchWidth is the starting word count for a new value's
	// fetch_length cell.
	InitialFetchWidth int

	// FetchGrowthFactor is the multiplier applied to a fetch_length cell
	// after each successful fetch from its origin.
	FetchGrowthFactor int

	// MaxCycles bounds the number of step-table transitions exec_cek will
	// execute before aborting, generalized from the teacher's hardcoded
	// 1,000,000-cycle VM guard.
	MaxCycles uint64

	// MemoEnabled toggles whether exec_cek consults the memo trie at all;
	// disabling it is useful for isolating substrate bugs from memoization
	// bugs (P7 compares step counts between the two modes).
	MemoEnabled bool
}

// DefaultConfig returns the configuration exec_cek uses when none is
// supplied.
func DefaultConfig() *Config {
	return &Config{
		MaxRecordingDepth: 64,
		InitialFetchWidth: 1,
		FetchGrowthFactor: 2,
		MaxCycles:         1000000,
		MemoEnabled:       true,
	}
}

// Validate reports an *AntError{Code: ErrInvalidConfig} if c's bounds are
// violated.
func (c *Config) Validate() error {
	if c.MaxRecordingDepth <= 0 {
		return &AntError{Code: ErrInvalidConfig, Message: fmt.Sprintf("max recording depth must be positive, got %d", c.MaxRecordingDepth)}
	}
	if c.InitialFetchWidth <= 0 {
		return &AntError{Code: ErrInvalidConfig, Message: fmt.Sprintf("initial fetch width must be positive, got %d", c.InitialFetchWidth)}
	}
	if c.FetchGrowthFactor <= 1 {
		return &AntError{Code: ErrInvalidConfig, Message: fmt.Sprintf("fetch growth factor must be greater than 1, got %d", c.FetchGrowthFactor)}
	}
	if c.MaxCycles == 0 {
		return &AntError{Code: ErrInvalidConfig, Message: "max cycles must be positive"}
	}
	return nil
}

// Clone returns a copy of c.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}
