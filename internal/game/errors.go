package game

import "fmt"

// ConfigError reports an invalid configuration or grid value.
// It is always detected before a run starts; a run never begins
// with a bad configuration.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Field, e.Message)
}

// InvalidActionError reports a policy action whose target column lies
// outside the grid. It aborts the run mid-flight.
type InvalidActionError struct {
	X int
}

func (e *InvalidActionError) Error() string {
	return fmt.Sprintf("invalid action: target x %d outside [0,%d)", e.X, NumWeeks)
}

// GuardExceededError reports that the run guard was reached before the
// world was cleared. The frame sequence produced so far must not be
// treated as a successful result.
type GuardExceededError struct {
	Ticks int
}

func (e *GuardExceededError) Error() string {
	return fmt.Sprintf("run guard exceeded after %d ticks", e.Ticks)
}
