package reconcile

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// RunLog accumulates the skip and error lines of one stage and writes them
// to per-stage files under the logs directory at stage end, so an operator
// can fix the source data and re-run. Lines are free text by design; the
// structured record lives in migration_log when a sink is configured.
type RunLog struct {
	dir     string
	stage   string
	skipped []string
	errors  []string
}

// NewRunLog creates the log collector for one stage.
func NewRunLog(dir, stage string) *RunLog {
	return &RunLog{dir: dir, stage: stage}
}

// Skip records one skipped-row line.
func (rl *RunLog) Skip(line string) {
	rl.skipped = append(rl.skipped, line)
}

// Error records one errored-row line.
func (rl *RunLog) Error(line string) {
	rl.errors = append(rl.errors, line)
}

// Counts reports accumulated line counts.
func (rl *RunLog) Counts() (skipped, errors int) {
	return len(rl.skipped), len(rl.errors)
}

// Flush writes the accumulated lines to <dir>/<stage>_skipped.log and
// <dir>/<stage>_errors.log. Files are only created when there is something
// to say.
func (rl *RunLog) Flush() error {
	if len(rl.skipped) == 0 && len(rl.errors) == 0 {
		return nil
	}
	if err := os.MkdirAll(rl.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create logs directory: %w", err)
	}

	if len(rl.skipped) > 0 {
		if err := rl.write("skipped", rl.skipped); err != nil {
			return err
		}
	}
	if len(rl.errors) > 0 {
		if err := rl.write("errors", rl.errors); err != nil {
			return err
		}
	}
	return nil
}

func (rl *RunLog) write(kind string, lines []string) error {
	path := filepath.Join(rl.dir, fmt.Sprintf("%s_%s.log", rl.stage, kind))
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	fmt.Fprintf(f, "%s %s - %s\n\n", rl.stage, kind, time.Now().Format(time.RFC3339))
	for _, line := range lines {
		fmt.Fprintln(f, line)
	}
	return nil
}
