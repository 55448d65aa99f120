package harness

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"

	"go.uber.org/zap"
)

// CommandRunner runs external commands and returns their combined
// output. Tests substitute a recording fake.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// execRunner runs commands through os/exec.
type execRunner struct {
	logger *zap.Logger
}

// NewExecRunner returns a CommandRunner backed by os/exec.
func NewExecRunner(logger *zap.Logger) CommandRunner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &execRunner{logger: logger}
}

func (e *execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	e.logger.Debug("running command",
		zap.String("command", name),
		zap.Strings("args", args))

	cmd := exec.CommandContext(ctx, name, args...)
	var buf bytes.Buffer
	cmd.Stdout = &buf
	cmd.Stderr = &buf
	if err := cmd.Run(); err != nil {
		e.logger.Debug("command failed",
			zap.String("command", name),
			zap.Error(err))
		return buf.Bytes(), fmt.Errorf("%s %v: %w", name, args, err)
	}
	return buf.Bytes(), nil
}
