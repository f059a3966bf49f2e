// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package runner executes external tools without a shell and reports their
// outcome.
package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
)

// Result holds what a finished process wrote to stdout and stderr.
type Result struct {
	Stdout string
	Stderr string
}

// Runner runs one external process per call. Calls share no state and may
// run concurrently.
type Runner interface {
	Run(ctx context.Context, argv []string) (Result, error)
}

// executor abstracts command execution for testing.
type executor interface {
	LookPath(file string) (string, error)
	Run(ctx context.Context, name string, args []string, stdout, stderr io.Writer) error
}

// osExecutor is the production executor backed by os/exec.
type osExecutor struct{}

func (o *osExecutor) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

func (o *osExecutor) Run(ctx context.Context, name string, args []string, stdout, stderr io.Writer) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	return cmd.Run()
}

// process implements Runner on top of an executor.
type process struct {
	exec executor
}

// New returns a Runner backed by os/exec.
func New() Runner {
	return &process{exec: &osExecutor{}}
}

// Run resolves argv[0] on PATH and executes it with the remaining
// arguments. Spawn failures and nonzero exits are returned as one error that
// includes the trimmed stderr output.
func (p *process) Run(ctx context.Context, argv []string) (Result, error) {
	if len(argv) == 0 {
		return Result{}, errors.New("empty command")
	}

	bin, err := p.exec.LookPath(argv[0])
	if err != nil {
		return Result{}, fmt.Errorf("%s not found: %w", argv[0], err)
	}

	var stdout, stderr bytes.Buffer
	err = p.exec.Run(ctx, bin, argv[1:], &stdout, &stderr)
	res := Result{Stdout: stdout.String(), Stderr: stderr.String()}
	if err != nil {
		if msg := strings.TrimSpace(res.Stderr); msg != "" {
			return res, fmt.Errorf("running %s: %w: %s", argv[0], err, msg)
		}
		return res, fmt.Errorf("running %s: %w", argv[0], err)
	}
	return res, nil
}
