package host

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"strings"
	"sync"
)

// Runner executes external commands. Commands are never cancelled once
// started; the caller always waits for the exit status.
type Runner interface {
	Run(ctx context.Context, argv []string) error
	Start(ctx context.Context, argv []string) (io.WriteCloser, error)
}

type ExecRunner struct {
	logger *slog.Logger
}

func NewExecRunner(logger *slog.Logger) *ExecRunner {
	return &ExecRunner{logger: logger}
}

func (r *ExecRunner) Run(ctx context.Context, argv []string) error {
	if len(argv) == 0 {
		return opError("exec", fmt.Errorf("empty command"))
	}

	cmd := exec.Command(argv[0], argv[1:]...)
	output, err := cmd.CombinedOutput()
	r.logger.DebugContext(ctx, "Ran command", "cmd", strings.Join(argv, " "), "exit", cmd.ProcessState.ExitCode())
	if err != nil {
		return &CommandError{Op: strings.Join(argv, " "), Output: string(output), Err: err}
	}
	return nil
}

// Start launches argv with a pipe attached to its stdin. Closing the
// returned writer closes the pipe and waits for the command.
func (r *ExecRunner) Start(ctx context.Context, argv []string) (io.WriteCloser, error) {
	if len(argv) == 0 {
		return nil, opError("exec", fmt.Errorf("empty command"))
	}

	cmd := exec.Command(argv[0], argv[1:]...)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, opError(argv[0], err)
	}
	p := &pipe{cmd: cmd, stdin: stdin, name: strings.Join(argv, " ")}
	cmd.Stdout = &p.output
	cmd.Stderr = &p.output

	if err := cmd.Start(); err != nil {
		return nil, &CommandError{Op: p.name, Err: err}
	}
	r.logger.DebugContext(ctx, "Started command", "cmd", p.name, "pid", cmd.Process.Pid)
	return p, nil
}

type pipe struct {
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	name   string
	output bytes.Buffer

	once sync.Once
	err  error
}

func (p *pipe) Write(b []byte) (int, error) {
	n, err := p.stdin.Write(b)
	if err != nil {
		return n, &CommandError{Op: p.name, Err: err}
	}
	return n, nil
}

func (p *pipe) Close() error {
	p.once.Do(func() {
		p.stdin.Close()
		if err := p.cmd.Wait(); err != nil {
			p.err = &CommandError{Op: p.name, Output: p.output.String(), Err: err}
		}
	})
	return p.err
}
