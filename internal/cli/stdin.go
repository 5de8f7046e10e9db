package cli

import (
	"bytes"
	"errors"
	"io"
	"os"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"
)

const stdinSource = "-"

var errInputInterrupted = errors.New("input interrupted")

// openCandidate opens the candidate named on the command line. Standard
// input is read line by line with a prompt when it is a terminal.
func openCandidate(cmd *cobra.Command, source string) (io.ReadCloser, error) {
	if source != stdinSource {
		return os.Open(source)
	}

	in := cmd.InOrStdin()
	if f, ok := in.(*os.File); ok && readline.IsTerminal(int(f.Fd())) {
		return readTerminal(f, cmd.ErrOrStderr())
	}
	return io.NopCloser(in), nil
}

// readTerminal collects lines until end of input. Nothing is staged if
// the user interrupts.
func readTerminal(stdin *os.File, prompt io.Writer) (io.ReadCloser, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:                 "setman> ",
		Stdin:                  stdin,
		Stdout:                 prompt,
		InterruptPrompt:        "^C",
		DisableAutoSaveHistory: true,
	})
	if err != nil {
		return nil, err
	}
	defer rl.Close()

	var buf bytes.Buffer
	for {
		line, err := rl.Readline()
		switch {
		case err == nil:
			buf.WriteString(line)
			buf.WriteByte('\n')
		case errors.Is(err, io.EOF):
			return io.NopCloser(&buf), nil
		case errors.Is(err, readline.ErrInterrupt):
			return nil, errInputInterrupted
		default:
			return nil, err
		}
	}
}
