package configmgr

import (
	"errors"
	"fmt"

	"github.com/veesix-networks/setman/pkg/command"
	"github.com/veesix-networks/setman/pkg/handlers/conf"
	"github.com/veesix-networks/setman/pkg/handlers/conf/confirm"
	"github.com/veesix-networks/setman/pkg/handlers/conf/syslog"
	"github.com/veesix-networks/setman/pkg/host"
	"github.com/veesix-networks/setman/pkg/txn"
)

var (
	ErrMissingConfirm = errors.New("missing confirm marker")
	ErrInterrupted    = errors.New("interrupted before apply")
)

type Kind int

const (
	KindValidation Kind = iota
	KindCommand
	KindLock
	KindFilesystem
	KindInterrupt
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindCommand:
		return "command"
	case KindLock:
		return "lock"
	case KindFilesystem:
		return "filesystem"
	case KindInterrupt:
		return "interrupt"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Error is the single failure type reported by the engine. Line is zero
// when the failure is not attributable to one line of a stream.
type Error struct {
	Kind Kind
	Line int
	Text string
	Err  error
}

func (e *Error) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s error at line %d %q: %v", e.Kind, e.Line, e.Text, e.Err)
	}
	return fmt.Sprintf("%s error: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func classify(err error) Kind {
	switch {
	case errors.Is(err, command.ErrSyntax),
		errors.Is(err, conf.ErrUnknownCommand),
		errors.Is(err, confirm.ErrDuplicateConfirm),
		errors.Is(err, syslog.ErrDuplicateSyslog),
		errors.Is(err, ErrMissingConfirm):
		return KindValidation
	case errors.Is(err, ErrInterrupted):
		return KindInterrupt
	case errors.Is(err, txn.ErrLocked):
		return KindLock
	case errors.Is(err, host.ErrCommandFailed):
		return KindCommand
	}
	return KindFilesystem
}

func newError(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return &Error{Kind: classify(err), Err: err}
}

// IsKind reports whether err carries an engine error of kind k.
func IsKind(err error, k Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == k
}
