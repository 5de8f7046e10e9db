package command

import (
	"errors"
	"fmt"
	"strings"
)

// ErrSyntax is wrapped by every parse and validation failure in this package.
var ErrSyntax = errors.New("syntax error")

const (
	KeywordDHCP    = "dhcp"
	KeywordIP      = "ip"
	KeywordOff     = "off"
	KeywordAllow   = "allow"
	KeywordUser    = "user"
	KeywordSerial  = "serial"
	KeywordSyslog  = "syslog"
	KeywordTime    = "time"
	KeywordConfirm = "confirm"
)

// Line is one tokenized line of a configuration stream.
type Line struct {
	Number  int
	Text    string
	Keyword string
	Args    []string
}

// Parse splits text into a keyword and its arguments. A line without a
// keyword is an error: streams have no blank-line leniency.
func Parse(text string, number int) (*Line, error) {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return nil, fmt.Errorf("%w: line %d: missing keyword", ErrSyntax, number)
	}

	return &Line{
		Number:  number,
		Text:    text,
		Keyword: fields[0],
		Args:    fields[1:],
	}, nil
}

// Rest returns the raw text following the keyword.
func (l *Line) Rest() string {
	s := strings.TrimLeft(l.Text, " \t")
	s = strings.TrimPrefix(s, l.Keyword)
	return strings.TrimSpace(s)
}

func (l *Line) String() string {
	return fmt.Sprintf("line %d: %q", l.Number, l.Text)
}

func expectArgs(l *Line, n int) error {
	if len(l.Args) < n {
		return fmt.Errorf("%w: %s: expected %d fields, got %d", ErrSyntax, l.Keyword, n, len(l.Args))
	}
	if len(l.Args) > n {
		return fmt.Errorf("%w: %s: unexpected trailing token %q", ErrSyntax, l.Keyword, l.Args[n])
	}
	return nil
}
