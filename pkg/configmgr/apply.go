package configmgr

import (
	"bufio"
	"context"
	"errors"
	"io"

	"github.com/veesix-networks/setman/pkg/command"
	"github.com/veesix-networks/setman/pkg/handlers/conf"
)

const maxLineLength = 64 * 1024

// Apply runs one pass of the stream in r through chain. Every handler the
// pass began is ended, even when a line fails, and the stream must carry
// exactly one confirm marker.
func Apply(ctx context.Context, r io.Reader, chain *conf.Chain, phase conf.Phase) error {
	if err := chain.Begin(ctx, phase); err != nil {
		chain.End(ctx, phase)
		return newError(err)
	}

	if err := applyLines(ctx, r, chain, phase); err != nil {
		chain.End(ctx, phase)
		return err
	}

	if err := chain.End(ctx, phase); err != nil {
		return newError(err)
	}
	if !chain.Confirmed() {
		return &Error{Kind: KindValidation, Err: ErrMissingConfirm}
	}
	return nil
}

func applyLines(ctx context.Context, r io.Reader, chain *conf.Chain, phase conf.Phase) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 4096), maxLineLength)

	number := 0
	for scanner.Scan() {
		number++
		text := scanner.Text()

		line, err := command.Parse(text, number)
		if err != nil {
			return &Error{Kind: KindValidation, Line: number, Text: text, Err: err}
		}
		if err := chain.Dispatch(ctx, line, phase); err != nil {
			return &Error{Kind: classify(err), Line: number, Text: text, Err: err}
		}
	}

	if err := scanner.Err(); err != nil {
		kind := KindFilesystem
		if errors.Is(err, bufio.ErrTooLong) {
			kind = KindValidation
		}
		return &Error{Kind: kind, Line: number + 1, Err: err}
	}
	return nil
}
