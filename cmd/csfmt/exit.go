package main

import (
	"context"
	"errors"
	"fmt"

	fmterrors "csfmt/internal/errors"
	"csfmt/internal/workspace"
)

// Exit codes.
const (
	exitOK       = 0
	exitFailed   = 1 // unformatted or syntactically invalid input
	exitConfig   = 2 // bad flags or configuration
	exitInternal = 3 // IO failure or formatter defect
	exitCanceled = 130
)

func exitCode(err error) int {
	if err == nil {
		return exitOK
	}
	if errors.Is(err, context.Canceled) {
		return exitCanceled
	}
	fe, ok := fmterrors.From(err)
	if !ok {
		// Plain errors come from cobra's argument and command parsing.
		return exitConfig
	}
	return codeExit(fe.Code)
}

func codeExit(code fmterrors.ErrorCode) int {
	switch code {
	case fmterrors.Unformatted, fmterrors.SyntaxInvalid:
		return exitFailed
	case fmterrors.ConfigInvalid:
		return exitConfig
	default:
		return exitInternal
	}
}

// reportError turns an unsuccessful report into an error carrying the code
// of its most severe file result.
func reportError(rep *workspace.Report) error {
	if rep.OK() {
		return nil
	}
	if rep.Summary.Failed == 0 {
		return fmterrors.New(fmterrors.Unformatted,
			fmt.Sprintf("%d of %d file(s) not formatted", rep.Summary.Changed, rep.Summary.Files), nil)
	}

	var worst fmterrors.ErrorCode
	for _, f := range rep.Files {
		if f.Failed() && (worst == "" || codeExit(f.Code) > codeExit(worst)) {
			worst = f.Code
		}
	}
	return fmterrors.New(worst,
		fmt.Sprintf("%d of %d file(s) failed", rep.Summary.Failed, rep.Summary.Files), nil)
}
