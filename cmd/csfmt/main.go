// Command csfmt formats C# source files.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	fmterrors "csfmt/internal/errors"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// run executes the CLI and returns the process exit code.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	return execute(ctx, &app{stdin: stdin}, args, stdout, stderr)
}

func execute(ctx context.Context, a *app, args []string, stdout, stderr io.Writer) int {
	root := newRootCmd(a)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	if err != nil {
		printError(stderr, err)
	}
	return exitCode(err)
}

func printError(w io.Writer, err error) {
	fmt.Fprintf(w, "csfmt: %v\n", err)

	fe, ok := fmterrors.From(err)
	if !ok {
		return
	}
	path := fe.Path
	if path == "" {
		path = "."
	}
	for _, h := range fmterrors.GetHints(fe.Code) {
		fmt.Fprintf(w, "  hint: %s\n", h.Description)
		if h.Command != "" {
			fmt.Fprintf(w, "        $ %s\n", strings.ReplaceAll(h.Command, "${path}", path))
		}
	}
}
