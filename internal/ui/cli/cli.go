package cli

import (
	"ccheck/internal/core/errors"
	"ccheck/internal/shared/version"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ccheck <file.c>",
		Short: "Static checks for a single C source file",
		Long: `ccheck parses one C file, prints its syntax tree and reports
single-character names, capitalized non-global variables, argv use
before an argc check, magic numbers and calls to unsafe functions.`,
		Version:       version.Version,
		Args:          cobra.ExactArgs(1),
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt := runtime{
				stdout: stdout,
				stderr: stderr,
				styled: isTerminal(stdout),
			}
			return rt.analyze(cmd.Context(), args[0])
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	return cmd
}

// Run executes the command line args (without the program name) and returns
// the process exit status. Every failure is reported as a single
// "Error: <message>" line on stdout.
func Run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cmd := newRootCmd(stdout, stderr)
	cmd.SetArgs(args)
	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(stdout, "Error: %s\n", errors.UserMessage(err))
		return 1
	}
	return 0
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
