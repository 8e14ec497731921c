package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/jcorbin/weakforth/internal/logio"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

func main() {
	if err := newCommand().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("ERROR: %+v", err))
		os.Exit(1)
	}
}

func newCommand() *cobra.Command {
	var (
		timeout    time.Duration
		trace      bool
		prelude    bool
		prompt     bool
		configPath string
		retLimit   int
	)

	cmd := &cobra.Command{
		Use:   "weakforth [flags] [file...]",
		Short: "An interactive stack machine with colon definitions",
		Long: `weakforth reads whitespace separated words, running them immediately, or
compiling them into new words between ":" and ";".

Any files given are read in order before standard input. The session ends
at the end of input, or when the exit word is run.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) (rerr error) {
			cfg := &config{}
			if configPath != "" {
				var err error
				if cfg, err = loadConfig(configPath); err != nil {
					return err
				}
			}
			flags := cmd.Flags()
			if !flags.Changed("prelude") && cfg.Session.Prelude {
				prelude = true
			}
			if !flags.Changed("timeout") {
				timeout, _ = cfg.timeout()
			}
			if !flags.Changed("return-stack-limit") && cfg.Session.RetLimit != 0 {
				retLimit = cfg.Session.RetLimit
			}

			var opts []VMOption
			if prelude {
				opts = append(opts, WithPrelude())
			}
			files, err := openInputs(args)
			if err != nil {
				return err
			}
			for _, f := range files {
				opts = append(opts, WithInput(f))
			}
			opts = append(opts,
				WithInput(NamedReader("<stdin>", cmd.InOrStdin())),
				WithOutput(cmd.OutOrStdout()),
				WithRetLimit(retLimit),
			)
			if prompt {
				opts = append(opts, WithPrompts(cfg.prompts()))
			} else {
				opts = append(opts, WithPrompts("", ""))
			}
			if isTerminal(cmd.OutOrStdout()) {
				opts = append(opts, WithErrorStyle(color.New(color.FgRed).SprintfFunc()))
			}

			var vm *VM
			if trace {
				log := zerolog.New(zerolog.ConsoleWriter{Out: cmd.ErrOrStderr()}).
					With().Timestamp().Logger()
				at := logio.StringFunc(func() string { return vm.Location() })
				opts = append(opts, WithLogf(logio.ZeroLogf(log, at)))
			}

			vm = New(opts...)
			defer func() {
				if err := vm.Close(); rerr == nil {
					rerr = err
				}
			}()

			ctx := cmd.Context()
			if timeout != 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, timeout)
				defer cancel()
			}
			return vm.Run(ctx)
		},
	}

	flags := cmd.Flags()
	flags.DurationVar(&timeout, "timeout", 0, "specify a time limit")
	flags.BoolVar(&trace, "trace", false, "enable trace logging to stderr")
	flags.BoolVar(&prelude, "prelude", false, "define prelude words before reading input")
	flags.BoolVar(&prompt, "prompt", isTerminalIO(), "print prompts before reading each line")
	flags.StringVar(&configPath, "config", "", "read settings from a TOML file")
	flags.IntVar(&retLimit, "return-stack-limit", defaultRetLimit, "limit return stack depth")
	return cmd
}

// openInputs opens the named files in order; if any fails, those already
// opened are closed.
func openInputs(names []string) ([]*os.File, error) {
	files := make([]*os.File, 0, len(names))
	for _, name := range names {
		f, err := os.Open(name)
		if err != nil {
			for _, f := range files {
				f.Close()
			}
			return nil, err
		}
		files = append(files, f)
	}
	return files, nil
}

func isTerminalIO() bool {
	return isTerminal(os.Stdin) && isTerminal(os.Stdout)
}

// isTerminal returns true if v is a file descriptor attached to a terminal.
func isTerminal(v interface{}) bool {
	f, ok := v.(interface{ Fd() uintptr })
	if !ok {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
