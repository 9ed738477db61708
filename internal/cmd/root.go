// Package cmd implements the mdpunct command line.
package cmd

import (
	_ "embed"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/ezerfernandes/mdpunct/internal/fixer"
	"github.com/ezerfernandes/mdpunct/internal/rewrite"
)

//go:embed help/root.md
var rootHelp string

type statusFunc func(format string, a ...interface{})

type options struct {
	quiet   bool
	dryRun  bool
	check   bool
	strict  bool
	summary bool
	config  string
	include []string
	exclude []string

	fsys     fixer.FS
	registry rewrite.Registry
	status   statusFunc
}

func (opts *options) createStatus(out io.Writer) {
	if opts.quiet {
		opts.status = func(string, ...interface{}) {}

		return
	}

	opts.status = func(format string, a ...interface{}) {
		fmt.Fprintf(out, format, a...)
	}
}

func rootCmd(opts *options) *cobra.Command {
	root := &cobra.Command{ //nolint:exhaustruct
		Use:   "mdpunct",
		Short: "Fix punctuation spacing in Markdown narrative text",
		Long:  rootHelp,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			opts.createStatus(cmd.ErrOrStderr())

			cfg, err := loadConfig(opts.config, cmd.Flag("config").Changed)
			if err != nil {
				return err
			}

			opts.include = append(cfg.Include, opts.include...)
			opts.exclude = append(cfg.Exclude, opts.exclude...)

			opts.registry, err = cfg.registry()

			return err
		},

		SilenceUsage:      true,
		DisableAutoGenTag: true,
	}

	flags := root.PersistentFlags()

	flags.BoolVarP(&opts.quiet, "quiet", "q", false, "suppress status messages")
	flags.BoolVarP(&opts.dryRun, "dry-run", "n", false, "print changed lines instead of writing files")
	flags.BoolVar(&opts.check, "check", false, "fail if any file would change, without writing")
	flags.BoolVar(&opts.strict, "strict", false, "fail when a rewrite would alter code as parsed by CommonMark")
	flags.BoolVar(&opts.summary, "summary", false, "print a table of processed files")
	flags.StringVarP(&opts.config, "config", "c", defaultConfig, "configuration file")
	flags.StringSliceVar(&opts.include, "include", nil, "file name glob selected inside directories (default *.md, *.markdown)")
	flags.StringSliceVar(&opts.exclude, "exclude", nil, "path glob skipped inside directories")

	root.AddCommand(
		ruleSetCmd(opts, "colon", "Add a space after \"):\" followed by a digit", colonHelp),
		ruleSetCmd(opts, "punct", "Add a space after , . ! ? : ; in narrative text", punctHelp),
		fixCmd(opts),
		rulesCmd(opts),
	)

	return root
}

func run(args []string, stdout, stderr io.Writer) error {
	opts := &options{fsys: fixer.OS()}

	root := rootCmd(opts)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	return root.Execute()
}

// Execute runs the command line and exits with a non-zero status on failure.
func Execute(args []string, stdout, stderr io.Writer) {
	if err := run(args, stdout, stderr); err != nil {
		os.Exit(1)
	}
}
