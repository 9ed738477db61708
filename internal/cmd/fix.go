package cmd

import (
	_ "embed"
	"errors"
	"fmt"
	"io"

	"github.com/google/shlex"
	"github.com/rodaine/table"
	"github.com/spf13/cobra"

	"github.com/ezerfernandes/mdpunct/internal/fixer"
	"github.com/ezerfernandes/mdpunct/internal/rewrite"
)

var (
	//go:embed help/colon.md
	colonHelp string
	//go:embed help/punct.md
	punctHelp string
	//go:embed help/fix.md
	fixHelp string
)

func ruleSetCmd(opts *options, name, short, long string) *cobra.Command {
	return &cobra.Command{ //nolint:exhaustruct
		Use:   name + " [flags] file...",
		Short: short,
		Long:  long,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			set, err := opts.registry.Lookup(name)
			if err != nil {
				return err
			}

			return fixRun(cmd.OutOrStdout(), opts, []rewrite.RuleSet{set}, nil, args)
		},

		DisableAutoGenTag: true,
	}
}

func fixCmd(opts *options) *cobra.Command {
	var (
		sets  []string
		specs []string
	)

	cmd := &cobra.Command{ //nolint:exhaustruct
		Use:     "fix [flags] file...",
		Aliases: []string{"f"},
		Short:   "Apply any combination of rule sets and ad-hoc rules",
		Long:    fixHelp,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(sets) == 0 && len(specs) == 0 {
				return errNoRules
			}

			selected := make([]rewrite.RuleSet, 0, len(sets))

			for _, name := range sets {
				set, err := opts.registry.Lookup(name)
				if err != nil {
					return err
				}

				selected = append(selected, set)
			}

			extra, err := parseRules(specs)
			if err != nil {
				return err
			}

			return fixRun(cmd.OutOrStdout(), opts, selected, extra, args)
		},

		DisableAutoGenTag: true,
	}

	cmd.Flags().StringSliceVarP(&sets, "set", "s", nil, "rule sets to apply, in order")
	cmd.Flags().StringArrayVarP(&specs, "rule", "r", nil, "ad-hoc rule as 'PATTERN' 'REPLACEMENT', applied after the rule sets")

	return cmd
}

// parseRules turns --rule values into rules. Each value holds a pattern and a
// replacement split with shell quoting rules.
func parseRules(specs []string) ([]rewrite.Rule, error) {
	rules := make([]rewrite.Rule, 0, len(specs))

	for i, spec := range specs {
		words, err := shlex.Split(spec)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", errBadRuleSpec, spec, err)
		}

		if len(words) != 2 { //nolint:gomnd
			return nil, fmt.Errorf("%w: %s: want pattern and replacement, got %d words", errBadRuleSpec, spec, len(words))
		}

		rule, err := rewrite.NewRule(fmt.Sprintf("rule-%d", i+1), words[0], words[1])
		if err != nil {
			return nil, err
		}

		rules = append(rules, rule)
	}

	return rules, nil
}

func fixRun(out io.Writer, opts *options, sets []rewrite.RuleSet, extra []rewrite.Rule, args []string) error {
	matcher, err := fixer.NewMatcher(opts.include, opts.exclude)
	if err != nil {
		return err
	}

	files, err := fixer.Collect(opts.fsys, args, matcher)
	if err != nil {
		return err
	}

	fix := &fixer.Fixer{
		FS:     opts.fsys,
		Rules:  append(rewrite.Combine(sets...), extra...),
		DryRun: opts.dryRun || opts.check,
		Strict: opts.strict,
		Status: fixer.StatusFunc(opts.status),
	}

	results, err := fix.FixAll(files)

	pending := report(out, opts, confirmation(sets, extra), results)

	if opts.summary {
		summary(out, results)
	}

	if err != nil {
		return err
	}

	if opts.check && pending > 0 {
		return fmt.Errorf("%w: %d file(s)", errWouldChange, pending)
	}

	return nil
}

func confirmation(sets []rewrite.RuleSet, extra []rewrite.Rule) func(string) string {
	if len(sets) == 1 && len(extra) == 0 {
		return sets[0].Confirmation
	}

	return rewrite.RuleSet{}.Confirmation
}

// report prints one line per processed file, or the changed lines in dry-run
// mode, and returns the number of files with pending changes.
func report(out io.Writer, opts *options, confirm func(string) string, results []*fixer.Result) int {
	pending := 0

	for _, res := range results {
		switch {
		case opts.check:
			if res.Modified() {
				pending++

				fmt.Fprintf(out, "would fix %s\n", res.Path)
			}
		case opts.dryRun:
			if res.Modified() {
				pending++
			}

			for _, n := range res.Changed {
				fmt.Fprintf(out, "%s:%d: %s\n", res.Path, n, res.Line(n))
			}
		default:
			if res.Modified() && !res.Written {
				continue
			}

			fmt.Fprintln(out, confirm(res.Path))
		}
	}

	return pending
}

func summary(out io.Writer, results []*fixer.Result) {
	tbl := table.New("File", "Lines", "Changed", "Status").WithWriter(out)

	for _, res := range results {
		tbl.AddRow(res.Path, res.Lines, len(res.Changed), resultStatus(res))
	}

	tbl.Print()
}

func resultStatus(res *fixer.Result) string {
	switch {
	case res.Written:
		return "written"
	case res.Modified():
		return "pending"
	default:
		return "unchanged"
	}
}

var (
	errNoRules     = errors.New("no rules selected: use --set or --rule")
	errBadRuleSpec = errors.New("invalid rule")
	errWouldChange = errors.New("files would be changed")
)
