package cmd

import (
	"github.com/rodaine/table"
	"github.com/spf13/cobra"
)

func rulesCmd(opts *options) *cobra.Command {
	return &cobra.Command{ //nolint:exhaustruct
		Use:   "rules",
		Short: "List the available rule sets and their rules",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tbl := table.New("Set", "Description", "Rule", "Pattern", "Replacement").WithWriter(cmd.OutOrStdout())

			for _, name := range opts.registry.Names() {
				set := opts.registry[name]

				for i, rule := range set.Rules {
					description := ""
					if i == 0 {
						description = set.Description
					}

					tbl.AddRow(set.Name, description, rule.Name, rule.Pattern.String(), rule.Replace)
				}
			}

			tbl.Print()

			return nil
		},

		DisableAutoGenTag: true,
	}
}
