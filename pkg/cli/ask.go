package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/irisworks/datadesk/pkg/store"
	"github.com/irisworks/datadesk/pkg/text2sql"
)

func newAskCommand(cc *commandContext) *cobra.Command {
	var (
		tableName string
		dryRun    bool
	)
	cmd := &cobra.Command{
		Use:   "ask <question>",
		Short: "Generate SQL from a natural-language question and run it",
		Long:  "Introspects the target table, asks the configured LLM endpoint for a SELECT answering the question, rewrites it for the IRIS dialect, and executes it.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			gen, err := text2sql.New(&cc.cfg.LLM, cc.logger)
			if err != nil {
				return err
			}

			return store.With(&cc.cfg.IRIS, cc.logger, func(c *store.Client) error {
				desc, err := c.DescribeTable(cmd.Context(), tableName, cc.schema)
				if err != nil {
					return err
				}

				generated, err := gen.Generate(cmd.Context(), args[0], tableName, cc.schema, desc)
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "-- %s\n%s\n\n", generated.Explanation, generated.Query)
				if dryRun {
					return nil
				}

				result, err := c.Fetch(cmd.Context(), generated.Query)
				if err != nil {
					return err
				}
				return renderResult(out, result, cc.output)
			})
		},
	}
	cmd.Flags().StringVarP(&tableName, "table", "t", "", "table the question is about (required)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print the generated SQL without executing it")
	_ = cmd.MarkFlagRequired("table")
	return cmd
}
