// Package cli implements the console commands.
package cli

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/irisworks/datadesk/pkg/config"
)

// commandContext carries the shared dependencies into each command.
type commandContext struct {
	cfg    *config.Config
	logger *zap.Logger

	// persistent flags
	schema string
	output string
}

// NewRootCommand builds the console command tree.
func NewRootCommand(cfg *config.Config, logger *zap.Logger) *cobra.Command {
	cc := &commandContext{cfg: cfg, logger: logger}

	root := &cobra.Command{
		Use:           "datadesk",
		Short:         "Data management console for InterSystems IRIS",
		Long:          "datadesk connects to an IRIS namespace to run SQL, load tabular files into tables, inspect schema metadata, and generate SQL from natural-language questions.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&cc.schema, "schema", "SQLUser", "table schema")
	root.PersistentFlags().StringVarP(&cc.output, "output", "o", "table", "output format: table, csv, json")

	root.AddCommand(
		newQueryCommand(cc),
		newTablesCommand(cc),
		newSchemasCommand(cc),
		newDescribeCommand(cc),
		newLoadCommand(cc),
		newDropCommand(cc),
		newViewCommand(cc),
		newAskCommand(cc),
	)
	return root
}
