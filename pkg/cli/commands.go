package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/irisworks/datadesk/pkg/irissql"
	"github.com/irisworks/datadesk/pkg/store"
	"github.com/irisworks/datadesk/pkg/tabular"
)

func newQueryCommand(cc *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "query <sql>",
		Short: "Run a SQL statement and render the result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return store.With(&cc.cfg.IRIS, cc.logger, func(c *store.Client) error {
				result, err := c.Fetch(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return renderResult(cmd.OutOrStdout(), result, cc.output)
			})
		},
	}
}

func newTablesCommand(cc *commandContext) *cobra.Command {
	var schemaFilter string
	cmd := &cobra.Command{
		Use:   "tables",
		Short: "List base tables in the namespace",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return store.With(&cc.cfg.IRIS, cc.logger, func(c *store.Client) error {
				result, err := c.ListTables(cmd.Context(), "", schemaFilter)
				if err != nil {
					return err
				}
				return renderResult(cmd.OutOrStdout(), result, cc.output)
			})
		},
	}
	cmd.Flags().StringVar(&schemaFilter, "filter-schema", "", "only show tables in this schema")
	return cmd
}

func newSchemasCommand(cc *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "schemas",
		Short: "List schemas holding base tables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return store.With(&cc.cfg.IRIS, cc.logger, func(c *store.Client) error {
				result, err := c.ListSchemas(cmd.Context())
				if err != nil {
					return err
				}
				return renderResult(cmd.OutOrStdout(), result, cc.output)
			})
		},
	}
}

func newDescribeCommand(cc *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "describe <table>",
		Short: "Show the columns and indexes of a table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return store.With(&cc.cfg.IRIS, cc.logger, func(c *store.Client) error {
				desc, err := c.DescribeTable(cmd.Context(), args[0], cc.schema)
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				cols := tabular.New("COLUMN", "TYPE", "MAX_LEN", "NULLABLE", "PK", "UNIQUE", "AUTO_INC")
				for _, col := range desc.Columns {
					_ = cols.AppendRow([]tabular.Value{
						tabular.Text(col.Name),
						tabular.Text(col.DataType),
						tabular.Int(col.MaxLength),
						tabular.Bool(col.IsNullable),
						tabular.Bool(col.PrimaryKey),
						tabular.Bool(col.Unique),
						tabular.Bool(col.AutoIncrement),
					})
				}
				if err := renderResult(out, cols, cc.output); err != nil {
					return err
				}

				idxs := tabular.New("INDEX", "COLUMN", "PK", "UNIQUE")
				for _, idx := range desc.Indexes {
					_ = idxs.AppendRow([]tabular.Value{
						tabular.Text(idx.Name),
						tabular.Text(idx.Column),
						tabular.Bool(idx.PrimaryKey),
						tabular.Bool(idx.Unique),
					})
				}
				return renderResult(out, idxs, cc.output)
			})
		},
	}
}

func newLoadCommand(cc *commandContext) *cobra.Command {
	var (
		primaryKey   string
		existOK      bool
		dropExisting bool
		dropViews    bool
		indexCols    []string
	)
	cmd := &cobra.Command{
		Use:   "load <file.csv> <table>",
		Short: "Load a CSV file into a new table",
		Long:  "Parses the CSV, infers IRIS column types from the values, creates the table, and bulk-inserts all rows in one batch.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readCSV(args[0])
			if err != nil {
				return err
			}

			opts := store.LoadOptions{
				PrimaryKey:       primaryKey,
				ExistOK:          existOK,
				DropIfExists:     dropExisting,
				DropRelatedViews: dropViews,
			}
			for _, spec := range indexCols {
				col, kind := spec, string(irissql.IndexDefault)
				if i := strings.IndexByte(spec, ':'); i >= 0 {
					col, kind = spec[:i], spec[i+1:]
				}
				opts.Indices = append(opts.Indices, store.IndexSpec{Column: col, Kind: kind})
			}

			return store.With(&cc.cfg.IRIS, cc.logger, func(c *store.Client) error {
				if err := c.LoadTable(cmd.Context(), data, args[1], cc.schema, opts); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "loaded %d rows into %s.%s\n", data.NumRows(), cc.schema, args[1])
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&primaryKey, "primary-key", "", "column to declare as PRIMARY KEY")
	cmd.Flags().BoolVar(&existOK, "exist-ok", false, "do not fail when the table already exists")
	cmd.Flags().BoolVar(&dropExisting, "drop-existing", false, "with --exist-ok, drop and recreate an existing table")
	cmd.Flags().BoolVar(&dropViews, "drop-views", false, "also drop views depending on the existing table")
	cmd.Flags().StringArrayVar(&indexCols, "index", nil, "index to create, as column or column:kind (kind: index, unique, bitmap, bitslice, columnar)")
	return cmd
}

func newDropCommand(cc *commandContext) *cobra.Command {
	var (
		ifExists  bool
		dropViews bool
		isView    bool
	)
	cmd := &cobra.Command{
		Use:   "drop <table>",
		Short: "Drop a table or view",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind := irissql.ObjectTable
			if isView {
				kind = irissql.ObjectView
			}
			return store.With(&cc.cfg.IRIS, cc.logger, func(c *store.Client) error {
				if err := c.DropTable(cmd.Context(), args[0], cc.schema, ifExists, dropViews, kind); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "dropped %s.%s\n", cc.schema, args[0])
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&ifExists, "if-exists", true, "do not fail when the object does not exist")
	cmd.Flags().BoolVar(&dropViews, "cascade-views", false, "drop dependent views first")
	cmd.Flags().BoolVar(&isView, "view", false, "the object is a view")
	return cmd
}

func newViewCommand(cc *commandContext) *cobra.Command {
	var (
		existOK      bool
		dropExisting bool
	)
	cmd := &cobra.Command{
		Use:   "view <name> <select-sql>",
		Short: "Create a view over a SELECT statement",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return store.With(&cc.cfg.IRIS, cc.logger, func(c *store.Client) error {
				if err := c.CreateView(cmd.Context(), args[0], args[1], cc.schema, existOK, dropExisting); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "created view %s.%s\n", cc.schema, args[0])
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&existOK, "exist-ok", false, "do not fail when the view already exists")
	cmd.Flags().BoolVar(&dropExisting, "drop-existing", false, "with --exist-ok, drop and recreate an existing view")
	return cmd
}
