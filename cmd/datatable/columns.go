package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/domonda/go-datatable"
	"github.com/domonda/go-datatable/csvtable"
)

var columnsCmd = &cobra.Command{
	Use:   "columns <table>",
	Short: "List the configured columns of a table as aligned CSV",
	Args:  cobra.ExactArgs(1),
	RunE:  runColumns,
}

func init() {
	rootCmd.AddCommand(columnsCmd)

	columnsCmd.Flags().String("align", "left", "Column alignment (none, left, right, center)")
}

func runColumns(cmd *cobra.Command, args []string) error {
	a, err := loadApp(nil)
	if err != nil {
		return err
	}
	defer a.Close()

	table, err := a.table(args[0])
	if err != nil {
		return err
	}
	align, _ := cmd.Flags().GetString("align")
	padding, err := (&csvtable.Format{Align: align}).Padding()
	if err != nil {
		return err
	}
	cfg := table.Config()
	rows := make([][]string, len(cfg.Columns))
	for i := range cfg.Columns {
		col := &cfg.Columns[i]
		rows[i] = []string{col.Title, columnValueSource(col), columnInputs(col)}
	}
	view := datatable.NewStringsView(table.Name(), rows, "Title", "Value", "Inputs")
	return csvtable.NewWriter().
		WithHeaderRow(true).
		WithDelimiter('|').
		WithNewLine("\n").
		WithPadding(padding).
		WriteView(cmd.Context(), cmd.OutOrStdout(), view)
}

func columnValueSource(col *datatable.Column) string {
	switch v := col.Value.(type) {
	case datatable.FieldValue:
		return string(v)
	case *datatable.TemplateValue:
		return v.String()
	}
	return "derived"
}

// columnInputs lists the form fields of col as name:type
func columnInputs(col *datatable.Column) string {
	fieldName, _ := col.FieldName()
	var inputs []string
	for _, def := range col.Input.Defs() {
		name := def.Name
		if name == "" {
			name = fieldName
		}
		inputs = append(inputs, name+":"+def.InputType())
	}
	return strings.Join(inputs, " ")
}
