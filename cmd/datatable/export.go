package main

import (
	"bytes"
	"os"

	"github.com/spf13/cobra"
	fs "github.com/ungerik/go-fs"

	"github.com/domonda/go-datatable/csvtable"
)

var exportCmd = &cobra.Command{
	Use:   "export <table>",
	Short: "Load a table and write it as CSV",
	Args:  cobra.ExactArgs(1),
	RunE:  runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringP("out", "o", "", "Output file (default stdout)")
}

func runExport(cmd *cobra.Command, args []string) error {
	a, err := loadApp(nil)
	if err != nil {
		return err
	}
	defer a.Close()

	table, err := a.table(args[0])
	if err != nil {
		return err
	}
	format, err := a.cfg.Export.Format()
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	if err := table.Load(ctx); err != nil {
		return err
	}
	var buf bytes.Buffer
	err = csvtable.WriteTable(ctx, &buf, table.Model(), format)
	if err != nil {
		return err
	}
	out, _ := cmd.Flags().GetString("out")
	if out == "" {
		_, err = os.Stdout.Write(buf.Bytes())
		return err
	}
	return fs.File(out).WriteAll(buf.Bytes())
}
