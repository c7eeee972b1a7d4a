package main

import (
	"bytes"
	"os"

	"github.com/spf13/cobra"
	fs "github.com/ungerik/go-fs"
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Load all tables and write the page as static HTML",
	RunE:  runRender,
}

func init() {
	rootCmd.AddCommand(renderCmd)

	renderCmd.Flags().StringP("out", "o", "", "Output file (default stdout)")
}

func runRender(cmd *cobra.Command, args []string) error {
	a, err := loadApp(nil)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := cmd.Context()
	if err := a.loadAll(ctx); err != nil {
		a.logger.Warn("Not all tables could be loaded", "err", err)
	}
	var buf bytes.Buffer
	err = a.layout.WriteHTML(ctx, &buf, nil)
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
