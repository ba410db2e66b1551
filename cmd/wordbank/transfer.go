package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
	"sigs.k8s.io/release-utils/version"
)

var importCommand = &cli.Command{
	Name:      "import",
	Usage:     "Import words from a CSV file",
	ArgsUsage: "FILE",
	Action: func(c *cli.Context) error {
		if err := requireArgs(c, 1); err != nil {
			return err
		}

		f, err := os.Open(c.Args().First())
		if err != nil {
			return fmt.Errorf("failed to open import file: %w", err)
		}
		defer f.Close()

		svc, _, closeDB, err := openService(c, true)
		if err != nil {
			return err
		}
		defer closeDB()

		result, err := svc.ImportCSV(c.Context, f)
		if result != nil {
			fmt.Fprintf(c.App.Writer, "imported %d, skipped %d\n", result.Imported, result.Skipped)
			for _, msg := range result.Errors {
				fmt.Fprintf(c.App.ErrWriter, "  %s\n", msg)
			}
		}
		return err
	},
}

var exportCommand = &cli.Command{
	Name:      "export",
	Usage:     "Export words as CSV to FILE or standard output",
	ArgsUsage: "[FILE]",
	Action: func(c *cli.Context) error {
		if c.NArg() > 1 {
			return requireArgs(c, 1)
		}

		svc, _, closeDB, err := openService(c, true)
		if err != nil {
			return err
		}
		defer closeDB()

		if c.NArg() == 0 {
			return svc.ExportCSV(c.Context, c.App.Writer)
		}

		f, err := os.Create(c.Args().First())
		if err != nil {
			return fmt.Errorf("failed to create export file: %w", err)
		}

		if err := svc.ExportCSV(c.Context, f); err != nil {
			f.Close()
			return err
		}

		if err := f.Close(); err != nil {
			return fmt.Errorf("failed to close export file: %w", err)
		}
		return nil
	},
}

var versionCommand = &cli.Command{
	Name:  "version",
	Usage: "Print version information",
	Action: func(c *cli.Context) error {
		info := version.GetVersionInfo()
		fmt.Fprintln(c.App.Writer, info.String())
		return nil
	},
}
