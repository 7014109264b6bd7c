package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/jpablobr/f4r"
	"github.com/jpablobr/f4r/export"
)

func exportCmd() *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Flatten decoded field values into a Parquet or CSV table",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "fit", Usage: "Path to input .fit file", Required: true},
			&cli.StringFlag{Name: "out", Usage: "Path to output table file", Required: true},
			&cli.StringFlag{Name: "format", Usage: "Output format: parquet|csv", Value: "parquet"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cat, log, err := loadEnvironment(cmd)
			if err != nil {
				return err
			}

			dec := f4r.NewDecoder(f4r.WithCatalog(cat), f4r.WithLogger(log))
			decoded, err := dec.DecodeFile(cmd.String("fit"))
			if err != nil {
				return err
			}

			rows := export.Flatten(decoded)
			switch format := strings.ToLower(cmd.String("format")); format {
			case "parquet":
				err = export.WriteParquet(cmd.String("out"), rows)
			case "csv":
				err = export.WriteCSV(cmd.String("out"), rows)
			default:
				return fmt.Errorf("unsupported format %q (expected parquet|csv)", format)
			}
			if err != nil {
				return err
			}

			fmt.Printf("wrote %d rows to %s\n", len(rows), cmd.String("out"))
			return nil
		},
	}
}
