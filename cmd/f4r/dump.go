package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/jpablobr/f4r/export"
)

func dumpCmd() *cli.Command {
	return &cli.Command{
		Name:  "dump",
		Usage: "Decode a FIT file into a records.jsonl bundle",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "fit", Usage: "Path to input .fit file", Required: true},
			&cli.StringFlag{Name: "out", Usage: "Output directory", Required: true},
			&cli.BoolFlag{Name: "overwrite", Usage: "Allow writing into a non-empty output directory", Value: true},
			&cli.BoolFlag{Name: "copy-source", Usage: "Copy the source file into the bundle"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			result, err := export.File(cmd.String("fit"), cmd.String("out"), export.Options{
				Overwrite:      cmd.Bool("overwrite"),
				CopySourceFile: cmd.Bool("copy-source"),
			})
			if err != nil {
				return err
			}

			fmt.Printf("dump complete\n")
			fmt.Printf("records.jsonl:  %s\n", result.RecordsPath)
			fmt.Printf("manifest.json:  %s\n", result.ManifestPath)
			fmt.Printf("records:        %d (%d definitions, %d segments)\n",
				result.RecordCount, result.DefinitionCount, result.SegmentCount)
			if result.SourceCopyPath != "" {
				fmt.Printf("source copy:    %s\n", result.SourceCopyPath)
			}
			return nil
		},
	}
}
