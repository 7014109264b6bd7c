package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/jpablobr/f4r"
)

func copyCmd() *cli.Command {
	return &cli.Command{
		Name:  "copy",
		Usage: "Re-encode a FIT file, optionally cloning another file's definitions",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "in", Usage: "Path to input .fit file", Required: true},
			&cli.StringFlag{Name: "out", Usage: "Path to output .fit file", Required: true},
			&cli.StringFlag{Name: "template", Usage: "FIT file whose definition layout the output must follow"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cat, log, err := loadEnvironment(cmd)
			if err != nil {
				return err
			}

			dec := f4r.NewDecoder(f4r.WithCatalog(cat), f4r.WithLogger(log))
			decoded, err := dec.DecodeFile(cmd.String("in"))
			if err != nil {
				return err
			}
			reg := decoded.Registry()

			enc := f4r.NewEncoder(f4r.WithCatalog(cat), f4r.WithLogger(log))
			if template := cmd.String("template"); template != "" {
				msgs := recordsToMessages(reg)
				if err := encodeWithTemplate(enc, cmd.String("out"), msgs, template); err != nil {
					return err
				}
			} else if err := enc.EncodeFile(cmd.String("out"), reg); err != nil {
				return err
			}

			fmt.Printf("copied %d records to %s\n", len(reg.Records), cmd.String("out"))
			return nil
		},
	}
}

func encodeWithTemplate(enc *f4r.Encoder, outPath string, msgs []f4r.Message, template string) error {
	reg, err := enc.BuildRegistryFromTemplate(msgs, template)
	if err != nil {
		return err
	}
	return enc.EncodeFile(outPath, reg)
}

func recordsToMessages(reg *f4r.Registry) []f4r.Message {
	msgs := make([]f4r.Message, 0, len(reg.Records))
	for _, rec := range reg.Records {
		fields := make(map[string]any, len(rec.Fields))
		for name, fv := range rec.Fields {
			fields[name] = fv.Value
		}
		msgs = append(msgs, f4r.Message{
			Name:               rec.MessageName,
			LocalMessageNumber: rec.LocalMessageNumber,
			Fields:             fields,
		})
	}
	return msgs
}
