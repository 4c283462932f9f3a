package main

import (
	"encoding/csv"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	fixedwidth "github.com/wallaceicy06/go-fixedwidth-csv"
)

func (a *app) generateCmd() *cobra.Command {
	var (
		skipHeader bool
		padLeft    bool
	)
	cmd := &cobra.Command{
		Use:   "generate SPEC CSV OUTPUT",
		Short: "Write a fixed-width file from a UTF-8 CSV file",
		Long: `Lays out every row of a UTF-8 CSV file as a fixed-width line, in the
specification's input encoding. Values longer than their column are truncated.`,
		Args:          cobra.ExactArgs(3),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			vw := fixedwidth.PadRight
			if padLeft {
				vw = fixedwidth.PadLeft
			}
			return a.generate(args[0], args[1], args[2], skipHeader, vw)
		},
	}
	cmd.Flags().BoolVar(&skipHeader, "skip-header", false, "ignore the first CSV row")
	cmd.Flags().BoolVar(&padLeft, "pad-left", false, "right-align values in their columns")
	return cmd
}

func (a *app) generate(specPath, csvPath, outPath string, skipHeader bool, vw fixedwidth.ValueWriter) error {
	spec, err := fixedwidth.LoadSpec(specPath)
	if err != nil {
		a.logger.Error("cannot load specification", zap.String("kind", errorKind(err)), zap.Error(err))
		return err
	}

	records, err := readCSV(csvPath, skipHeader)
	if err != nil {
		a.logger.Error("cannot read csv", zap.String("kind", errorKind(err)), zap.Error(err))
		return err
	}

	if err := writeFixedWidth(spec, records, outPath, vw); err != nil {
		a.logger.Error("generate failed", zap.String("kind", errorKind(err)), zap.Error(err))
		return err
	}
	a.logger.Info("generated fixed-width file",
		zap.String("output", outPath),
		zap.Int("records", len(records)))
	return nil
}

func readCSV(path string, skipHeader bool) ([]fixedwidth.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &fixedwidth.IOError{Op: "open", Path: path, Err: err}
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	var records []fixedwidth.Record
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &fixedwidth.IOError{Op: "read", Path: path, Err: err}
		}
		if skipHeader {
			skipHeader = false
			continue
		}
		records = append(records, fixedwidth.Record(row))
	}
	return records, nil
}

func writeFixedWidth(spec *fixedwidth.ColumnSpec, records []fixedwidth.Record, path string, vw fixedwidth.ValueWriter) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return &fixedwidth.IOError{Op: "create", Path: path, Err: err}
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = &fixedwidth.IOError{Op: "close", Path: path, Partial: true, Err: cerr}
		}
	}()

	if gerr := fixedwidth.Generate(spec, records, f, vw); gerr != nil {
		if e, ok := gerr.(*fixedwidth.IOError); ok {
			e.Path = path
			e.Partial = true
		}
		return gerr
	}
	return nil
}
