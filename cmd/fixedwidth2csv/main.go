// Command fixedwidth2csv converts a fixed-width text file to CSV.
//
// Usage:
//
//	fixedwidth2csv [flags] SPEC INPUT OUTPUT
//	fixedwidth2csv generate [flags] SPEC CSV OUTPUT
//
// SPEC is a JSON or YAML specification document. The exit status is 0 on
// success, 2 for an invalid specification, 3 for input that cannot be
// decoded, 4 for a file or encoding failure and 1 for anything else.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	fixedwidth "github.com/wallaceicy06/go-fixedwidth-csv"
)

const (
	ExitSuccess       = 0
	ExitFailure       = 1
	ExitSpecification = 2
	ExitDecoding      = 3
	ExitIO            = 4
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the command line in args and returns the exit status.
func run(args []string, stdout, stderr io.Writer) int {
	app := &app{stderr: stderr}
	root := app.rootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.Execute()
	if app.logger != nil {
		_ = app.logger.Sync()
	}
	if err != nil {
		fmt.Fprintf(stderr, "%s: %v\n", root.Name(), err)
		return exitCode(err)
	}
	return ExitSuccess
}

// exitCode maps an error to the process exit status.
func exitCode(err error) int {
	var (
		se *fixedwidth.SpecificationError
		de *fixedwidth.DecodingError
		ie *fixedwidth.IOError
	)
	switch {
	case err == nil:
		return ExitSuccess
	case errors.As(err, &se):
		return ExitSpecification
	case errors.As(err, &de):
		return ExitDecoding
	case errors.As(err, &ie):
		return ExitIO
	default:
		return ExitFailure
	}
}

// errorKind names the category of err for logging.
func errorKind(err error) string {
	switch exitCode(err) {
	case ExitSpecification:
		return "specification"
	case ExitDecoding:
		return "decoding"
	case ExitIO:
		return "io"
	default:
		return "other"
	}
}

type app struct {
	stderr io.Writer
	logger *zap.Logger

	verbose bool
}

// newLogger builds a production JSON logger writing to w.
func newLogger(w io.Writer, verbose bool) *zap.Logger {
	config := zap.NewProductionConfig()
	if verbose {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(config.EncoderConfig),
		zapcore.AddSync(w),
		config.Level,
	)
	return zap.New(core)
}

func (a *app) rootCmd() *cobra.Command {
	var (
		skipBlank bool
		skipLines int
		crlf      bool
	)
	cmd := &cobra.Command{
		Use:   "fixedwidth2csv SPEC INPUT OUTPUT",
		Short: "Convert a fixed-width file to CSV",
		Long: `Converts a fixed-width text file to CSV using a specification document.

The specification (JSON, or YAML for .yaml/.yml files) names the columns, their
widths in characters and the input and output encodings:

  {
    "ColumnNames": "f1, f2, f3",
    "Offsets": "3,12,3",
    "FixedWidthEncoding": "windows-1252",
    "IncludeHeader": "True",
    "DelimitedEncoding": "utf-8"
  }`,
		Args:          cobra.ExactArgs(3),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			a.logger = newLogger(a.stderr, a.verbose)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			c := &fixedwidth.Converter{Logger: a.logger}
			if skipBlank {
				c.DecoderOptions = append(c.DecoderOptions, fixedwidth.SkipBlankLines())
			}
			if skipLines > 0 {
				c.DecoderOptions = append(c.DecoderOptions, fixedwidth.SkipLines(skipLines))
			}
			if crlf {
				c.EncoderOptions = append(c.EncoderOptions, fixedwidth.UseCRLF())
			}
			return a.convert(c, args[0], args[1], args[2])
		},
	}
	cmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")
	cmd.Flags().BoolVar(&skipBlank, "skip-blank-lines", false, "ignore empty input lines instead of emitting empty records")
	cmd.Flags().IntVar(&skipLines, "skip-lines", 0, "ignore the first N input lines")
	cmd.Flags().BoolVar(&crlf, "crlf", false, "terminate CSV rows with \\r\\n")

	cmd.AddCommand(a.generateCmd())
	return cmd
}

func (a *app) convert(c *fixedwidth.Converter, specPath, inPath, outPath string) error {
	spec, err := fixedwidth.LoadSpec(specPath)
	if err != nil {
		a.logger.Error("cannot load specification", zap.String("kind", errorKind(err)), zap.Error(err))
		return err
	}
	a.logger.Info("converting",
		append(fixedwidth.Describe(spec),
			zap.String("input", inPath),
			zap.String("output", outPath))...)

	if err := c.ConvertFile(spec, inPath, outPath); err != nil {
		a.logger.Error("conversion failed", zap.String("kind", errorKind(err)), zap.Error(err))
		return err
	}
	a.logger.Info("conversion finished", zap.String("output", outPath))
	return nil
}
