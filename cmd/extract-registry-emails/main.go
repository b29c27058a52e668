// Command extract-registry-emails prints the deduplicated (name, email)
// records of a registry workbook as a JSON array.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"registrymail/adapters/excel"
	"registrymail/app"
	"registrymail/internal"
	"registrymail/internal/config"
	"registrymail/internal/errors"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

const (
	exitOK          = 0
	exitUsage       = 1
	exitUnsupported = 2
	exitFailure     = 3
)

const usageLine = "Usage: extract-registry-emails <path-to-xlsx>"

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	// A missing .env is normal; the environment is used as-is.
	_ = godotenv.Load()

	cmd := newRootCmd(stdout, stderr)
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	if err := cmd.Execute(); err != nil {
		return fail(stderr, err)
	}
	return exitOK
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "extract-registry-emails <path-to-xlsx>",
		Short: "Extract deduplicated entity contact emails from a registry workbook",
		Long: `Reads the active sheet of a registry workbook, locates the 'Entity Name'
and 'Contact Email' columns, and prints one {name, email} object per distinct
case-insensitive name as a JSON array.

Exit codes: 0 success, 1 usage error or missing file, 2 unsupported workbook
format, 3 any other failure (for example a missing column).`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.InvalidInput(usageLine)
			}
			return nil
		},
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			logger := internal.NewLoggerTo(stderr, internal.ParseLogLevel(cfg.LogLevel))
			svc := app.NewRegistryService(excel.NewOpener(), cfg.Columns(), logger)

			records, err := svc.Extract(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return writeJSON(stdout, records)
		},
	}

	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return errors.Wrap(errors.InvalidInput(usageLine), err.Error())
	})

	return cmd
}

// writeJSON emits records as one JSON array with non-ASCII and HTML
// characters written literally
func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return errors.Wrap(err, "failed to write JSON output")
	}
	return nil
}

func exitCodeFor(err error) int {
	switch errors.GetCode(err) {
	case errors.CodeInvalidInput, errors.CodeNotFound:
		return exitUsage
	case errors.CodeUnsupportedFormat:
		return exitUnsupported
	default:
		return exitFailure
	}
}

func fail(stderr io.Writer, err error) int {
	code := exitCodeFor(err)
	switch code {
	case exitUsage, exitUnsupported:
		fmt.Fprintln(stderr, err.Error())
	default:
		fmt.Fprintf(stderr, "registry extraction failed [%s]: %v\n", errors.GetCode(err), err)
	}
	return code
}
