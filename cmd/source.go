package cmd

import (
	"fmt"
	"os"

	"github.com/MainbaseT/sol2uml/pkg/sourcecode"
	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var sourceCmd = &cobra.Command{
	Use:   "source <address>",
	Short: "Get the verified source files of a contract",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, l, err := setup(cmd)
		if err != nil {
			return err
		}
		sink, err := newMetricsSink(cfg, l)
		if err != nil {
			return errors.Wrap(err, "failed to setup metrics sink")
		}
		defer sink.Flush()

		sf, err := newSourceFetcher(cfg, sink, l)
		if err != nil {
			return err
		}

		filename, _ := cmd.Flags().GetString(flagFilename)
		out, _ := cmd.Flags().GetString(flagOut)
		format, _ := cmd.Flags().GetString(flagFormat)

		result, err := sf.FetchSourceCode(cmd.Context(), args[0], filename)
		if err != nil {
			return err
		}

		if out != "" {
			written, err := sourcecode.WriteFiles(afero.NewOsFs(), out, result.Files)
			if err != nil {
				return err
			}
			l.Sugar().Infow("Wrote source files",
				zap.String("contractName", result.ContractName),
				zap.String("dir", out),
				zap.Int("files", len(written)),
			)
			return nil
		}

		switch format {
		case formatCsv:
			return sourcecode.WriteFileSummariesCSV(os.Stdout, result.Files)
		case formatText:
			for _, f := range result.Files {
				fmt.Printf("// %s\n%s\n", f.Filename, f.Code)
			}
			return nil
		default:
			return fmt.Errorf("unsupported format %q, expected %s or %s", format, formatText, formatCsv)
		}
	},
}
