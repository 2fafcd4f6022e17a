package cmd

import (
	"os"

	"github.com/MainbaseT/sol2uml/pkg/sourceMerger"
	"github.com/pkg/errors"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var flattenCmd = &cobra.Command{
	Use:   "flatten <address>",
	Short: "Merge the verified source files of a contract into one compilable file",
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
		showProgress, _ := cmd.Flags().GetBool(flagProgress)
		skipUnparsable, _ := cmd.Flags().GetBool(flagSkipUnparsable)

		result, err := sf.FetchSourceCode(cmd.Context(), args[0], filename)
		if err != nil {
			return err
		}

		mergerCfg := &sourceMerger.SourceMergerConfig{
			TolerateParseErrors: skipUnparsable,
		}
		if showProgress {
			bar := progressbar.NewOptions(len(result.Files),
				progressbar.OptionSetWriter(os.Stderr),
				progressbar.OptionSetDescription("parsing source files"),
				progressbar.OptionClearOnFinish(),
			)
			defer bar.Finish() //nolint:errcheck
			mergerCfg.Progress = func(filename string) {
				bar.Describe(filename)
				_ = bar.Add(1)
			}
		}

		sm := sourceMerger.NewDefaultSourceMerger(mergerCfg, sink, l)
		merged, err := sm.MergeSourceCode(result)
		if err != nil {
			return err
		}

		if out == "" {
			_, err = os.Stdout.WriteString(merged.SolidityCode)
			return err
		}
		if err := afero.WriteFile(afero.NewOsFs(), out, []byte(merged.SolidityCode), 0o644); err != nil {
			return errors.Wrapf(err, "failed to write flattened source code to %s", out)
		}
		l.Sugar().Infow("Wrote flattened source code",
			zap.String("contractName", merged.ContractName),
			zap.String("file", out),
		)
		return nil
	},
}
