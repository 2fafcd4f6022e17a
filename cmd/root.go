package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/MainbaseT/sol2uml/internal/config"
	"github.com/MainbaseT/sol2uml/internal/logger"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var rootCmd = &cobra.Command{
	Use:   "sol2uml",
	Short: "Get, flatten and inspect verified Solidity source code from Etherscan like explorers",
}

func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	initConfig(rootCmd)

	rootCmd.PersistentFlags().Bool(config.Debug, false, `"true" or "false"`)
	rootCmd.PersistentFlags().StringP(config.Network, "n", "ethereum", `Network name (ethereum, polygon, arbitrum, base, ...) or chain id`)

	rootCmd.PersistentFlags().String(config.ExplorerApiKey, "", `Etherscan api key`)
	rootCmd.PersistentFlags().String(config.ExplorerUrl, "", `Custom explorer api url, e.g. "https://api.routescan.io/v2/network/mainnet/evm/1/etherscan/api"`)
	rootCmd.PersistentFlags().Duration(config.ExplorerTimeout, config.DefaultExplorerTimeout, `Timeout of each explorer request`)
	rootCmd.PersistentFlags().Int(config.ExplorerRateLimitRetries, 0, `Number of times to retry a rate limited explorer request`)

	rootCmd.PersistentFlags().Bool(config.DataDogStatsdEnabled, false, `e.g. "true" or "false"`)
	rootCmd.PersistentFlags().String(config.DataDogStatsdUrl, "", `e.g. "localhost:8125"`)
	rootCmd.PersistentFlags().Float64(config.DataDogStatsdSampleRate, 1.0, `The sample rate to use for statsd metrics`)

	rootCmd.PersistentFlags().Bool(config.PrometheusEnabled, false, `e.g. "true" or "false"`)
	rootCmd.PersistentFlags().Int(config.PrometheusPort, 2112, `The port to run the prometheus server on`)

	// setup sub commands
	rootCmd.AddCommand(sourceCmd)
	rootCmd.AddCommand(flattenCmd)
	rootCmd.AddCommand(classesCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(runVersionCmd)

	// bind any subcommand flags
	sourceCmd.Flags().String(flagFilename, "", `Only keep source files named <filename>.sol`)
	sourceCmd.Flags().String(flagOut, "", `Directory to write the source files to`)
	sourceCmd.Flags().String(flagFormat, formatText, `Output format when not writing files (text, csv)`)

	flattenCmd.Flags().String(flagFilename, "", `Only merge source files named <filename>.sol`)
	flattenCmd.Flags().String(flagOut, "", `File to write the flattened source code to`)
	flattenCmd.Flags().Bool(flagProgress, false, `Show a progress bar while parsing`)
	flattenCmd.Flags().Bool(flagSkipUnparsable, false, `Merge files that fail to parse instead of failing`)

	classesCmd.Flags().String(flagFilename, "", `Only convert source files named <filename>.sol`)

	serveCmd.Flags().Int(config.RpcHttpPort, 7101, `http rpc port`)
	serveCmd.Flags().StringSlice(config.RpcCorsAllowedOrigins, nil, `Origins allowed to call the http api (default "*")`)

	rootCmd.PersistentFlags().VisitAll(func(f *pflag.Flag) {
		key := config.KebabToSnakeCase(f.Name)
		viper.BindPFlag(key, f) //nolint:errcheck
		viper.BindEnv(key)      //nolint:errcheck
	})
}

func initConfig(cmd *cobra.Command) {
	// a missing .env file is fine
	_ = godotenv.Load()

	viper.SetEnvPrefix(config.ENV_PREFIX)

	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))

	viper.AutomaticEnv()
}

func bindCommandFlags(cmd *cobra.Command) {
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if err := viper.BindPFlag(config.KebabToSnakeCase(f.Name), f); err != nil {
			fmt.Printf("Failed to bind flag '%s' - %+v\n", f.Name, err)
		}
		if err := viper.BindEnv(config.KebabToSnakeCase(f.Name)); err != nil {
			fmt.Printf("Failed to bind env '%s' - %+v\n", f.Name, err)
		}
	})
}

// setup binds the command flags and builds the config and the console logger used by the CLI commands.
func setup(cmd *cobra.Command) (*config.Config, *zap.Logger, error) {
	bindCommandFlags(cmd)
	cfg := config.NewConfig()

	l, err := logger.NewLogger(&logger.LoggerConfig{Debug: cfg.Debug, Console: true})
	if err != nil {
		return nil, nil, err
	}
	return cfg, l, nil
}
