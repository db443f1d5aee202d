package main

import (
	"github.com/iwvelando/finance-calculators/internal/config"
	"github.com/iwvelando/finance-calculators/internal/service"
	"github.com/iwvelando/finance-calculators/internal/storage"
	"github.com/iwvelando/finance-calculators/pkg/constants"
	"github.com/iwvelando/finance-calculators/pkg/validation"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// app holds the state shared by every command once the root command has
// loaded the configuration.
type app struct {
	configPath   string
	logLevel     string
	outputFormat string
	version      string

	conf    *config.Configuration
	logger  *zap.Logger
	service *service.Service
}

func newApp(version string) *app {
	return &app{version: version}
}

// execute runs root and then releases the repository and the logger, whether
// or not the command failed.
func (a *app) execute(root *cobra.Command) error {
	err := root.Execute()
	return multierr.Append(err, a.teardown())
}

func (a *app) newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "finance-calculators",
		Short: "Personal finance calculators",
		Long: `finance-calculators runs Indian personal-finance calculators (SIP, EMI, PPF,
income tax, retirement and more) from the command line or over an HTTP API,
optionally keeping a history of calculations and saved default inputs.`,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", constants.DefaultConfigFile, "path to configuration file")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level override (debug, info, warn, error)")
	root.PersistentFlags().StringVarP(&a.outputFormat, "output-format", "o", "", "output format override: pretty, csv, json, yaml, pdf")

	root.AddCommand(
		a.newListCommand(),
		a.newCalcCommand(),
		a.newHistoryCommand(),
		a.newPrefsCommand(),
		a.newServeCommand(),
		a.newVersionCommand(),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command, args []string) error {
	conf, err := config.LoadConfiguration(a.configPath)
	if err != nil {
		return err
	}
	if a.outputFormat != "" {
		if err := validation.ValidateOutputFormat(a.outputFormat); err != nil {
			return err
		}
		conf.Output.Format = a.outputFormat
	}

	logger, err := initializeLogger(conf.Logging, a.logLevel)
	if err != nil {
		return err
	}

	repo, err := storage.Open(cmd.Context(), conf.Storage, logger)
	if err != nil {
		_ = logger.Sync()
		return err
	}

	a.conf = conf
	a.logger = logger
	a.service = service.New(repo, logger)
	logger.Debug("configuration loaded",
		zap.String("op", "main.setup"),
		zap.String("config", a.configPath),
		zap.String("storage", conf.Storage.Backend))
	return nil
}

// teardown is safe to call more than once and before setup.
func (a *app) teardown() error {
	if a.service == nil {
		return nil
	}
	err := a.service.Close()
	_ = a.logger.Sync()
	a.service = nil
	return err
}
