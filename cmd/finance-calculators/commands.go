package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/iwvelando/finance-calculators/internal/calculator"
	"github.com/iwvelando/finance-calculators/internal/config"
	"github.com/iwvelando/finance-calculators/internal/server"
	"github.com/iwvelando/finance-calculators/internal/service"
	"github.com/iwvelando/finance-calculators/pkg/constants"
	"github.com/iwvelando/finance-calculators/pkg/output"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

func (a *app) newListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the available calculators",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			defs := a.service.Catalog()
			w := cmd.OutOrStdout()
			switch a.conf.Output.Format {
			case constants.OutputFormatJSON:
				return output.JSONFormat(w, defs)
			case constants.OutputFormatYAML:
				return output.YAMLFormat(w, defs)
			default:
				return printCatalog(w, defs)
			}
		},
	}
}

func printCatalog(w io.Writer, defs []calculator.Definition) error {
	width := 0
	for _, def := range defs {
		width = max(width, len(def.Type))
	}

	p := message.NewPrinter(language.English)
	var category calculator.Category
	for _, def := range defs {
		if def.Category != category {
			category = def.Category
			if _, err := p.Fprintf(w, "%s\n", category); err != nil {
				return err
			}
		}
		if _, err := p.Fprintf(w, "  %-*s  %s\n", width, def.Type, def.Name); err != nil {
			return err
		}
	}
	return nil
}

func (a *app) newCalcCommand() *cobra.Command {
	var (
		inputFile       string
		outFile         string
		save            bool
		raw             bool
		withPreferences bool
	)

	cmd := &cobra.Command{
		Use:   "calc <type> [key=value...]",
		Short: "Run a calculator",
		Long: `Run a calculator. Inputs not given as key=value pairs or in the input file
take their default values; see "list" for the calculator types.`,
		Example: `  finance-calculators calc emi principal=2500000 rate=8.75 tenure=20
  finance-calculators calc stock-average --input purchases.yaml -o json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := readInput(inputFile, args[1:])
			if err != nil {
				return err
			}

			var opts []service.CalculateOption
			if withPreferences {
				opts = append(opts, service.WithPreferences())
			}

			var out *calculator.Output
			if save {
				o, saved, err := a.service.CalculateAndSave(cmd.Context(), args[0], input, opts...)
				if err != nil {
					return err
				}
				a.logger.Info("calculation saved",
					zap.String("op", "main.calc"),
					zap.String("id", saved.ID))
				out = o
			} else {
				out, err = a.service.Calculate(cmd.Context(), args[0], input, opts...)
				if err != nil {
					return err
				}
			}

			doc, err := service.Document(out, raw)
			if err != nil {
				return err
			}
			return a.render(cmd, outFile, func(w io.Writer) error {
				return output.Write(w, a.conf.Output.Format, doc)
			})
		},
	}

	cmd.Flags().StringVarP(&inputFile, "input", "i", "", "YAML or JSON file with calculator inputs")
	cmd.Flags().StringVar(&outFile, "out", "", "write the output to a file instead of stdout")
	cmd.Flags().BoolVar(&save, "save", false, "store the calculation in the history")
	cmd.Flags().BoolVar(&raw, "raw", false, "show results at full precision")
	cmd.Flags().BoolVar(&withPreferences, "preferences", false, "fill missing inputs from saved preferences")
	return cmd
}

func (a *app) newHistoryCommand() *cobra.Command {
	var outFile string
	cmd := &cobra.Command{
		Use:   "history <type>",
		Short: "Show saved calculations of a calculator, oldest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			records, err := a.service.History(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			docs := service.HistoryDocuments(records)
			return a.render(cmd, outFile, func(w io.Writer) error {
				return output.WriteAll(w, a.conf.Output.Format, docs)
			})
		},
	}
	cmd.Flags().StringVar(&outFile, "out", "", "write the output to a file instead of stdout")
	return cmd
}

func (a *app) newPrefsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prefs",
		Short: "Manage saved default inputs",
	}

	get := &cobra.Command{
		Use:   "get <type>",
		Short: "Show the saved defaults of a calculator",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			record, err := a.service.Preferences(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return a.printRecord(cmd.OutOrStdout(), record)
		},
	}

	var inputFile string
	set := &cobra.Command{
		Use:   "set <type> [key=value...]",
		Short: "Save default inputs for a calculator",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			defaults, err := readInput(inputFile, args[1:])
			if err != nil {
				return err
			}
			record, err := a.service.SavePreferences(cmd.Context(), args[0], defaults)
			if err != nil {
				return err
			}
			return a.printRecord(cmd.OutOrStdout(), record)
		},
	}
	set.Flags().StringVarP(&inputFile, "input", "i", "", "YAML or JSON file with default inputs")

	cmd.AddCommand(get, set)
	return cmd
}

// printRecord writes a single record as YAML unless JSON output was asked for.
func (a *app) printRecord(w io.Writer, record any) error {
	if a.conf.Output.Format == constants.OutputFormatJSON {
		return output.JSONFormat(w, record)
	}
	return output.YAMLFormat(w, record)
}

func (a *app) newServeCommand() *cobra.Command {
	var address string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the calculator HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := a.conf.Server
			if address != "" {
				cfg.Address = address
			}
			return a.serve(cmd.Context(), cfg)
		},
	}
	cmd.Flags().StringVar(&address, "address", "", "listen address override (e.g. :8080)")
	return cmd
}

func (a *app) serve(ctx context.Context, cfg config.ServerConfig) error {
	maxRequestSize, err := cfg.RequestSizeBytes()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	handler := server.NewHandler(a.service, a.logger, maxRequestSize, a.version)
	return server.ListenAndServe(ctx, cfg, handler, a.logger)
}

func (a *app) newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), a.version)
			return err
		},
	}
}

// render writes to outFile when set, otherwise to the command's output.
func (a *app) render(cmd *cobra.Command, outFile string, write func(io.Writer) error) error {
	if outFile == "" {
		return write(cmd.OutOrStdout())
	}

	file, err := os.Create(outFile)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := write(file); err != nil {
		_ = file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	a.logger.Info("output written",
		zap.String("op", "main.render"),
		zap.String("path", outFile))
	return nil
}
