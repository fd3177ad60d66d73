package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/techchoose/backend/config"
	"github.com/techchoose/backend/internal/domain"
	"github.com/techchoose/backend/internal/infrastructure/cache"
	"github.com/techchoose/backend/internal/infrastructure/logging"
	"github.com/techchoose/backend/internal/infrastructure/sheets"
	"github.com/techchoose/backend/internal/usecase"
)

var version = "dev"

// globalOptions are the persistent flags shared by every subcommand
type globalOptions struct {
	file         string
	url          string
	affiliateTag string
	personasFile string
	format       string
	debug        bool
}

func newRootCommand() *cobra.Command {
	opts := &globalOptions{}

	cmd := &cobra.Command{
		Use:   "techchoose",
		Short: "TechChoose - rank and compare smartphones from the catalog sheet",
		Long: `TechChoose ranks the phone catalog against a persona or custom weights
and runs head-to-head comparisons, without starting the API server.

The catalog is read from a local CSV file (--file) or a published
spreadsheet export (--url, defaulting to the public catalog sheet).`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.file, "file", "", "Read the catalog from a local CSV file")
	flags.StringVar(&opts.url, "url", config.DefaultSourceURL, "Published spreadsheet CSV export URL")
	flags.StringVar(&opts.affiliateTag, "affiliate-tag", "techchoose-20", "Affiliate tag appended to product links")
	flags.StringVar(&opts.personasFile, "personas", "", "YAML file overriding the built-in persona and judge presets")
	flags.StringVarP(&opts.format, "format", "f", "table", "Output format: table or json")
	flags.BoolVar(&opts.debug, "debug", false, "Enable debug logging")

	cmd.AddCommand(newRankCommand(opts))
	cmd.AddCommand(newCompareCommand(opts))

	return cmd
}

func execute() error {
	return newRootCommand().Execute()
}

func (o *globalOptions) validate() error {
	if o.format != "table" && o.format != "json" {
		return fmt.Errorf("%w: unsupported format %q: must be table or json", domain.ErrInvalidRequest, o.format)
	}
	return nil
}

// newService wires a recommendation service over the selected catalog source.
// The returned cleanup must be called once the command is done.
func (o *globalOptions) newService() (*usecase.RecommendationService, func(), error) {
	if err := o.validate(); err != nil {
		return nil, nil, err
	}

	level := "warn"
	if o.debug {
		level = "debug"
	}
	logger, err := logging.New(level, "console")
	if err != nil {
		return nil, nil, err
	}

	presets := usecase.DefaultPresets()
	if o.personasFile != "" {
		if presets, err = usecase.LoadPresets(o.personasFile); err != nil {
			return nil, nil, err
		}
	}

	var source domain.SheetClient
	if o.file != "" {
		source = sheets.NewFileSource(o.file)
	} else {
		if o.url == "" {
			return nil, nil, errors.New("either --file or --url is required")
		}
		source = sheets.NewClient(sheets.ClientConfig{SourceURL: o.url}, logger)
	}

	memoryCache := cache.NewMemoryCache(0)
	catalogs := usecase.NewCatalogService(memoryCache, source, usecase.CatalogServiceConfig{
		AffiliateTag: o.affiliateTag,
	}, nil, logger)

	service := usecase.NewRecommendationService(catalogs, presets, usecase.RecommendationServiceConfig{
		Alternatives: 5,
	}, nil, logger)

	cleanup := func() {
		memoryCache.Close()
		_ = logger.Sync()
	}
	return service, cleanup, nil
}

// budgetFlag returns nil when the budget flag was left unset
func budgetFlag(cmd *cobra.Command, value float64) *float64 {
	if !cmd.Flags().Changed("budget") {
		return nil
	}
	return &value
}
