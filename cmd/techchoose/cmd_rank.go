package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/techchoose/backend/internal/domain"
)

type rankOptions struct {
	persona string
	os      string
	budget  float64
	weights []float64
}

func newRankCommand(global *globalOptions) *cobra.Command {
	opts := &rankOptions{}

	cmd := &cobra.Command{
		Use:   "rank",
		Short: "Rank the catalog for a persona or custom weights",
		Long: `Rank scores every device that passes the OS and budget filters and
prints the winner followed by the runners-up.

Weights come from --persona, else from --weights given as
performance,camera,battery,value[,brand], else the default sliders.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			prefs, err := opts.preferences(cmd)
			if err != nil {
				return err
			}

			service, cleanup, err := global.newService()
			if err != nil {
				return err
			}
			defer cleanup()

			rec, err := service.Recommend(cmd.Context(), prefs)
			if err != nil {
				return err
			}
			if global.format == "json" {
				err = writeJSON(cmd.OutOrStdout(), rec)
			} else {
				err = printRecommendation(cmd.OutOrStdout(), rec)
			}
			if err != nil {
				return err
			}
			if rec.NoMatches {
				return domain.ErrNoMatches
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.persona, "persona", "p", "", "Persona preset (gamer, creator, business, student, general)")
	cmd.Flags().StringVar(&opts.os, "os", "Any", "Operating system filter: Any, iOS or Android")
	cmd.Flags().Float64Var(&opts.budget, "budget", 0, "Maximum price; unset means unlimited")
	cmd.Flags().Float64SliceVar(&opts.weights, "weights", nil, "Custom weights: performance,camera,battery,value[,brand]")

	return cmd
}

func (o *rankOptions) preferences(cmd *cobra.Command) (*domain.Preferences, error) {
	prefs := &domain.Preferences{
		Persona: o.persona,
		OS:      o.os,
		Budget:  budgetFlag(cmd, o.budget),
	}

	if len(o.weights) > 0 {
		if len(o.weights) != 4 && len(o.weights) != 5 {
			return nil, fmt.Errorf("%w: --weights takes 4 or 5 values, got %d", domain.ErrInvalidRequest, len(o.weights))
		}
		w := domain.WeightVector{
			Performance: o.weights[0],
			Camera:      o.weights[1],
			Battery:     o.weights[2],
			Value:       o.weights[3],
		}
		if len(o.weights) == 5 {
			w.Brand = o.weights[4]
		}
		prefs.Weights = &w
	}

	return prefs, nil
}

func printRecommendation(w io.Writer, rec *domain.Recommendation) error {
	fmt.Fprintf(w, "Persona: %s  OS: %s  Matched: %d of %d\n", rec.Persona, rec.Filters.OS, rec.Matched, rec.CatalogSize)
	if rec.NoMatches {
		fmt.Fprintln(w, "No devices match the filters.")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tDEVICE\tPRICE\tSCORE\tMATCH")
	rows := append([]domain.ScoredDevice{*rec.Winner}, rec.Alternatives...)
	for i, d := range rows {
		fmt.Fprintf(tw, "%d\t%s\t$%.0f\t%.1f\t%.0f%%\n", i+1, d.Name, d.Price, d.FinalScore, d.Match)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if rec.Winner.Link != "" {
		fmt.Fprintf(w, "Buy: %s\n", rec.Winner.Link)
	}
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

