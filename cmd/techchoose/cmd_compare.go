package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/techchoose/backend/internal/domain"
)

type compareOptions struct {
	against string
	judge   string
	persona string
	os      string
	budget  float64
}

func newCompareCommand(global *globalOptions) *cobra.Command {
	opts := &compareOptions{}

	cmd := &cobra.Command{
		Use:   "compare <challenger>",
		Short: "Run a head-to-head between two devices",
		Long: `Compare scores the challenger against another device under a judge
criterion (overall, performance, camera, battery, value or brand).

Without --against the challenger faces the ranking winner for
--persona, --os and --budget.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := &domain.CompareRequest{
				DeviceA: opts.against,
				DeviceB: args[0],
				Judge:   opts.judge,
			}
			if opts.against == "" {
				req.Preferences = &domain.Preferences{
					Persona: opts.persona,
					OS:      opts.os,
					Budget:  budgetFlag(cmd, opts.budget),
				}
			}

			service, cleanup, err := global.newService()
			if err != nil {
				return err
			}
			defer cleanup()

			result, err := service.Compare(cmd.Context(), req)
			if err != nil {
				return err
			}
			if global.format == "json" {
				return writeJSON(cmd.OutOrStdout(), result)
			}
			return printComparison(cmd.OutOrStdout(), result)
		},
	}

	cmd.Flags().StringVar(&opts.against, "against", "", "Device to compare with; defaults to the ranking winner")
	cmd.Flags().StringVarP(&opts.judge, "judge", "j", "", "Judge criterion; defaults to overall")
	cmd.Flags().StringVarP(&opts.persona, "persona", "p", "", "Persona used to pick the ranking winner")
	cmd.Flags().StringVar(&opts.os, "os", "Any", "Operating system filter used to pick the ranking winner")
	cmd.Flags().Float64Var(&opts.budget, "budget", 0, "Budget used to pick the ranking winner")

	return cmd
}

func printComparison(w io.Writer, c *domain.Comparison) error {
	fmt.Fprintf(w, "%s (%.1f) vs %s (%.1f)\n", c.DeviceA.Name, c.ScoreA, c.DeviceB.Name, c.ScoreB)
	if c.Tie {
		fmt.Fprintf(w, "Tie, %s keeps the lead\n", c.Winner.Name)
	} else {
		fmt.Fprintf(w, "Winner: %s\n", c.Winner.Name)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "ATTRIBUTE\t%s\t%s\tDELTA\n", c.DeviceA.Name, c.DeviceB.Name)
	for _, d := range c.Deltas {
		fmt.Fprintf(tw, "%s\t%.1f\t%.1f\t%+.1f\n", d.Attribute, d.A, d.B, d.Delta)
	}
	return tw.Flush()
}
