package cmd

import (
	"github.com/spf13/cobra"

	"pharmacy-dashboard/internal/dashboard"
	"pharmacy-dashboard/internal/page"
)

type summaryOptions struct {
	from       string
	to         string
	pharmacy   string
	medication string
	essential  bool
	critical   string
}

func newSummaryCmd(opts *rootOptions) *cobra.Command {
	so := &summaryOptions{}
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Print the dashboard for a set of filters",
		Long: `Sign in, apply the filters and print the KPIs, the prescribed vs dispensed
series, the most dispensed medications and the critical stock and stockout
tables. Dates default to the full range the API reports.`,
		Example: `  pharmacy-dash summary --from 2024-01-01 --to 2024-01-31 --pharmacy F01
  pharmacy-dash summary --essential --critical 10 --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSummary(cmd, opts, so)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&so.from, "from", "", "First date (YYYY-MM-DD)")
	flags.StringVar(&so.to, "to", "", "Last date (YYYY-MM-DD)")
	flags.StringVarP(&so.pharmacy, "pharmacy", "p", "", "Pharmacy code")
	flags.StringVarP(&so.medication, "medication", "m", "", "Medication code")
	flags.BoolVarP(&so.essential, "essential", "e", false, "Only essential medications")
	flags.StringVar(&so.critical, "critical", "", "Critical stock threshold in days of coverage")
	return cmd
}

func (so *summaryOptions) form() dashboard.FormValues {
	return dashboard.FormValues{
		DateFrom:          so.from,
		DateTo:            so.to,
		Pharmacy:          so.pharmacy,
		Medication:        so.medication,
		EssentialOnly:     so.essential,
		CriticalThreshold: so.critical,
	}
}

func runSummary(cmd *cobra.Command, opts *rootOptions, so *summaryOptions) error {
	rt, err := opts.initializeClient(cmd)
	if err != nil {
		return err
	}

	sess, err := rt.newSession(cmd)
	if err != nil {
		rt.out.PrintError(err)
		return err
	}

	var st page.State
	err = rt.withSpinner(cmd, "Actualizando tablero", func() error {
		st, err = sess.Summary(cmd.Context(), so.form())
		return err
	})
	rt.out.PrintAlerts(st.Alerts)
	if err != nil {
		return err
	}

	return rt.out.PrintState(st)
}
