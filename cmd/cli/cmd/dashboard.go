package cmd

import (
	"errors"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	cliapi "pharmacy-dashboard/internal/cli"
	"pharmacy-dashboard/internal/logger"
)

var errNotTerminal = errors.New("the interactive dashboard needs a terminal; use summary instead")

func newDashboardCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "dashboard",
		Aliases: []string{"ui"},
		Short:   "Open the interactive dashboard",
		Long: `Open the dashboard in the terminal. Sign in, then use f to edit the filters,
a to apply them, r to restore the defaults, l to sign out and q to quit.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDashboard(cmd, opts)
		},
	}
}

func runDashboard(cmd *cobra.Command, opts *rootOptions) error {
	rt, err := opts.initializeClient(cmd)
	if err != nil {
		return err
	}
	if !cliapi.IsTerminal(cmd.OutOrStdout()) {
		return errNotTerminal
	}

	// logging is discarded while the full-screen view owns the terminal
	sess := cliapi.NewSession(rt.client, rt.cfg.CriticalThreshold, logger.Nop().Logger)
	model := cliapi.NewDashboardModel(cmd.Context(), sess.Controller, sess.Page, rt.cfg.Username, !rt.cfg.NoColor)

	_, err = tea.NewProgram(model,
		tea.WithAltScreen(),
		tea.WithContext(cmd.Context()),
		tea.WithOutput(cmd.OutOrStdout()),
	).Run()
	return err
}
