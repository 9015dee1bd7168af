package cmd

import (
	"github.com/spf13/cobra"

	cliapi "pharmacy-dashboard/internal/cli"
)

func newLoginCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "login",
		Short: "Verify credentials against the dashboard API",
		Long:  `Sign in with the configured credentials and print the user the API returned.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLogin(cmd, opts)
		},
	}
}

func runLogin(cmd *cobra.Command, opts *rootOptions) error {
	rt, err := opts.initializeClient(cmd)
	if err != nil {
		return err
	}
	if !rt.cfg.HasCredentials() {
		return errMissingCredentials
	}

	sess := cliapi.NewSession(rt.client, rt.cfg.CriticalThreshold, rt.logger.WithComponent("dashboard").Logger)
	err = rt.withSpinner(cmd, "Iniciando sesión", func() error {
		return sess.Controller.Login(cmd.Context(), rt.cfg.Username, rt.cfg.Password)
	})
	if err != nil {
		rt.out.PrintError(err)
		return err
	}

	return rt.out.PrintSession(*sess.Controller.State().Session)
}
