package cmd

import (
	"github.com/spf13/cobra"
)

func newCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate completion script",
		Long: `To load completions:

Bash:
  $ source <(pharmacy-dash completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ pharmacy-dash completion bash > /etc/bash_completion.d/pharmacy-dash
  # macOS:
  $ pharmacy-dash completion bash > /usr/local/etc/bash_completion.d/pharmacy-dash

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it.  You can execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ pharmacy-dash completion zsh > "${fpath[1]}/_pharmacy-dash"

  # You will need to start a new shell for this setup to take effect.

Fish:
  $ pharmacy-dash completion fish | source

  # To load completions for each session, execute once:
  $ pharmacy-dash completion fish > ~/.config/fish/completions/pharmacy-dash.fish

PowerShell:
  PS> pharmacy-dash completion powershell | Out-String | Invoke-Expression

  # To load completions for every new session, run:
  PS> pharmacy-dash completion powershell > pharmacy-dash.ps1
  # and source this file from your PowerShell profile.
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE:                  runCompletion,
	}
}

func runCompletion(cmd *cobra.Command, args []string) error {
	out, root := cmd.OutOrStdout(), cmd.Root()
	switch args[0] {
	case "bash":
		return root.GenBashCompletion(out)
	case "zsh":
		return root.GenZshCompletion(out)
	case "fish":
		return root.GenFishCompletion(out, true)
	case "powershell":
		return root.GenPowerShellCompletionWithDesc(out)
	}
	return nil
}