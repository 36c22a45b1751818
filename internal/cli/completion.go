package cli

import "github.com/spf13/cobra"

func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for penguin.

To load completions:

Bash:
  $ source <(penguin completion bash)

  # Persist for every session (Linux):
  $ penguin completion bash > /etc/bash_completion.d/penguin

Zsh:
  $ penguin completion zsh > "${fpath[1]}/_penguin"

Fish:
  $ penguin completion fish | source

  $ penguin completion fish > ~/.config/fish/completions/penguin.fish

PowerShell:
  PS> penguin completion powershell | Out-String | Invoke-Expression

`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(cmd.OutOrStdout())
			case "zsh":
				return cmd.Root().GenZshCompletion(cmd.OutOrStdout())
			case "fish":
				return cmd.Root().GenFishCompletion(cmd.OutOrStdout(), true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(cmd.OutOrStdout())
			}
			return nil
		},
	}

	return cmd
}
