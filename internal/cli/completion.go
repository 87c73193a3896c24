package cli

import (
	"os"
	"strings"

	"github.com/spf13/cobra"
)

const completionHelp = `Generate shell completion scripts for issuegraph.

To load completions:

Bash:
  $ source <(issuegraph completion bash)

  # To load completions for each session, execute once:
  $ issuegraph completion bash > /etc/bash_completion.d/issuegraph

Zsh:
  # If shell completion is not already enabled in your environment,
  # enable it once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  $ issuegraph completion zsh > "${fpath[1]}/_issuegraph"

Fish:
  $ issuegraph completion fish > ~/.config/fish/completions/issuegraph.fish

PowerShell:
  PS> issuegraph completion powershell | Out-String | Invoke-Expression
`

func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:                   "completion [bash|zsh|fish|powershell]",
		Short:                 "Generate shell completion scripts",
		Long:                  strings.TrimSpace(completionHelp),
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := cmd.Root()
			switch args[0] {
			case "bash":
				return root.GenBashCompletionV2(os.Stdout, true)
			case "zsh":
				return root.GenZshCompletion(os.Stdout)
			case "fish":
				return root.GenFishCompletion(os.Stdout, true)
			case "powershell":
				return root.GenPowerShellCompletionWithDesc(os.Stdout)
			}
			return nil
		},
	}
}
