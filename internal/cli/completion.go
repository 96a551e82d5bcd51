package cli

import (
	"io"

	"github.com/spf13/cobra"
)

var completionGenerators = map[string]func(*cobra.Command, io.Writer) error{
	"bash":       func(root *cobra.Command, w io.Writer) error { return root.GenBashCompletionV2(w, true) },
	"zsh":        (*cobra.Command).GenZshCompletion,
	"fish":       func(root *cobra.Command, w io.Writer) error { return root.GenFishCompletion(w, true) },
	"powershell": (*cobra.Command).GenPowerShellCompletionWithDesc,
}

func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Print a completion script for the given shell on stdout.

  bash        source <(bpmn2vsdx completion bash)
  zsh         bpmn2vsdx completion zsh > "${fpath[1]}/_bpmn2vsdx"
  fish        bpmn2vsdx completion fish > ~/.config/fish/completions/bpmn2vsdx.fish
  powershell  bpmn2vsdx completion powershell | Out-String | Invoke-Expression

Zsh needs compinit enabled; start a new shell afterwards.`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			gen, ok := completionGenerators[args[0]]
			if !ok {
				return nil
			}
			return gen(cmd.Root(), c.Out)
		},
	}

	return cmd
}
