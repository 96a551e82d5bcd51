package cli

import (
	"github.com/spf13/cobra"

	"github.com/Mgabr90/bpmn-to-visio/pkg/config"
)

// configCommand creates the config command.
func (c *CLI) configCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or create converter configuration",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration as TOML",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := c.config().Encode()
			if err != nil {
				return err
			}
			_, err = c.Out.Write(data)
			return err
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:     "init",
		Short:   "Print the default configuration as TOML",
		Example: "  bpmn2vsdx config init > ." + appName + ".toml",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := config.Default().Encode()
			if err != nil {
				return err
			}
			_, err = c.Out.Write(data)
			return err
		},
	})

	return cmd
}
