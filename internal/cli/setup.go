package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/health-signal-classifier/internal/setup"
)

func (r *root) setupCommand() *cobra.Command {
	var clientConfig string

	cmd := &cobra.Command{
		Use:   "setup",
		Short: "Register the MCP server with a desktop MCP client",
	}
	cmd.PersistentFlags().StringVar(&clientConfig, "client-config", "", "client config file (default: Claude Desktop location)")

	path := func() (string, error) {
		if clientConfig != "" {
			return clientConfig, nil
		}
		return setup.DefaultClientConfigPath()
	}

	var binary, dataDir string
	install := &cobra.Command{
		Use:   "install",
		Short: "Add or update the server entry",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := path()
			if err != nil {
				return err
			}
			entry, err := setup.Register(p, setup.Options{BinaryPath: binary, ConfigFile: r.cfgFile, DataDir: dataDir})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Registered %s in %s\nCommand: %s %v\nRestart the client to load it.\n",
				setup.ServerName, p, entry.Command, entry.Args)
			return nil
		},
	}
	install.Flags().StringVar(&binary, "binary", "", "path to the hsc binary (default: this executable)")
	install.Flags().StringVar(&dataDir, "server-data-dir", "", "data directory passed to the server")

	uninstall := &cobra.Command{
		Use:   "uninstall",
		Short: "Remove the server entry",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := path()
			if err != nil {
				return err
			}
			removed, err := setup.Unregister(p)
			if err != nil {
				return err
			}
			if removed {
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %s from %s\n", setup.ServerName, p)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "%s was not registered in %s\n", setup.ServerName, p)
			}
			return nil
		},
	}

	status := &cobra.Command{
		Use:   "status",
		Short: "Check the server entry",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := path()
			if err != nil {
				return err
			}
			st, err := setup.Check(p)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), st)
		},
	}

	cmd.AddCommand(install, uninstall, status)
	return cmd
}
