package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/recipebox/internal/config"
)

// NewConfigCommand groups config file helpers.
func NewConfigCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the recipebox config file",
	}
	cmd.AddCommand(newConfigInitCommand(opts))
	return cmd
}

func newConfigInitCommand(opts *RootOptions) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.WriteDefault(opts.ConfigPath, force)
			if err != nil {
				return WrapExitError(ExitCommandError, "write config", err)
			}
			return opts.formatter(cmd).Success(map[string]string{"path": path}, func(w io.Writer) {
				fmt.Fprintf(w, "Wrote %s\n", path)
			})
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing config file")
	return cmd
}
