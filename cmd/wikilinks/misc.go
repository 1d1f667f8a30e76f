package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pfassina/wikilinks/internal/config"
	"github.com/pfassina/wikilinks/internal/wikilink"
)

func newSlugCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "slug <title>...",
		Short: "Print the URL path the active policy builds for each title",
		Long: `Print the URL path the active title-to-path policy builds for each title.

Example:
  wikilinks slug "folder/My Page Name"
  wikilinks slug --policy slug "Folder/My Page"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, title := range args {
				path, err := a.opts.TitleToPath(title)
				if err != nil {
					return fmt.Errorf("title to path %q: %w", title, err)
				}
				fmt.Fprintln(a.stdout, path)
			}
			return nil
		},
	}
}

func newPoliciesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "policies",
		Short: "List the available title-to-path policies",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range wikilink.Policies() {
				marker := " "
				if name == a.cfg.TitleToURLPath {
					marker = "*"
				}
				fmt.Fprintf(a.stdout, "%s %s\n", marker, name)
			}
			return nil
		},
	}
}

func newInitCmd(a *app) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a config file with the current settings",
		Long: `Write the effective settings (defaults, config file and flags) to the
config file given by --config, or to the default location.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := a.configPath
			if path == "" {
				path = config.ConfigPath()
			}
			if _, err := os.Stat(config.ExpandHome(path)); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}
			if err := config.SaveFile(path, a.cfg); err != nil {
				return fmt.Errorf("write config: %w", err)
			}
			fmt.Fprintln(a.stdout, path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing config file")
	return cmd
}
