package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/pfassina/wikilinks/internal/config"
	"github.com/pfassina/wikilinks/internal/logger"
	"github.com/pfassina/wikilinks/internal/wikilink"
)

// app holds state shared by the subcommands once flags and config are merged.
type app struct {
	stdout io.Writer
	stderr io.Writer

	configPath    string
	logLevel      string
	policy        string
	stripBrackets bool
	stripExts     []string

	cfg  config.Config
	opts wikilink.Options
	log  *logger.Logger
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	a := &app{stdout: stdout, stderr: stderr}

	root := &cobra.Command{
		Use:   "wikilinks",
		Short: "Resolve [[wiki links]] in markdown documents",
		Long: `wikilinks rewrites [[wiki link]] shortcut references into links.

A reference with a matching definition ([page]: /notes/page.md) uses the
definition's URL, optionally without its file extension; any other reference
gets a URL built from its title by the configured title-to-path policy.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Skip initialization for help commands
			if cmd.Name() == "help" || cmd.Name() == "completion" {
				return nil
			}
			return a.setup(cmd)
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "config file (default "+config.ConfigPath()+")")
	flags.StringVar(&a.logLevel, "log-level", "", "log level: debug|info|warn|error")
	flags.StringVar(&a.policy, "policy", "", "title-to-path policy name (see 'wikilinks policies')")
	flags.BoolVar(&a.stripBrackets, "strip-brackets", false, "do not wrap resolved link text in [[ ]]")
	flags.StringSliceVar(&a.stripExts, "strip-ext", nil, "extension removed from definition URLs (repeatable)")

	root.AddCommand(
		newResolveCmd(a),
		newWatchCmd(a),
		newSlugCmd(a),
		newPoliciesCmd(a),
		newInitCmd(a),
	)
	return root
}

// setup loads the config file, applies flag overrides and builds the
// logger and resolver options.
func (a *app) setup(cmd *cobra.Command) error {
	a.cfg = config.Default()
	path := a.configPath
	if path == "" {
		path = config.ConfigPath()
	}
	exists, err := config.LoadFrom(path, &a.cfg)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if a.configPath != "" && !exists && cmd.Name() != "init" {
		return fmt.Errorf("config file %s not found", a.configPath)
	}

	flags := cmd.Flags()
	if flags.Changed("log-level") {
		a.cfg.LogLevel = a.logLevel
	}
	if flags.Changed("policy") {
		a.cfg.TitleToURLPath = a.policy
	}
	if flags.Changed("strip-brackets") {
		a.cfg.StripBrackets = a.stripBrackets
	}
	if flags.Changed("strip-ext") {
		a.cfg.StripDefinitionExts = config.NormalizeExts(a.stripExts)
	}

	level, err := logger.ParseLevel(a.cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	a.log = logger.NewWithLevel(a.stderr, level)
	a.log.ConfigLoaded(path, exists, a.cfg.TitleToURLPath)

	a.opts, err = a.cfg.ResolverOptions()
	return err
}
