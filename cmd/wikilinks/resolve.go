package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pfassina/wikilinks/internal/markdown"
	"github.com/pfassina/wikilinks/internal/mdast"
	"github.com/pfassina/wikilinks/internal/ui"
	"github.com/pfassina/wikilinks/internal/wikilink"
)

const (
	inputAuto     = "auto"
	inputMarkdown = "markdown"
	inputJSON     = "json"
)

func newResolveCmd(a *app) *cobra.Command {
	var (
		input   string
		summary bool
	)

	cmd := &cobra.Command{
		Use:   "resolve [file...]",
		Short: "Resolve wiki links and print the mdast JSON tree",
		Long: `Parse each file, resolve its wiki links and write the resulting mdast
tree as JSON to stdout. With no file, or with "-", stdin is read.

Input is markdown unless --input=json is given or the file ends in .json,
in which case it must be an mdast JSON tree (for example from remark).

Example:
  wikilinks resolve notes/index.md
  wikilinks resolve --strip-ext .md --summary notes/*.md`,
		RunE: func(cmd *cobra.Command, args []string) error {
			switch input {
			case inputAuto, inputMarkdown, inputJSON:
			default:
				return fmt.Errorf("invalid input format %q (want auto, markdown or json)", input)
			}
			if len(args) == 0 {
				args = []string{"-"}
			}

			for _, path := range args {
				tree, report, err := a.resolvePath(cmd.InOrStdin(), path, input)
				if err != nil {
					a.log.FileError(path, err)
					return err
				}
				if err := mdast.Encode(a.stdout, tree); err != nil {
					return err
				}
				if summary {
					fmt.Fprintln(a.stderr, ui.RenderReport(path, report))
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&input, "input", inputAuto, "input format: auto|markdown|json")
	cmd.Flags().BoolVar(&summary, "summary", false, "print a report of rewritten links to stderr")
	return cmd
}

// resolvePath reads, parses and resolves one document. "-" reads stdin.
func (a *app) resolvePath(stdin io.Reader, path, input string) (*mdast.Tree, wikilink.Report, error) {
	start := time.Now()

	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, wikilink.Report{}, err
	}

	if input == inputAuto {
		input = inputMarkdown
		if strings.EqualFold(filepath.Ext(path), ".json") {
			input = inputJSON
		}
	}

	var tree *mdast.Tree
	if input == inputJSON {
		tree, err = mdast.Decode(bytes.NewReader(data))
	} else {
		tree, err = markdown.NewParser().Parse(data)
	}
	if err != nil {
		return nil, wikilink.Report{}, fmt.Errorf("%s: %w", path, err)
	}

	report, err := wikilink.Resolve(tree, a.opts)
	if err != nil {
		return nil, report, fmt.Errorf("%s: %w", path, err)
	}
	a.log.Resolved(path, report, time.Since(start))
	return tree, report, nil
}
