package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/pindeps/pkg/lockfile"
	"github.com/matzehuels/pindeps/pkg/render"
)

// graphOpts holds the command-line flags for the graph command.
type graphOpts struct {
	lockFile string // explicit lock file path
	format   string // explicit lock format
	name     string // project name override
	to       string // output format: dot, svg, png
	output   string // output file path (stdout if empty)
	detailed bool   // include version/marker metadata in node labels
}

// newGraphCmd creates the graph command for visualizing the dependency
// graph of a lock file. Graph-shaped formats (uv.lock) render their full
// transitive structure; flat formats render a star around the project root.
func newGraphCmd() *cobra.Command {
	opts := graphOpts{to: "dot"}

	cmd := &cobra.Command{
		Use:   "graph [dir]",
		Short: "Render a lock file's dependency graph as DOT, SVG, or PNG",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := "."
			if len(args) == 1 {
				root = args[0]
			}
			if err := validateGraphFormat(opts.to); err != nil {
				return err
			}
			return runGraph(cmd.Context(), root, &opts)
		},
	}

	cmd.Flags().StringVar(&opts.lockFile, "lock-file", "", "lock file path (relative to the project directory)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "lock format: pylock, uv, requirements (inferred if empty)")
	cmd.Flags().StringVarP(&opts.name, "name", "n", "", "project name (overrides pyproject.toml auto-detection)")
	cmd.Flags().StringVarP(&opts.to, "to", "t", opts.to, "output format: dot (default), svg, png")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "include version and marker metadata in node labels")

	return cmd
}

// validGraphFormats is the set of supported graph output formats.
var validGraphFormats = map[string]bool{"dot": true, "svg": true, "png": true}

// validateGraphFormat checks that the requested output format is supported.
func validateGraphFormat(s string) error {
	if !validGraphFormats[s] {
		return fmt.Errorf("invalid format: %s (must be 'dot', 'svg', or 'png')", s)
	}
	return nil
}

// runGraph parses the project's lock file and writes the rendered graph to
// opts.output (or stdout).
func runGraph(ctx context.Context, root string, opts *graphOpts) error {
	logger := loggerFromContext(ctx)

	lockOpts := lockfile.Options{
		LockFile:    opts.lockFile,
		ProjectName: opts.name,
		Logger:      func(msg string, args ...any) { logger.Debugf(msg, args...) },
	}
	if opts.format != "" {
		format, err := lockfile.ParseFormat(opts.format)
		if err != nil {
			return err
		}
		lockOpts.Format = format
	}

	p, err := lockfile.Open(root, lockOpts)
	if err != nil {
		return err
	}
	logger.Infof("Rendering %s (%s format)", p.Path, p.Format)

	doc, err := p.Document()
	if err != nil {
		return err
	}
	g := doc.VisualGraph()
	logger.Infof("Graph: %d nodes, %d edges", g.NodeCount(), g.EdgeCount())

	dot := render.ToDOT(g, render.Options{Detailed: opts.detailed})

	var data []byte
	switch opts.to {
	case "dot":
		data = []byte(dot)
	case "svg":
		logger.Debug("Rendering SVG via graphviz")
		if data, err = render.RenderSVG(dot); err != nil {
			return err
		}
	case "png":
		logger.Debug("Rendering PNG via graphviz")
		if data, err = render.RenderPNG(dot); err != nil {
			return err
		}
	}

	out, err := openOutput(opts.output)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := out.Write(data); err != nil {
		return err
	}
	if opts.output != "" {
		printSuccess("Generated %s graph", opts.to)
		printFile(opts.output)
		printStats(g.NodeCount(), g.EdgeCount())
	}
	return nil
}
