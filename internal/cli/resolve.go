package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/pindeps/pkg/lockfile"
)

// resolveOpts holds the command-line flags for the resolve command.
// These options mirror the `[tool.pindeps]` configuration table; flags win
// over configured values.
type resolveOpts struct {
	lockFile string   // explicit lock file path
	format   string   // explicit lock format (pylock, uv, requirements)
	name     string   // project name, overrides pyproject.toml auto-detection
	extras   []string // extras whose dependencies should be included
	exclude  []string // package names to drop from the output
	output   string   // output file path (stdout if empty)
	asJSON   bool     // emit a JSON array instead of requirement lines
}

// lockfileOptions converts resolveOpts into lockfile.Options, wiring the
// context logger into the engine's debug callback.
func (o *resolveOpts) lockfileOptions(ctx context.Context) (lockfile.Options, error) {
	logger := loggerFromContext(ctx)
	opts := lockfile.Options{
		LockFile:      o.lockFile,
		ProjectName:   o.name,
		IncludeExtras: o.extras,
		Exclude:       o.exclude,
		Logger:        func(msg string, args ...any) { logger.Debugf(msg, args...) },
	}
	if o.format != "" {
		format, err := lockfile.ParseFormat(o.format)
		if err != nil {
			return lockfile.Options{}, err
		}
		opts.Format = format
	}
	return opts, nil
}

// newResolveCmd creates the resolve command, the main entry point of the
// tool: it locates the project's lock file and prints the pinned runtime
// requirement list.
func newResolveCmd() *cobra.Command {
	var opts resolveOpts

	cmd := &cobra.Command{
		Use:   "resolve [dir]",
		Short: "Compute the pinned runtime dependencies for a project",
		Long: `Resolve the pinned runtime dependencies of a Python project from its lock file.

The lock file is auto-detected in the project directory (pylock.toml > uv.lock >
requirements.txt) unless --lock-file is given. Output is one requirement per
line, sorted by normalized package name:

  requests==2.31.0
  urllib3==2.1.0; python_version >= "3.8"

Examples:
  pindeps resolve                          # current directory, auto-detect
  pindeps resolve ./backend                # another project directory
  pindeps resolve --extra cli --extra dev  # include optional dependency groups
  pindeps resolve --lock-file locks/requirements-prod.txt`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := "."
			if len(args) == 1 {
				root = args[0]
			}
			return runResolve(cmd.Context(), root, &opts)
		},
	}

	cmd.Flags().StringVar(&opts.lockFile, "lock-file", "", "lock file path (relative to the project directory)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "lock format: pylock, uv, requirements (inferred if empty)")
	cmd.Flags().StringVarP(&opts.name, "name", "n", "", "project name (overrides pyproject.toml auto-detection)")
	cmd.Flags().StringArrayVar(&opts.extras, "extra", nil, "extra to include (repeatable)")
	cmd.Flags().StringArrayVar(&opts.exclude, "exclude", nil, "package name to exclude (repeatable)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "emit a JSON array of requirement strings")

	return cmd
}

// runResolve executes the resolution pipeline and writes the requirement
// list to opts.output (or stdout).
func runResolve(ctx context.Context, root string, opts *resolveOpts) error {
	logger := loggerFromContext(ctx)

	lockOpts, err := opts.lockfileOptions(ctx)
	if err != nil {
		return err
	}

	p, err := lockfile.Open(root, lockOpts)
	if err != nil {
		return err
	}
	logger.Infof("Resolving %s (%s format)", p.Path, p.Format)

	prog := newProgress(logger)
	reqs, err := p.Requirements()
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Resolved %d pinned requirements", len(reqs)))

	out, err := openOutput(opts.output)
	if err != nil {
		return err
	}
	defer out.Close()

	if opts.asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(reqs); err != nil {
			return err
		}
	} else if len(reqs) > 0 {
		if _, err := io.WriteString(out, strings.Join(reqs, "\n")+"\n"); err != nil {
			return err
		}
	}

	if opts.output != "" {
		printSuccess("Resolved %d pinned requirements", len(reqs))
		printFile(opts.output)
	}
	return nil
}

// nopCloser wraps an io.Writer with a no-op Close method.
// It is used to make os.Stdout compatible with io.WriteCloser.
type nopCloser struct{ io.Writer }

// Close implements io.Closer with a no-op.
func (nopCloser) Close() error { return nil }

// openOutput returns a WriteCloser for the given path.
// If path is empty, it returns os.Stdout wrapped in nopCloser.
// Otherwise, it creates the file at path, overwriting if it exists.
func openOutput(path string) (io.WriteCloser, error) {
	if path == "" {
		return nopCloser{os.Stdout}, nil
	}
	return os.Create(path)
}
