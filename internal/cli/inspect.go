package cli

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/pindeps/pkg/lockfile"
)

// inspectOpts holds the command-line flags for the inspect command.
type inspectOpts struct {
	lockFile string
	format   string
	name     string
}

// newInspectCmd creates the inspect command: an interactive browser over
// every entry in the lock file, including dev and extra entries that the
// resolve command would filter out.
func newInspectCmd() *cobra.Command {
	var opts inspectOpts

	cmd := &cobra.Command{
		Use:   "inspect [dir]",
		Short: "Browse a lock file's packages interactively",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := "."
			if len(args) == 1 {
				root = args[0]
			}
			return runInspect(cmd.Context(), root, &opts)
		},
	}

	cmd.Flags().StringVar(&opts.lockFile, "lock-file", "", "lock file path (relative to the project directory)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "lock format: pylock, uv, requirements (inferred if empty)")
	cmd.Flags().StringVarP(&opts.name, "name", "n", "", "project name (overrides pyproject.toml auto-detection)")

	return cmd
}

func runInspect(ctx context.Context, root string, opts *inspectOpts) error {
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
	doc, err := p.Document()
	if err != nil {
		return err
	}
	if len(doc.Entries) == 0 {
		printWarning("lock file %s contains no packages", p.Path)
		return nil
	}

	entries := slices.Clone(doc.Entries)
	slices.SortFunc(entries, func(a, b lockfile.PackageEntry) int {
		return cmp.Or(
			cmp.Compare(lockfile.NormalizeName(a.Name), lockfile.NormalizeName(b.Name)),
			cmp.Compare(a.Version, b.Version),
		)
	})

	title := fmt.Sprintf("%s (%s)", p.Path, p.Format)
	model := NewPackageListModel(title, entries)
	_, err = tea.NewProgram(model).Run()
	return err
}
