package lockfile

import (
	"os"
	"path/filepath"
	"slices"

	"github.com/matzehuels/pindeps/pkg/errors"
)

// Options configures lock file resolution. The zero value auto-detects
// everything from the project directory.
type Options struct {
	LockFile      string               // explicit lock file path (absolute, or relative to the project root)
	Format        Format               // explicit format, skipping filename inference
	ProjectName   string               // root package name, overriding pyproject.toml
	IncludeExtras []string             // extras whose dependencies should be included
	Exclude       []string             // package names to drop from the output
	Logger        func(string, ...any) // progress/debug callback (optional)
}

func (o Options) logf(format string, args ...any) {
	if o.Logger != nil {
		o.Logger(format, args...)
	}
}

// Project bundles a located lock file with the options merged from flags
// and pyproject.toml configuration.
type Project struct {
	Root    string  // project directory
	Path    string  // resolved lock file path
	Format  Format  // resolved lock format
	Options Options // flag options merged with [tool.pindeps]
}

// Open locates the lock file for the project at root and merges opts with
// the `[tool.pindeps]` table of its pyproject.toml (flags win). With an
// explicit path the format is taken from opts or inferred from the
// filename (AMBIGUOUS_FORMAT if that fails); otherwise the canonical
// filenames are probed in priority order (NOT_FOUND if none exist).
func Open(root string, opts Options) (*Project, error) {
	cfg, projectName, err := LoadConfig(root)
	if err != nil {
		return nil, err
	}

	if opts.LockFile == "" {
		opts.LockFile = cfg.LockFile
	}
	if opts.Format == "" && cfg.Format != "" {
		if opts.Format, err = ParseFormat(cfg.Format); err != nil {
			return nil, err
		}
	}
	if opts.ProjectName == "" {
		opts.ProjectName = projectName
	}
	opts.IncludeExtras = append(slices.Clone(cfg.IncludeExtras), opts.IncludeExtras...)
	opts.Exclude = append(slices.Clone(cfg.Exclude), opts.Exclude...)

	p := &Project{Root: root, Options: opts}
	if opts.LockFile != "" {
		p.Path = opts.LockFile
		if !filepath.IsAbs(p.Path) {
			p.Path = filepath.Join(root, p.Path)
		}
		p.Format = opts.Format
		if p.Format == "" {
			if p.Format, err = InferFormat(p.Path); err != nil {
				return nil, err
			}
		}
	} else {
		if p.Format, p.Path, err = Detect(root); err != nil {
			return nil, err
		}
	}

	opts.logf("using %s (%s format)", p.Path, p.Format)
	return p, nil
}

// Document reads and parses the project's lock file.
func (p *Project) Document() (*Document, error) {
	data, err := os.ReadFile(p.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New(errors.ErrCodeNotFound, "lock file %s does not exist", p.Path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "read %s", p.Path)
	}
	return Parse(p.Format, data, p.Options.ProjectName)
}

// Requirements runs the full pipeline: parse, closure, filter, render.
// The project's own name is always excluded alongside the configured
// exclusion list, so a workspace member never depends on itself.
func (p *Project) Requirements() ([]string, error) {
	doc, err := p.Document()
	if err != nil {
		return nil, err
	}

	entries := Closure(doc, p.Options.IncludeExtras)
	p.Options.logf("closure selected %d of %d entries", len(entries), len(doc.Entries))

	exclude := slices.Clone(p.Options.Exclude)
	if p.Options.ProjectName != "" {
		exclude = append(exclude, p.Options.ProjectName)
	}
	return Finalize(entries, exclude)
}

// Parse dispatches raw lock file content to the parser for the given
// format. projectName is only consulted by the uv.lock parser, which needs
// it to pick the root package out of a workspace.
func Parse(format Format, data []byte, projectName string) (*Document, error) {
	switch format {
	case FormatPylock:
		return ParsePylock(data)
	case FormatUv:
		return ParseUvLock(data, projectName)
	case FormatRequirements:
		return ParseRequirements(data)
	}
	return nil, errors.New(errors.ErrCodeInvalidFormat, "unknown lock format %q", format)
}

// Resolve is the one-call pipeline: locate the lock file for the project
// at root and return its pinned requirement list.
func Resolve(root string, opts Options) ([]string, error) {
	p, err := Open(root, opts)
	if err != nil {
		return nil, err
	}
	return p.Requirements()
}
