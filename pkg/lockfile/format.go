package lockfile

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/matzehuels/pindeps/pkg/errors"
)

// Format identifies one of the supported lock file formats.
type Format string

const (
	// FormatPylock is PEP 751 pylock.toml, the standard declarative format.
	FormatPylock Format = "pylock"
	// FormatUv is uv.lock, a full dependency graph with dev/extra partitions.
	FormatUv Format = "uv"
	// FormatRequirements is pip-compile style pinned requirements.txt.
	FormatRequirements Format = "requirements"
)

// Filenames maps each format to its canonical lock file name, in detection
// priority order: pylock.toml is preferred, then uv.lock, then
// requirements.txt.
var Filenames = []struct {
	Format Format
	Name   string
}{
	{FormatPylock, "pylock.toml"},
	{FormatUv, "uv.lock"},
	{FormatRequirements, "requirements.txt"},
}

// ParseFormat validates a format name given by the user.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatPylock, FormatUv, FormatRequirements:
		return Format(s), nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat,
		"unknown lock format %q (expected pylock, uv, or requirements)", s)
}

// InferFormat determines the format from a lock file's name.
// Files named requirements*.txt are treated as the flat format, matching
// the pip convention of requirements-dev.txt style variants.
func InferFormat(path string) (Format, error) {
	name := filepath.Base(path)
	switch {
	case name == "pylock.toml":
		return FormatPylock, nil
	case name == "uv.lock":
		return FormatUv, nil
	case name == "requirements.txt",
		strings.HasPrefix(name, "requirements") && strings.HasSuffix(name, ".txt"):
		return FormatRequirements, nil
	}
	return "", errors.New(errors.ErrCodeAmbiguousFormat,
		"cannot infer lock format from %q; set an explicit format", name)
}

// Detect locates the lock file in root, preferring pylock.toml > uv.lock >
// requirements.txt. Returns the format and the file's full path, or a
// NOT_FOUND error when none of the canonical filenames exist.
func Detect(root string) (Format, string, error) {
	for _, f := range Filenames {
		path := filepath.Join(root, f.Name)
		if _, err := os.Stat(path); err == nil {
			return f.Format, path, nil
		}
	}
	names := make([]string, len(Filenames))
	for i, f := range Filenames {
		names[i] = f.Name
	}
	return "", "", errors.New(errors.ErrCodeNotFound,
		"no lock file found in %s (expected one of: %s)", root, strings.Join(names, ", "))
}
