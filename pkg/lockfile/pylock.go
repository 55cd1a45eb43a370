package lockfile

import (
	"regexp"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/pindeps/pkg/errors"
)

// extraMarkerRE matches `extra == "..."` (or single-quoted) inside an
// environment marker, identifying packages introduced by a project extra.
var extraMarkerRE = regexp.MustCompile(`extra\s*==\s*["']([^"']+)["']`)

type pylockFile struct {
	LockVersion string          `toml:"lock-version"`
	Packages    []pylockPackage `toml:"packages"`
}

type pylockPackage struct {
	Name    string `toml:"name"`
	Version string `toml:"version"`
	Marker  string `toml:"marker"`
}

// ParsePylock parses PEP 751 pylock.toml content into a flat Document.
//
// The format carries no graph shape: every listed package is already part
// of the flattened closure written by the locking tool. Packages whose
// marker names an extra are annotated with that extra group; whether they
// make the final closure is decided by [Closure], not here.
func ParsePylock(data []byte) (*Document, error) {
	var lock pylockFile
	if err := toml.Unmarshal(data, &lock); err != nil {
		return nil, errors.Wrap(errors.ErrCodeMalformedLock, err, "decode pylock.toml")
	}

	doc := &Document{Format: FormatPylock, Entries: make([]PackageEntry, 0, len(lock.Packages))}
	for i, pkg := range lock.Packages {
		if pkg.Name == "" {
			return nil, errors.New(errors.ErrCodeMalformedLock,
				"pylock.toml: packages[%d] is missing a name", i)
		}
		if pkg.Version == "" {
			return nil, errors.New(errors.ErrCodeMalformedLock,
				"pylock.toml: packages[%d] (%s) is missing a version", i, pkg.Name)
		}

		entry := PackageEntry{
			Name:    pkg.Name,
			Version: pkg.Version,
			Markers: pkg.Marker,
		}
		if m := extraMarkerRE.FindStringSubmatch(pkg.Marker); m != nil {
			entry.ExtraGroup = m[1]
		}
		doc.Entries = append(doc.Entries, entry)
	}

	return doc, nil
}
