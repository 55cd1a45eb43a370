package lockfile

import (
	"github.com/BurntSushi/toml"

	"github.com/matzehuels/pindeps/pkg/dag"
	"github.com/matzehuels/pindeps/pkg/errors"
)

type uvLockFile struct {
	Version  int         `toml:"version"`
	Packages []uvPackage `toml:"package"`
}

type uvPackage struct {
	Name                 string                    `toml:"name"`
	Version              string                    `toml:"version"`
	Source               uvSource                  `toml:"source"`
	ResolutionMarker     string                    `toml:"resolution-marker"`
	Dependencies         []uvDependency            `toml:"dependencies"`
	OptionalDependencies map[string][]uvDependency `toml:"optional-dependencies"`
	DevDependencies      map[string][]uvDependency `toml:"dev-dependencies"`
}

type uvSource struct {
	Registry  string `toml:"registry"`
	Editable  string `toml:"editable"`
	Virtual   string `toml:"virtual"`
	Git       string `toml:"git"`
	Path      string `toml:"path"`
	Directory string `toml:"directory"`
	URL       string `toml:"url"`
}

type uvDependency struct {
	Name string `toml:"name"`
}

// ParseUvLock parses uv.lock content into a Document carrying the full
// dependency graph.
//
// projectName selects the root package: uv workspaces lock several editable
// members into one file, and only the requested member's closure matters.
// The root's plain dependencies become untagged edges from [Root], its
// optional-dependencies become extra-tagged edges and its dev-dependencies
// dev-tagged edges. Packages without a registry source (editable members,
// git or path dependencies) stay graph nodes but never produce entries.
//
// A dependency naming a package absent from the lock file is a dangling
// reference and fails with MALFORMED_LOCK. Cyclic dependencies are accepted
// here; termination is guaranteed by the visited-set walk in [Closure].
func ParseUvLock(data []byte, projectName string) (*Document, error) {
	if projectName == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput,
			"a project name is required to resolve uv.lock (set [project].name in pyproject.toml or pass --name)")
	}

	var lock uvLockFile
	if err := toml.Unmarshal(data, &lock); err != nil {
		return nil, errors.Wrap(errors.ErrCodeMalformedLock, err, "decode uv.lock")
	}

	g := dag.New()
	_ = g.AddNode(dag.Node{ID: Root, Meta: dag.Metadata{"virtual": true}})

	var root *uvPackage
	rootName := NormalizeName(projectName)
	for i := range lock.Packages {
		pkg := &lock.Packages[i]
		if pkg.Name == "" {
			return nil, errors.New(errors.ErrCodeMalformedLock,
				"uv.lock: package[%d] is missing a name", i)
		}
		if pkg.Version == "" {
			return nil, errors.New(errors.ErrCodeMalformedLock,
				"uv.lock: package %q is missing a version", pkg.Name)
		}

		name := NormalizeName(pkg.Name)
		if name == rootName {
			root = pkg
		}

		meta := dag.Metadata{"version": pkg.Version}
		if pkg.ResolutionMarker != "" {
			meta["marker"] = pkg.ResolutionMarker
		}
		// Forked packages (one name, several versions split by
		// resolution-marker) share a single graph node.
		_ = g.AddNode(dag.Node{ID: name, Meta: meta})
	}

	if root == nil {
		return nil, errors.New(errors.ErrCodeMalformedLock,
			"root package %q not found in uv.lock", projectName)
	}

	for i := range lock.Packages {
		pkg := &lock.Packages[i]
		from := NormalizeName(pkg.Name)
		for _, dep := range pkg.Dependencies {
			if err := g.AddEdge(dag.Edge{From: from, To: NormalizeName(dep.Name)}); err != nil {
				return nil, errors.New(errors.ErrCodeMalformedLock,
					"uv.lock: package %q depends on %q, which is not in the lock file", pkg.Name, dep.Name)
			}
		}
	}

	// Root edges mirror the root package's declared partitions.
	for _, dep := range root.Dependencies {
		if err := g.AddEdge(dag.Edge{From: Root, To: NormalizeName(dep.Name)}); err != nil {
			return nil, errors.New(errors.ErrCodeMalformedLock,
				"uv.lock: root dependency %q is not in the lock file", dep.Name)
		}
	}
	for extra, entries := range root.OptionalDependencies {
		for _, dep := range entries {
			e := dag.Edge{From: Root, To: NormalizeName(dep.Name), Meta: dag.Metadata{"extra": extra}}
			if err := g.AddEdge(e); err != nil {
				return nil, errors.New(errors.ErrCodeMalformedLock,
					"uv.lock: extra %q dependency %q is not in the lock file", extra, dep.Name)
			}
		}
	}
	devDirect := make(map[string]bool)
	for group, entries := range root.DevDependencies {
		for _, dep := range entries {
			name := NormalizeName(dep.Name)
			devDirect[name] = true
			e := dag.Edge{From: Root, To: name, Meta: dag.Metadata{"dev": true, "group": group}}
			if err := g.AddEdge(e); err != nil {
				return nil, errors.New(errors.ErrCodeMalformedLock,
					"uv.lock: dev group %q dependency %q is not in the lock file", group, dep.Name)
			}
		}
	}

	doc := &Document{Format: FormatUv, Graph: g}
	for i := range lock.Packages {
		pkg := &lock.Packages[i]
		if pkg.Source.Registry == "" {
			continue
		}
		doc.Entries = append(doc.Entries, PackageEntry{
			Name:    pkg.Name,
			Version: pkg.Version,
			Markers: pkg.ResolutionMarker,
			Dev:     devDirect[NormalizeName(pkg.Name)],
		})
	}

	return doc, nil
}
