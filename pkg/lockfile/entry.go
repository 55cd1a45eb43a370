package lockfile

import (
	"strings"

	"github.com/matzehuels/pindeps/pkg/dag"
)

// Root is the synthetic graph node representing the project itself.
// Edges leaving it are the project's declared top-level dependencies.
const Root = "__project__"

// PackageEntry is one locked package drawn from a lock file.
type PackageEntry struct {
	Name       string // package name as written in the lock file
	Version    string // exact locked version
	Markers    string // environment marker, verbatim; empty means always applicable
	ExtraGroup string // project extra that introduced the entry, if any
	Dev        bool   // entry is declared only in a development partition
}

// Requirement renders the entry as a canonical pinned requirement string:
// "name==version" or "name==version; marker".
func (e PackageEntry) Requirement() string {
	req := e.Name + "==" + e.Version
	if e.Markers != "" {
		req += "; " + e.Markers
	}
	return req
}

// Document is the normalized intermediate representation shared by all
// three parsers: the package entries plus, for graph-shaped formats, the
// dependency graph rooted at [Root].
//
// A Document is built fresh per invocation and holds no state beyond the
// parsed input.
type Document struct {
	Format  Format
	Entries []PackageEntry

	// Graph is the dependency graph for graph-shaped formats (uv.lock),
	// with node IDs being normalized package names and root edges tagged
	// "extra" or "dev". Nil for flat formats.
	Graph *dag.Graph
}

// NormalizeName converts a package name to its canonical form.
// Applies lowercase and collapses the separators underscore and dot to
// hyphens, following PEP 503 normalization rules used by PyPI. Every
// comparison in this package (exclusion matching, conflict detection,
// sorting, graph identity) goes through this one function.
func NormalizeName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	name = strings.ReplaceAll(name, "_", "-")
	return strings.ReplaceAll(name, ".", "-")
}

// VisualGraph returns the document's dependency graph for rendering.
// Graph-shaped documents return their parsed graph; flat documents get a
// shallow star with every entry hanging off the project root.
func (d *Document) VisualGraph() *dag.Graph {
	if d.Graph != nil {
		return d.Graph
	}

	g := dag.New()
	_ = g.AddNode(dag.Node{ID: Root, Meta: dag.Metadata{"virtual": true}})
	for _, e := range d.Entries {
		name := NormalizeName(e.Name)
		meta := dag.Metadata{"version": e.Version}
		if e.Markers != "" {
			meta["marker"] = e.Markers
		}
		if err := g.AddNode(dag.Node{ID: name, Meta: meta}); err != nil {
			continue // forked duplicate, keep the first
		}
		edge := dag.Edge{From: Root, To: name}
		if e.ExtraGroup != "" {
			edge.Meta = dag.Metadata{"extra": e.ExtraGroup}
		}
		_ = g.AddEdge(edge)
	}
	return g
}
