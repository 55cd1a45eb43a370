package lockfile

// Closure computes the set of entries that belong in the runtime
// requirement list, given the extras the caller asked to include.
//
// Flat documents (pylock.toml, requirements.txt) have no edges: every
// entry is implicitly reachable, and only the extra annotation matters -
// entries tagged with an extra group survive only when that group was
// requested. Graph documents are walked from the root: the untagged root
// edges seed the main walk, each requested extra seeds its own walk, and
// dev-tagged edges are never followed, so a package reachable only through
// the dev partition is excluded even when structurally connected.
//
// Requested extras with no matching top-level group contribute nothing and
// are silently ignored. Each entry appears at most once regardless of how
// many paths reach it; an entry first reached through an extra walk gets
// that extra's marker composed onto its own.
func Closure(doc *Document, extras []string) []PackageEntry {
	if doc.Graph == nil {
		return flatClosure(doc, extras)
	}
	return graphClosure(doc, extras)
}

func flatClosure(doc *Document, extras []string) []PackageEntry {
	requested := make(map[string]bool, len(extras))
	for _, e := range extras {
		requested[e] = true
	}

	var out []PackageEntry
	for _, e := range doc.Entries {
		if e.ExtraGroup != "" && !requested[e.ExtraGroup] {
			continue
		}
		out = append(out, e)
	}
	return out
}

func graphClosure(doc *Document, extras []string) []PackageEntry {
	g := doc.Graph

	var mainSeeds []string
	extraSeeds := make(map[string][]string)
	for _, e := range g.Edges() {
		if e.From != Root {
			continue
		}
		if dev, _ := e.Meta["dev"].(bool); dev {
			continue
		}
		if extra, ok := e.Meta["extra"].(string); ok {
			extraSeeds[extra] = append(extraSeeds[extra], e.To)
			continue
		}
		mainSeeds = append(mainSeeds, e.To)
	}

	claimed := g.Reachable(mainSeeds)

	var out []PackageEntry
	for _, e := range doc.Entries {
		if claimed[NormalizeName(e.Name)] {
			out = append(out, e)
		}
	}

	for _, extra := range extras {
		seeds, ok := extraSeeds[extra]
		if !ok {
			continue // unknown extra, no edges to contribute
		}
		reached := g.Reachable(seeds)
		for _, e := range doc.Entries {
			name := NormalizeName(e.Name)
			if !reached[name] || claimed[name] {
				continue
			}
			annotated := e
			annotated.ExtraGroup = extra
			annotated.Markers = composeExtraMarker(extra, e.Markers)
			out = append(out, annotated)
		}
		for name := range reached {
			claimed[name] = true
		}
	}

	return out
}

// composeExtraMarker builds the marker for an entry pulled in by an extra:
// `extra == "x"` alone, or combined with the entry's own resolution marker
// as `extra == "x" and <marker>`.
func composeExtraMarker(extra, marker string) string {
	if marker == "" {
		return `extra == "` + extra + `"`
	}
	return `extra == "` + extra + `" and ` + marker
}
