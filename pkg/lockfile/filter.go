package lockfile

import (
	"slices"
	"strings"

	"github.com/matzehuels/pindeps/pkg/errors"
)

// Finalize turns the resolved closure into the final requirement list.
//
// Entries whose normalized name appears in the exclusion list are removed,
// identical entries collapse to one, and the survivors are checked for
// version conflicts: two entries sharing a normalized name but pinned at
// different versions fail with VERSION_CONFLICT, except for the legitimate
// fork case where every entry carries its own distinct environment marker
// (uv splits a package across Python versions that way). The result is
// sorted by normalized name for deterministic output and rendered as
// canonical pinned requirement strings.
func Finalize(entries []PackageEntry, exclude []string) ([]string, error) {
	excluded := make(map[string]bool, len(exclude))
	for _, name := range exclude {
		if name != "" {
			excluded[NormalizeName(name)] = true
		}
	}

	type identity struct {
		name, version, markers string
	}
	seen := make(map[identity]bool)
	kept := make([]PackageEntry, 0, len(entries))
	for _, e := range entries {
		name := NormalizeName(e.Name)
		if excluded[name] {
			continue
		}
		id := identity{name, e.Version, e.Markers}
		if seen[id] {
			continue
		}
		seen[id] = true
		kept = append(kept, e)
	}

	byName := make(map[string][]PackageEntry)
	for _, e := range kept {
		name := NormalizeName(e.Name)
		byName[name] = append(byName[name], e)
	}
	for name, group := range byName {
		if err := checkConflict(name, group); err != nil {
			return nil, err
		}
	}

	slices.SortFunc(kept, func(a, b PackageEntry) int {
		if c := strings.Compare(NormalizeName(a.Name), NormalizeName(b.Name)); c != 0 {
			return c
		}
		if c := strings.Compare(a.Version, b.Version); c != 0 {
			return c
		}
		return strings.Compare(a.Markers, b.Markers)
	})

	out := make([]string, len(kept))
	for i, e := range kept {
		out[i] = e.Requirement()
	}
	return out, nil
}

// checkConflict validates one normalized-name group. Multiple versions of
// one package are only acceptable when every entry is scoped by its own
// distinct marker; anything else means the lock file (or the combination
// of formats feeding it) pinned the package ambiguously.
func checkConflict(name string, group []PackageEntry) error {
	versions := make(map[string]bool)
	for _, e := range group {
		versions[e.Version] = true
	}
	if len(versions) <= 1 {
		return nil
	}

	markers := make(map[string]bool)
	forked := true
	for _, e := range group {
		if e.Markers == "" || markers[e.Markers] {
			forked = false
			break
		}
		markers[e.Markers] = true
	}
	if forked {
		return nil
	}

	sorted := make([]string, 0, len(versions))
	for v := range versions {
		sorted = append(sorted, v)
	}
	slices.Sort(sorted)
	return errors.New(errors.ErrCodeVersionConflict,
		"package %q selected at conflicting versions %s and %s", name, sorted[0], sorted[1])
}
