// Package lockfile extracts pinned runtime dependencies from Python lock
// files.
//
// # Overview
//
// A project's lock file records the exact transitive dependency versions
// that were resolved during development. This package turns that record
// into the list of pinned requirement strings a built wheel should declare,
// so that every environment installing the wheel receives identical
// versions.
//
// Three lock formats are supported:
//
//   - pylock.toml (PEP 751): a flat table of packages with optional
//     environment markers. Packages introduced by a project extra carry an
//     `extra == "..."` marker and are only included when that extra is
//     requested.
//   - uv.lock: a full dependency graph with per-package dependency lists,
//     per-extra top-level dependencies and a dev partition. Only packages
//     reachable from the project root through runtime edges are included.
//   - requirements.txt: pip-compile output, one exact pin per logical line
//     with optional markers; content hashes are discarded.
//
// # Pipeline
//
// [Detect] locates the lock file in a project root (pylock.toml preferred,
// then uv.lock, then requirements.txt). [Parse] dispatches to the format's
// parser, producing a [Document]. [Closure] selects the entries that belong
// in the runtime closure given the requested extras, and [Finalize] applies
// the exclusion list, detects version conflicts, sorts and renders the
// final requirement strings.
//
// [Resolve] runs the whole pipeline against a project directory, merging
// CLI options with the `[tool.pindeps]` table in pyproject.toml:
//
//	reqs, err := lockfile.Resolve(".", lockfile.Options{})
//	if err != nil {
//	    return err
//	}
//	for _, r := range reqs {
//	    fmt.Println(r) // e.g. "requests==2.31.0"
//	}
//
// # Determinism
//
// The engine performs no dependency resolution of its own - it trusts the
// lock file as ground truth. Output is always sorted by normalized package
// name, and every failure (missing lock file, malformed entry, version
// conflict) aborts the whole invocation rather than emitting a partial
// list. All errors carry the structured codes of the errors package.
package lockfile
