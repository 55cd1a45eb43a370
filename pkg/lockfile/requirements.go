package lockfile

import (
	"bufio"
	"bytes"
	"regexp"
	"strings"

	"github.com/matzehuels/pindeps/pkg/errors"
)

var (
	hashRE = regexp.MustCompile(`\s*--hash=\S+`)
	pinRE  = regexp.MustCompile(`^([a-zA-Z0-9_.-]+(?:\[[a-zA-Z0-9_,.-]+\])?==\S+?)(\s*;.*)?$`)
)

// ParseRequirements parses pip-compile style requirements.txt content into
// a flat Document.
//
// The format is line oriented: comments and blank lines are skipped, pip
// flag lines (-e, --index-url, and hash-only continuation lines) are
// ignored, and inline --hash=... tokens are stripped. Every remaining line
// must be an exact pin, optionally with an [extras] group and a trailing
// `; marker` suffix. Anything else - a range constraint, a bare name, a
// URL - fails with MALFORMED_LOCK naming the offending line, because a
// non-pinned requirement cannot guarantee reproducible installs.
func ParseRequirements(data []byte) (*Document, error) {
	doc := &Document{Format: FormatRequirements}

	scanner := bufio.NewScanner(bytes.NewReader(data))
	lineno := 0
	for scanner.Scan() {
		lineno++
		line := scanner.Text()

		// Drop comments and backslash continuations; the hash lines that
		// pip-compile wraps onto their own lines start with "-" and are
		// skipped like any other pip flag.
		if i := strings.Index(line, "#"); i >= 0 {
			line = line[:i]
		}
		if i := strings.Index(line, `\`); i >= 0 {
			line = line[:i]
		}
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "-") {
			continue
		}

		cleaned := strings.TrimSpace(hashRE.ReplaceAllString(line, ""))
		m := pinRE.FindStringSubmatch(cleaned)
		if m == nil {
			return nil, errors.New(errors.ErrCodeMalformedLock,
				"requirements.txt line %d: %q is not an exact pin (expected name==version)", lineno, cleaned)
		}

		nameVersion := m[1]
		markers := ""
		if m[2] != "" {
			markers = strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(m[2]), ";"))
		}

		name, version, _ := strings.Cut(nameVersion, "==")
		doc.Entries = append(doc.Entries, PackageEntry{
			Name:    name,
			Version: version,
			Markers: markers,
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeMalformedLock, err, "read requirements.txt")
	}

	return doc, nil
}
