package lockfile

import (
	"slices"
	"testing"

	"github.com/matzehuels/pindeps/pkg/errors"
)

// requirements parses a uv.lock document and runs it through the closure
// and filter with the given extras, returning rendered strings.
func requirements(t *testing.T, content, projectName string, extras []string) []string {
	t.Helper()
	doc, err := ParseUvLock([]byte(content), projectName)
	if err != nil {
		t.Fatalf("ParseUvLock failed: %v", err)
	}
	out, err := Finalize(Closure(doc, extras), []string{projectName})
	if err != nil {
		t.Fatalf("Finalize failed: %v", err)
	}
	return out
}

func TestParseUvLock(t *testing.T) {
	content := `version = 1

[[package]]
name = "myapp"
version = "1.0.0"
source = { editable = "." }
dependencies = [
    { name = "requests" },
    { name = "urllib3" },
]

[[package]]
name = "requests"
version = "2.31.0"
source = { registry = "https://pypi.org/simple" }

[[package]]
name = "urllib3"
version = "2.1.0"
source = { registry = "https://pypi.org/simple" }
`
	got := requirements(t, content, "myapp", nil)
	want := []string{"requests==2.31.0", "urllib3==2.1.0"}
	if !slices.Equal(got, want) {
		t.Errorf("requirements = %v, want %v", got, want)
	}
}

func TestParseUvLock_TransitiveDeps(t *testing.T) {
	content := `version = 1

[[package]]
name = "myapp"
version = "1.0.0"
source = { editable = "." }
dependencies = [
    { name = "flask" },
]

[[package]]
name = "flask"
version = "3.0.0"
source = { registry = "https://pypi.org/simple" }
dependencies = [
    { name = "werkzeug" },
    { name = "jinja2" },
]

[[package]]
name = "werkzeug"
version = "3.0.1"
source = { registry = "https://pypi.org/simple" }

[[package]]
name = "jinja2"
version = "3.1.3"
source = { registry = "https://pypi.org/simple" }
dependencies = [
    { name = "markupsafe" },
]

[[package]]
name = "markupsafe"
version = "2.1.4"
source = { registry = "https://pypi.org/simple" }
`
	got := requirements(t, content, "myapp", nil)
	want := []string{"flask==3.0.0", "jinja2==3.1.3", "markupsafe==2.1.4", "werkzeug==3.0.1"}
	if !slices.Equal(got, want) {
		t.Errorf("requirements = %v, want %v", got, want)
	}
}

func TestParseUvLock_DevDepsExcluded(t *testing.T) {
	content := `version = 1

[[package]]
name = "myapp"
version = "1.0.0"
source = { editable = "." }
dependencies = [
    { name = "flask" },
]

[package.dev-dependencies]
dev = [
    { name = "pytest" },
]

[[package]]
name = "flask"
version = "3.0.0"
source = { registry = "https://pypi.org/simple" }

[[package]]
name = "pytest"
version = "8.0.0"
source = { registry = "https://pypi.org/simple" }
`
	got := requirements(t, content, "myapp", nil)
	want := []string{"flask==3.0.0"}
	if !slices.Equal(got, want) {
		t.Errorf("requirements = %v, want %v", got, want)
	}
}

func TestParseUvLock_SharedTransitiveDepIncluded(t *testing.T) {
	// packaging is reachable from both flask (runtime) and pytest (dev):
	// the runtime path wins and packaging stays in.
	content := `version = 1

[[package]]
name = "myapp"
version = "1.0.0"
source = { editable = "." }
dependencies = [
    { name = "flask" },
]

[package.dev-dependencies]
dev = [
    { name = "pytest" },
]

[[package]]
name = "flask"
version = "3.0.0"
source = { registry = "https://pypi.org/simple" }
dependencies = [
    { name = "packaging" },
]

[[package]]
name = "pytest"
version = "8.0.0"
source = { registry = "https://pypi.org/simple" }
dependencies = [
    { name = "packaging" },
]

[[package]]
name = "packaging"
version = "24.0"
source = { registry = "https://pypi.org/simple" }
`
	got := requirements(t, content, "myapp", nil)
	want := []string{"flask==3.0.0", "packaging==24.0"}
	if !slices.Equal(got, want) {
		t.Errorf("requirements = %v, want %v", got, want)
	}
}

func TestParseUvLock_Extras(t *testing.T) {
	content := `version = 1

[[package]]
name = "myapp"
version = "1.0.0"
source = { editable = "." }
dependencies = [
    { name = "flask" },
]

[package.optional-dependencies]
postgres = [
    { name = "psycopg2" },
]
redis = [
    { name = "redis" },
]

[[package]]
name = "flask"
version = "3.0.0"
source = { registry = "https://pypi.org/simple" }

[[package]]
name = "psycopg2"
version = "2.9.9"
source = { registry = "https://pypi.org/simple" }

[[package]]
name = "redis"
version = "5.0.1"
source = { registry = "https://pypi.org/simple" }
`
	got := requirements(t, content, "myapp", []string{"postgres"})
	want := []string{"flask==3.0.0", `psycopg2==2.9.9; extra == "postgres"`}
	if !slices.Equal(got, want) {
		t.Errorf("requirements = %v, want %v", got, want)
	}
}

func TestParseUvLock_ExtraWithResolutionMarker(t *testing.T) {
	content := `version = 1

[[package]]
name = "myapp"
version = "1.0.0"
source = { editable = "." }

[package.optional-dependencies]
postgres = [
    { name = "psycopg2" },
]

[[package]]
name = "psycopg2"
version = "2.9.9"
source = { registry = "https://pypi.org/simple" }
resolution-marker = "sys_platform != 'win32'"
`
	got := requirements(t, content, "myapp", []string{"postgres"})
	want := []string{`psycopg2==2.9.9; extra == "postgres" and sys_platform != 'win32'`}
	if !slices.Equal(got, want) {
		t.Errorf("requirements = %v, want %v", got, want)
	}
}

func TestParseUvLock_ExtraTransitiveDepsGetMarker(t *testing.T) {
	content := `version = 1

[[package]]
name = "myapp"
version = "1.0.0"
source = { editable = "." }

[package.optional-dependencies]
postgres = [
    { name = "psycopg2" },
]

[[package]]
name = "psycopg2"
version = "2.9.9"
source = { registry = "https://pypi.org/simple" }
dependencies = [
    { name = "libpq" },
]

[[package]]
name = "libpq"
version = "1.0.0"
source = { registry = "https://pypi.org/simple" }
`
	got := requirements(t, content, "myapp", []string{"postgres"})
	want := []string{`libpq==1.0.0; extra == "postgres"`, `psycopg2==2.9.9; extra == "postgres"`}
	if !slices.Equal(got, want) {
		t.Errorf("requirements = %v, want %v", got, want)
	}
}

func TestParseUvLock_ExtraSharedDepNotDuplicated(t *testing.T) {
	// click is reachable via the main walk, so the extra claims nothing
	// and click stays unmarked.
	content := `version = 1

[[package]]
name = "myapp"
version = "1.0.0"
source = { editable = "." }
dependencies = [
    { name = "flask" },
]

[package.optional-dependencies]
postgres = [
    { name = "psycopg2" },
]

[[package]]
name = "flask"
version = "3.0.0"
source = { registry = "https://pypi.org/simple" }
dependencies = [
    { name = "click" },
]

[[package]]
name = "psycopg2"
version = "2.9.9"
source = { registry = "https://pypi.org/simple" }
dependencies = [
    { name = "click" },
]

[[package]]
name = "click"
version = "8.1.7"
source = { registry = "https://pypi.org/simple" }
`
	got := requirements(t, content, "myapp", []string{"postgres"})
	want := []string{"click==8.1.7", "flask==3.0.0", `psycopg2==2.9.9; extra == "postgres"`}
	if !slices.Equal(got, want) {
		t.Errorf("requirements = %v, want %v", got, want)
	}
}

func TestParseUvLock_UnknownExtraIgnored(t *testing.T) {
	content := `version = 1

[[package]]
name = "myapp"
version = "1.0.0"
source = { editable = "." }
dependencies = [
    { name = "flask" },
]

[[package]]
name = "flask"
version = "3.0.0"
source = { registry = "https://pypi.org/simple" }
`
	got := requirements(t, content, "myapp", []string{"nonexistent"})
	want := []string{"flask==3.0.0"}
	if !slices.Equal(got, want) {
		t.Errorf("requirements = %v, want %v", got, want)
	}
}

func TestParseUvLock_ForkedVersions(t *testing.T) {
	content := `version = 1

[[package]]
name = "myapp"
version = "1.0.0"
source = { editable = "." }
dependencies = [
    { name = "numpy" },
]

[[package]]
name = "numpy"
version = "1.26.4"
source = { registry = "https://pypi.org/simple" }
resolution-marker = "python_version < '3.12'"

[[package]]
name = "numpy"
version = "2.1.0"
source = { registry = "https://pypi.org/simple" }
resolution-marker = "python_version >= '3.12'"
`
	got := requirements(t, content, "myapp", nil)
	want := []string{
		`numpy==1.26.4; python_version < '3.12'`,
		`numpy==2.1.0; python_version >= '3.12'`,
	}
	if !slices.Equal(got, want) {
		t.Errorf("requirements = %v, want %v", got, want)
	}
}

func TestParseUvLock_NonRegistrySourcesSkipped(t *testing.T) {
	content := `version = 1

[[package]]
name = "myapp"
version = "1.0.0"
source = { editable = "." }
dependencies = [
    { name = "my-lib" },
    { name = "requests" },
]

[[package]]
name = "my-lib"
version = "0.1.0"
source = { git = "https://github.com/org/my-lib.git" }

[[package]]
name = "requests"
version = "2.31.0"
source = { registry = "https://pypi.org/simple" }
`
	got := requirements(t, content, "myapp", nil)
	want := []string{"requests==2.31.0"}
	if !slices.Equal(got, want) {
		t.Errorf("requirements = %v, want %v", got, want)
	}
}

func TestParseUvLock_WorkspaceRootSelection(t *testing.T) {
	content := `version = 1

[[package]]
name = "lib-a"
version = "0.1.0"
source = { editable = "packages/lib-a" }
dependencies = [
    { name = "six" },
]

[[package]]
name = "myapp"
version = "1.0.0"
source = { editable = "." }
dependencies = [
    { name = "flask" },
]

[[package]]
name = "flask"
version = "3.0.0"
source = { registry = "https://pypi.org/simple" }

[[package]]
name = "six"
version = "1.16.0"
source = { registry = "https://pypi.org/simple" }
`
	got := requirements(t, content, "myapp", nil)
	want := []string{"flask==3.0.0"}
	if !slices.Equal(got, want) {
		t.Errorf("requirements = %v, want %v", got, want)
	}
}

func TestParseUvLock_CyclicDependencies(t *testing.T) {
	// sphinx and sphinxcontrib packages depend on each other in real
	// lock files; the walk must terminate and include both once.
	content := `version = 1

[[package]]
name = "myapp"
version = "1.0.0"
source = { editable = "." }
dependencies = [
    { name = "a" },
]

[[package]]
name = "a"
version = "1.0.0"
source = { registry = "https://pypi.org/simple" }
dependencies = [
    { name = "b" },
]

[[package]]
name = "b"
version = "2.0.0"
source = { registry = "https://pypi.org/simple" }
dependencies = [
    { name = "a" },
]
`
	got := requirements(t, content, "myapp", nil)
	want := []string{"a==1.0.0", "b==2.0.0"}
	if !slices.Equal(got, want) {
		t.Errorf("requirements = %v, want %v", got, want)
	}
}

func TestParseUvLock_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		project string
		code    errors.Code
	}{
		{
			name: "root package missing",
			content: `[[package]]
name = "requests"
version = "2.31.0"
source = { registry = "https://pypi.org/simple" }
`,
			project: "myapp",
			code:    errors.ErrCodeMalformedLock,
		},
		{
			name: "dangling dependency",
			content: `[[package]]
name = "myapp"
version = "1.0.0"
source = { editable = "." }
dependencies = [
    { name = "ghost" },
]
`,
			project: "myapp",
			code:    errors.ErrCodeMalformedLock,
		},
		{
			name: "missing version",
			content: `[[package]]
name = "myapp"
source = { editable = "." }
`,
			project: "myapp",
			code:    errors.ErrCodeMalformedLock,
		},
		{
			name:    "empty project name",
			content: "version = 1\n",
			project: "",
			code:    errors.ErrCodeInvalidInput,
		},
		{
			name:    "invalid toml",
			content: "[[package\n",
			project: "myapp",
			code:    errors.ErrCodeMalformedLock,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseUvLock([]byte(tt.content), tt.project)
			if !errors.Is(err, tt.code) {
				t.Errorf("ParseUvLock = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestParseUvLock_NormalizedRootMatch(t *testing.T) {
	content := `version = 1

[[package]]
name = "my-app"
version = "1.0.0"
source = { editable = "." }
dependencies = [
    { name = "flask" },
]

[[package]]
name = "flask"
version = "3.0.0"
source = { registry = "https://pypi.org/simple" }
`
	got := requirements(t, content, "My_App", nil)
	want := []string{"flask==3.0.0"}
	if !slices.Equal(got, want) {
		t.Errorf("requirements = %v, want %v", got, want)
	}
}
