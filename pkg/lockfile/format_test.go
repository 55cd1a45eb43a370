package lockfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/matzehuels/pindeps/pkg/errors"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input   string
		want    Format
		wantErr bool
	}{
		{"pylock", FormatPylock, false},
		{"uv", FormatUv, false},
		{"requirements", FormatRequirements, false},
		{"poetry", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseFormat(tt.input)
			if tt.wantErr {
				if !errors.Is(err, errors.ErrCodeInvalidFormat) {
					t.Errorf("ParseFormat(%q) = %v, want INVALID_FORMAT", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseFormat(%q) failed: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseFormat(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestInferFormat(t *testing.T) {
	tests := []struct {
		path    string
		want    Format
		wantErr bool
	}{
		{"pylock.toml", FormatPylock, false},
		{"uv.lock", FormatUv, false},
		{"requirements.txt", FormatRequirements, false},
		{"requirements-dev.txt", FormatRequirements, false},
		{"/some/project/uv.lock", FormatUv, false},
		{"poetry.lock", "", true},
		{"Pipfile.lock", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := InferFormat(tt.path)
			if tt.wantErr {
				if !errors.Is(err, errors.ErrCodeAmbiguousFormat) {
					t.Errorf("InferFormat(%q) = %v, want AMBIGUOUS_FORMAT", tt.path, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("InferFormat(%q) failed: %v", tt.path, err)
			}
			if got != tt.want {
				t.Errorf("InferFormat(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestDetect_PriorityOrder(t *testing.T) {
	tests := []struct {
		name  string
		files []string
		want  Format
	}{
		{"pylock wins", []string{"pylock.toml", "uv.lock", "requirements.txt"}, FormatPylock},
		{"uv before requirements", []string{"uv.lock", "requirements.txt"}, FormatUv},
		{"requirements as fallback", []string{"requirements.txt"}, FormatRequirements},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			for _, f := range tt.files {
				if err := os.WriteFile(filepath.Join(dir, f), nil, 0644); err != nil {
					t.Fatal(err)
				}
			}

			format, path, err := Detect(dir)
			if err != nil {
				t.Fatalf("Detect failed: %v", err)
			}
			if format != tt.want {
				t.Errorf("format = %v, want %v", format, tt.want)
			}
			if filepath.Dir(path) != dir {
				t.Errorf("path = %q, want a file in %q", path, dir)
			}
		})
	}
}

func TestDetect_NotFound(t *testing.T) {
	_, _, err := Detect(t.TempDir())
	if !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("Detect = %v, want NOT_FOUND", err)
	}
}
