package lockfile

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/pindeps/pkg/errors"
)

// Config is the `[tool.pindeps]` table of a project's pyproject.toml.
// Command-line flags take precedence over every field.
type Config struct {
	LockFile      string   `toml:"lock-file"`      // explicit lock file path, relative to the project root
	Format        string   `toml:"format"`         // explicit format name (pylock, uv, requirements)
	Exclude       []string `toml:"exclude"`        // package names to drop from the output
	IncludeExtras []string `toml:"include-extras"` // extras whose dependencies should be included
}

type pyproject struct {
	Project struct {
		Name string `toml:"name"`
	} `toml:"project"`
	Tool struct {
		Poetry struct {
			Name string `toml:"name"`
		} `toml:"poetry"`
		Pindeps Config `toml:"pindeps"`
	} `toml:"tool"`
}

// LoadConfig reads pyproject.toml from the project root and returns the
// pindeps configuration plus the project's declared name ([project].name,
// falling back to [tool.poetry].name for older layouts). A missing
// pyproject.toml is not an error - everything can be supplied via flags -
// but one that fails to decode is, since silently ignoring configuration
// would change what ends up in the wheel.
func LoadConfig(root string) (Config, string, error) {
	data, err := os.ReadFile(filepath.Join(root, "pyproject.toml"))
	if os.IsNotExist(err) {
		return Config{}, "", nil
	}
	if err != nil {
		return Config{}, "", errors.Wrap(errors.ErrCodeInvalidInput, err, "read pyproject.toml")
	}

	var py pyproject
	if err := toml.Unmarshal(data, &py); err != nil {
		return Config{}, "", errors.Wrap(errors.ErrCodeInvalidInput, err, "decode pyproject.toml")
	}

	name := py.Project.Name
	if name == "" {
		name = py.Tool.Poetry.Name
	}
	return py.Tool.Pindeps, name, nil
}
