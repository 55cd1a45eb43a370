package cli

import (
	"context"
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/pindeps/pkg/lockfile"
)

// newDetectCmd creates the detect command, which reports which lock file a
// project uses without resolving it.
func newDetectCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "detect [dir]",
		Short: "Report which lock file and format a project uses",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := "."
			if len(args) == 1 {
				root = args[0]
			}
			return runDetect(cmd.Context(), root, asJSON)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "emit detection result as JSON")

	return cmd
}

func runDetect(ctx context.Context, root string, asJSON bool) error {
	logger := loggerFromContext(ctx)
	logger.Debugf("Probing %s for lock files", root)

	format, path, err := lockfile.Detect(root)
	if err != nil {
		return err
	}

	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			Format string `json:"format"`
			Path   string `json:"path"`
		}{string(format), path})
	}

	printKeyValue("format", string(format))
	printKeyValue("lock file", path)
	return nil
}
