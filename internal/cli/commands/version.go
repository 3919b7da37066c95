package commands

import (
	"runtime"

	"github.com/spf13/cobra"
)

// VersionInfo is the structured form of the version command's output.
type VersionInfo struct {
	Version   string `json:"version" yaml:"version"`
	Commit    string `json:"commit" yaml:"commit"`
	BuildDate string `json:"build_date" yaml:"build_date"`
	GoVersion string `json:"go_version" yaml:"go_version"`
}

// NewVersionCommand creates the version command.
func NewVersionCommand(version, commit, buildDate string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  `Display sqlpath version and build information.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r := NewCommandContext(cmd).Renderer
			info := VersionInfo{
				Version:   version,
				Commit:    orDash(commit),
				BuildDate: orDash(buildDate),
				GoVersion: runtime.Version(),
			}
			if handled, err := r.Structured(info); handled {
				return err
			}
			r.Printf("sqlpath v%s\n", info.Version)
			r.Printf("commit %s, built %s, %s\n", info.Commit, info.BuildDate, info.GoVersion)
			return nil
		},
	}
}
