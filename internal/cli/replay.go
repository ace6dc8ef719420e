package cli

import (
	"fmt"

	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"

	"github.com/DhavalSuthar-24/crease/internal/scoring"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ReplayOutput is the json form of a replayed scorebook.
type ReplayOutput struct {
	State  scoring.DerivedState  `json:"state"`
	Export scoring.ExportedMatch `json:"export"`
}

// NewReplayCommand creates the replay command.
func NewReplayCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "replay <scorebook.yaml>",
		Short: "Replay a scorebook through the match engine",
		Long: `Replay a YAML scorebook ball by ball and print the resulting scorecard.

The scorebook is rejected at the first event the engine refuses, with the
innings and event number in the error.

Examples:
  crease replay final.yaml
  crease replay final.yaml --format json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sb, err := LoadScorebook(args[0])
			if err != nil {
				return err
			}
			m, err := sb.Replay()
			if err != nil {
				return fmt.Errorf("replay %s: %w", args[0], err)
			}

			out := cmd.OutOrStdout()
			if rootOpts.Format == "json" {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(ReplayOutput{State: m.CurrentState(), Export: m.Export()})
			}
			return scoring.RenderScorecard(out, m.Export())
		},
	}
}
