package cli

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// checkResult is the JSON output form of one availability verdict.
type checkResult struct {
	SMILES     string `json:"smiles"`
	Available  bool   `json:"available"`
	Category   string `json:"category"`
	Color      string `json:"color"`
	Label      string `json:"label"`
	Expandable bool   `json:"expandable"`
	Details    string `json:"details,omitempty"`
}

func newCheckCommand() *cobra.Command {
	var (
		fromStdin     bool
		threshold     float64
		compoundsFile string
	)

	cmd := &cobra.Command{
		Use:   "check [SMILES...]",
		Short: "Check the availability of one or more compounds",
		Long: `Check reports, for each SMILES string, whether the compound is available,
its availability category, and whether a retrosynthesis engine should keep
expanding it.  With --stdin, compounds are read one per line from standard
input instead of the arguments.`,
		Args: func(cmd *cobra.Command, args []string) error {
			if !fromStdin && len(args) == 0 {
				return fmt.Errorf("requires at least one SMILES argument (or --stdin)")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cc := getContext(cmd)
			if cmd.Flags().Changed("threshold") {
				cc.cfg.Availability.PricingThreshold = threshold
			}
			if compoundsFile != "" {
				cc.cfg.Availability.AdditionalCompoundsFile = compoundsFile
			}
			checker, err := cc.buildChecker(cmd.Context())
			if err != nil {
				return err
			}

			smilesList := args
			if fromStdin {
				scanner := bufio.NewScanner(os.Stdin)
				for scanner.Scan() {
					if line := scanner.Text(); line != "" {
						smilesList = append(smilesList, line)
					}
				}
				if err := scanner.Err(); err != nil {
					return err
				}
			}

			ctx := cmd.Context()
			out := cmd.OutOrStdout()
			enc := json.NewEncoder(out)
			for _, smiles := range smilesList {
				result := checkResult{SMILES: smiles}
				if m, ok := checker.FirstMatch(ctx, smiles); ok {
					result.Available = true
					result.Details = m.Details
				}
				category := checker.Category(ctx, smiles)
				meta := checker.CategoryMetadata(ctx, smiles)
				result.Category = string(category)
				result.Color = meta.Color
				result.Label = meta.Label
				result.Expandable = checker.IsExpandable(ctx, smiles)

				switch cc.opts.Format {
				case "json":
					if err := enc.Encode(result); err != nil {
						return err
					}
				default:
					verdict := "not available"
					if result.Available {
						verdict = "available"
					}
					fmt.Fprintf(out, "%s\t%s (%s)\n", smiles, verdict, result.Category)
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&fromStdin, "stdin", false, "read SMILES strings from standard input, one per line")
	cmd.Flags().Float64Var(&threshold, "threshold", 0, "override the pricing threshold for catalog databases")
	cmd.Flags().StringVar(&compoundsFile, "compounds-file", "", "additional compounds file merged into the default list")

	return cmd
}
