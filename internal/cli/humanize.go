package cli

import (
	"fmt"

	"github.com/himanshumishra9911/ai-text-humanizer-api/internal/humanize"
	"github.com/himanshumishra9911/ai-text-humanizer-api/internal/model"
	"github.com/spf13/cobra"
)

var (
	humanizeSeed uint64
	humanizeJSON bool
)

// humanizeCmd represents the humanize command
var humanizeCmd = &cobra.Command{
	Use:   "humanize [text...]",
	Short: "Rewrite text so it reads as casually human-written",
	Long: `Humanize sends the text to the LLM for a casual rewrite, then perturbs
the result with filler phrases, a dropped comma and an occasional closer.

Text is read from the arguments, or from stdin when none are given.

Example:
  humanizer humanize "The results demonstrate a significant improvement."
  cat essay.txt | humanizer humanize --json
  humanizer humanize --seed 42 < essay.txt`,
	RunE: runHumanize,
}

func init() {
	rootCmd.AddCommand(humanizeCmd)

	humanizeCmd.Flags().Uint64Var(&humanizeSeed, "seed", 0, "seed the perturbation step for reproducible output")
	humanizeCmd.Flags().BoolVar(&humanizeJSON, "json", false, "print the full result as JSON")
}

func runHumanize(cmd *cobra.Command, args []string) error {
	text, err := readInput(args, cmd.InOrStdin())
	if err != nil {
		return err
	}

	var noise *humanize.Noise
	if cmd.Flags().Changed("seed") {
		noise = humanize.NewSeededNoise(humanizeSeed)
	}

	a, err := newApp(noise)
	if err != nil {
		return err
	}
	defer a.close()

	result, err := a.humanizer.Humanize(cmd.Context(), model.HumanizeRequest{Text: text})
	if err != nil {
		return err
	}

	if humanizeJSON {
		return writeJSON(cmd.OutOrStdout(), result)
	}

	fmt.Fprintln(cmd.OutOrStdout(), result.HumanizedText)
	fmt.Fprintf(cmd.ErrOrStderr(), "\nWords used: %d, left: %d\n", result.WordsUsed, result.WordsLeft)
	return nil
}
