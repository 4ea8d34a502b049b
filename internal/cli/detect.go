package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/himanshumishra9911/ai-text-humanizer-api/internal/fetch"
	"github.com/himanshumishra9911/ai-text-humanizer-api/internal/model"
	"github.com/himanshumishra9911/ai-text-humanizer-api/internal/validate"
	"github.com/spf13/cobra"
)

var (
	detectTrusted  bool
	detectURL      string
	detectTruncate bool
	detectJSON     bool
	fetchTimeout   time.Duration
	userAgent      string
	noRobots       bool
)

// detectCmd represents the detect command
var detectCmd = &cobra.Command{
	Use:   "detect [text...]",
	Short: "Score text sentence by sentence for AI authorship",
	Long: `Detect splits the text into sentences, asks the LLM to classify each one
and aggregates the scores into an overall verdict.

Text is read from the arguments, from stdin, or from a web page (--url).
Scores are heuristic estimates, not proof of authorship.

Example:
  humanizer detect "This is a sentence. Here is another one."
  humanizer detect --url https://example.com/post --truncate
  cat essay.txt | humanizer detect --json`,
	RunE: runDetect,
}

func init() {
	rootCmd.AddCommand(detectCmd)

	detectCmd.Flags().BoolVar(&detectTrusted, "trusted", false, "mark the text as human-written (skips classification)")
	detectCmd.Flags().StringVar(&detectURL, "url", "", "fetch the text from a web page")
	detectCmd.Flags().BoolVar(&detectTruncate, "truncate", false, "cut the text to the word limit instead of failing")
	detectCmd.Flags().BoolVar(&detectJSON, "json", false, "print the full result as JSON")
	detectCmd.Flags().DurationVar(&fetchTimeout, "fetch-timeout", 15*time.Second, "timeout for --url fetches")
	detectCmd.Flags().StringVar(&userAgent, "ua", "", "HTTP User-Agent for --url fetches")
	detectCmd.Flags().BoolVar(&noRobots, "no-robots", false, "ignore robots.txt for --url fetches")
}

func runDetect(cmd *cobra.Command, args []string) error {
	a, err := newApp(nil)
	if err != nil {
		return err
	}
	defer a.close()

	var text string
	if detectURL != "" {
		opts := fetch.DefaultOptions()
		opts.Timeout = fetchTimeout
		opts.RespectRobots = !noRobots
		opts.HTTPProxy = a.cfg.LLM.HTTPProxy
		opts.HTTPSProxy = a.cfg.LLM.HTTPSProxy
		opts.NoProxy = a.cfg.LLM.NoProxy
		if userAgent != "" {
			opts.UserAgent = userAgent
		}

		fmt.Fprintf(cmd.ErrOrStderr(), "Fetching %s...\n", detectURL)
		page, err := fetch.New(opts).Fetch(cmd.Context(), detectURL)
		if err != nil {
			return fmt.Errorf("fetch: %w", err)
		}
		text = page.Text
	} else {
		text, err = readInput(args, cmd.InOrStdin())
		if err != nil {
			return err
		}
	}

	if detectTruncate {
		text = validate.TruncateWords(text, a.detector.MaxWords())
	}

	result, err := a.detector.Detect(cmd.Context(), model.DetectRequest{
		Text:         text,
		TrustedHuman: detectTrusted,
	})
	if err != nil {
		return err
	}

	if detectJSON {
		return writeJSON(cmd.OutOrStdout(), result)
	}
	printDetectResult(cmd.OutOrStdout(), result)
	return nil
}

func printDetectResult(w io.Writer, r *model.DetectResult) {
	fmt.Fprintf(w, "%s (AI %d%% / Human %d%%)\n",
		r.Overall.Verdict, r.Overall.AIProbability, r.Overall.HumanProbability)
	fmt.Fprintf(w, "Words used: %d, left: %d\n\n", r.WordsUsed, r.WordsLeft)

	for i, s := range r.Sentences {
		fmt.Fprintf(w, "%3d. [%-6s] AI %3d%%  %s\n", i+1, s.Highlight, s.AI, s.Sentence)
		if s.Reason != "" {
			fmt.Fprintf(w, "     %s\n", s.Reason)
		}
	}
}
