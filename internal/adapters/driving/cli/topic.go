package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var topicJSON bool

var topicCmd = &cobra.Command{
	Use:   "topic [url]",
	Short: "Detect the primary topic of a page",
	Long: `Scrapes a page and detects its primary topic: the entity the page is
mostly about, its type, and how confident the detection is. An LLM is used
when configured, with a local heuristic as fallback.`,
	Args: cobra.ExactArgs(1),
	RunE: runTopic,
}

func init() {
	topicCmd.Flags().BoolVar(&topicJSON, "json", false, "output the topic as JSON")
	rootCmd.AddCommand(topicCmd)
}

func runTopic(cmd *cobra.Command, args []string) error {
	if topicService == nil {
		return errors.New("topic service not configured")
	}

	t, err := topicService.DetectTopic(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("topic detection failed: %w", err)
	}

	if topicJSON {
		return writeJSON(cmd.OutOrStdout(), t)
	}
	newRenderer(cmd.OutOrStdout()).topic(args[0], t)
	return nil
}
