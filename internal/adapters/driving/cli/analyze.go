package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/topicgap/internal/core/domain"
)

var (
	analyzeCompetitors []string
	analyzeQueries     []string
	analyzeQueriesFile string
	analyzeThreshold   float64
	analyzeDiscover    bool
	analyzeJSON        bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [target-url]",
	Short: "Analyze topic coverage against competitors",
	Long: `Scrapes the target page and its competitors, scores how well each page
answers the search queries, and reports the categories where competitors
cover a topic better than the target.

Queries are generated from the target page unless given with -q or
--queries-file. Competitors come from -c, the queries file, or web search
when --discover is set.

Examples:
  topicgap analyze https://example.com/pricing -c https://rival.com/pricing
  topicgap analyze https://example.com/crm --discover
  topicgap analyze https://example.com/crm --queries-file queries.yaml --json`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringArrayVarP(&analyzeCompetitors, "competitor", "c", nil, "competitor URL (repeatable)")
	analyzeCmd.Flags().StringArrayVarP(&analyzeQueries, "query", "q", nil, "search query to score (repeatable)")
	analyzeCmd.Flags().StringVar(&analyzeQueriesFile, "queries-file", "", "YAML file with queries and competitors")
	analyzeCmd.Flags().Float64Var(&analyzeThreshold, "threshold", 0, "similarity at which a query counts as matched (default from settings)")
	analyzeCmd.Flags().BoolVar(&analyzeDiscover, "discover", false, "find competitors through web search")
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "output the result as JSON")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	svc, err := requireAnalysis()
	if err != nil {
		return err
	}
	if analyzeThreshold < 0 || analyzeThreshold > 1 {
		return fmt.Errorf("%w: threshold must be between 0 and 1", domain.ErrInvalidInput)
	}

	req := domain.AnalysisRequest{
		TargetURL:      args[0],
		CompetitorURLs: append([]string(nil), analyzeCompetitors...),
		Queries:        append([]string(nil), analyzeQueries...),
		Threshold:      analyzeThreshold,
		Discover:       analyzeDiscover,
	}
	if analyzeQueriesFile != "" {
		qf, err := loadQueryFile(analyzeQueriesFile)
		if err != nil {
			return err
		}
		req.Queries = append(req.Queries, qf.Queries...)
		req.CompetitorURLs = append(req.CompetitorURLs, qf.Competitors...)
	}

	result, err := svc.Analyze(cmd.Context(), req)
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	if analyzeJSON {
		return writeJSON(cmd.OutOrStdout(), result)
	}
	newRenderer(cmd.OutOrStdout()).result(result)
	return nil
}
