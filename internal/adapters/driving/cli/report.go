package cli

import (
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/topicgap/internal/adapters/driving/tui"
)

var (
	reportLimit int
	reportJSON  bool
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Manage saved analysis reports",
	Long:  `List, show and delete the analysis results saved by previous runs.`,
}

var reportListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved reports, most recent first",
	Args:  cobra.NoArgs,
	RunE:  runReportList,
}

var reportShowCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Show a saved report",
	Args:  cobra.ExactArgs(1),
	RunE:  runReportShow,
}

var reportDeleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a saved report",
	Args:  cobra.ExactArgs(1),
	RunE:  runReportDelete,
}

var reportBrowseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse saved reports interactively",
	Long: `Open an interactive terminal browser over saved reports.

Controls:
  ↑/k, ↓/j - Navigate / scroll
  Enter    - Open report
  d        - Delete report
  r        - Refresh
  Esc      - Back to list
  q        - Quit`,
	Args: cobra.NoArgs,
	RunE: runReportBrowse,
}

// runBrowser starts the interactive browser. Replaced in tests.
var runBrowser = func(cmd *cobra.Command, ports *tui.Ports) error {
	return tui.Run(cmd.Context(), ports, tea.WithInput(cmd.InOrStdin()), tea.WithOutput(cmd.OutOrStdout()))
}

func init() {
	reportListCmd.Flags().IntVarP(&reportLimit, "limit", "n", 20, "maximum number of reports")
	reportListCmd.Flags().BoolVar(&reportJSON, "json", false, "output as JSON")
	reportShowCmd.Flags().BoolVar(&reportJSON, "json", false, "output as JSON")
	reportCmd.AddCommand(reportListCmd)
	reportCmd.AddCommand(reportShowCmd)
	reportCmd.AddCommand(reportDeleteCmd)
	reportCmd.AddCommand(reportBrowseCmd)
	rootCmd.AddCommand(reportCmd)
}

func runReportList(cmd *cobra.Command, _ []string) error {
	if reportService == nil {
		return errors.New("report service not configured")
	}

	list, err := reportService.List(cmd.Context(), reportLimit)
	if err != nil {
		return fmt.Errorf("failed to list reports: %w", err)
	}

	if reportJSON {
		return writeJSON(cmd.OutOrStdout(), list)
	}
	newRenderer(cmd.OutOrStdout()).summaries(list)
	return nil
}

func runReportShow(cmd *cobra.Command, args []string) error {
	if reportService == nil {
		return errors.New("report service not configured")
	}

	result, err := reportService.Get(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to get report: %w", err)
	}

	if reportJSON {
		return writeJSON(cmd.OutOrStdout(), result)
	}
	newRenderer(cmd.OutOrStdout()).result(result)
	return nil
}

func runReportDelete(cmd *cobra.Command, args []string) error {
	if reportService == nil {
		return errors.New("report service not configured")
	}

	if err := reportService.Delete(cmd.Context(), args[0]); err != nil {
		return fmt.Errorf("failed to delete report: %w", err)
	}
	cmd.Printf("Deleted report %s\n", args[0])
	return nil
}

func runReportBrowse(cmd *cobra.Command, _ []string) error {
	if reportService == nil {
		return errors.New("report service not configured")
	}
	return runBrowser(cmd, &tui.Ports{Reports: reportService})
}
