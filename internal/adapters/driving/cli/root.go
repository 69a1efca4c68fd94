// Package cli provides the cobra command tree for topicgap.
package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/topicgap/internal/core/ports/driving"
	"github.com/custodia-labs/topicgap/internal/logger"
)

// version is set at build time with -ldflags.
var version = "dev"

// Services are the driving ports the commands call.
type Services struct {
	Analysis driving.AnalysisService
	Topic    driving.TopicService
	Reports  driving.ReportService
	Settings driving.SettingsService

	// AnalysisErr explains why Analysis is nil, if it is.
	AnalysisErr error
}

// BootstrapFunc builds services for the given config directory.
// The returned func releases them.
type BootstrapFunc func(ctx context.Context, configDir string) (Services, func() error, error)

var (
	analysisService driving.AnalysisService
	analysisErr     error
	topicService    driving.TopicService
	reportService   driving.ReportService
	settingsService driving.SettingsService

	bootstrap BootstrapFunc
	release   func() error
)

var (
	verbose   bool
	configDir string
)

// skipBootstrap lists commands that never touch services.
var skipBootstrap = map[string]bool{
	"version":    true,
	"help":       true,
	"completion": true,
}

var rootCmd = &cobra.Command{
	Use:   "topicgap",
	Short: "Find the topics competitors cover that your page does not",
	Long: `topicgap scores how well a page answers a set of search queries using
embedding similarity, compares it with competitor pages, and reports the
topic categories where competitors outscore it.

Configure an embedding provider first:
  topicgap settings set embedding.provider openai
  topicgap settings set embedding.api_key sk-...`,
	SilenceUsage:       true,
	SilenceErrors:      true,
	PersistentPreRunE:  setup,
	PersistentPostRunE: teardown,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "configuration directory (default ~/.topicgap)")
}

// SetServices installs already built services. Commands use them
// as-is and no bootstrap runs.
func SetServices(s Services) {
	analysisService = s.Analysis
	analysisErr = s.AnalysisErr
	topicService = s.Topic
	reportService = s.Reports
	settingsService = s.Settings
}

// SetBootstrap installs the builder run before each command once flags
// are parsed.
func SetBootstrap(fn BootstrapFunc) {
	bootstrap = fn
}

// SetVersion overrides the reported version.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute loads .env and runs the root command.
func Execute(ctx context.Context) error {
	if err := godotenv.Load(); err != nil {
		logger.Debug("no .env loaded: %v", err)
	}
	err := rootCmd.ExecuteContext(ctx)
	// PersistentPostRunE is skipped when a command fails.
	return errors.Join(err, teardown(rootCmd, nil))
}

func setup(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)
	logger.SetOutput(cmd.ErrOrStderr())

	if bootstrap == nil || skipBootstrap[cmd.Name()] || (cmd.HasParent() && skipBootstrap[cmd.Parent().Name()]) {
		return nil
	}
	svcs, closeFn, err := bootstrap(cmd.Context(), configDir)
	if err != nil {
		return fmt.Errorf("initialise: %w", err)
	}
	SetServices(svcs)
	release = closeFn
	return nil
}

func teardown(_ *cobra.Command, _ []string) error {
	if release == nil {
		return nil
	}
	err := release()
	release = nil
	return err
}

// requireAnalysis returns the analysis service or the reason it is missing.
func requireAnalysis() (driving.AnalysisService, error) {
	if analysisService != nil {
		return analysisService, nil
	}
	if analysisErr != nil {
		return nil, fmt.Errorf("analysis unavailable: %w", analysisErr)
	}
	return nil, errors.New("analysis service not configured")
}
