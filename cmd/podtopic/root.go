package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rcrowley/go-metrics"
	"github.com/spf13/cobra"

	"github.com/cognicore/podtopic/internal/llm"
	"github.com/cognicore/podtopic/internal/logger"
	"github.com/cognicore/podtopic/pkg/podtopic/config"
	"github.com/cognicore/podtopic/pkg/podtopic/internalerr"
	"github.com/cognicore/podtopic/pkg/podtopic/store"
	boltstore "github.com/cognicore/podtopic/pkg/podtopic/store/bolt"
	"github.com/cognicore/podtopic/pkg/podtopic/store/sqlite"
)

var (
	verbose      bool
	showMetrics  bool
	storePath    string
	backend      string
	configPath   string
	stoplistPath string
)

// shared by the commands that can call an LLM
var (
	llmBase  string
	llmModel string
	llmKey   string
)

var rootCmd = &cobra.Command{
	Use:   "podtopic",
	Short: "Topic modeling for podcast descriptions",
	Long: `Trains an LDA topic model over podcast descriptions, stores it as a
versioned bundle and ranks the likely topics of new descriptions.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger.SetVerbose(verbose)
		logger.SetOutput(cmd.ErrOrStderr())
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if showMetrics {
			metrics.WriteOnce(metrics.DefaultRegistry, cmd.ErrOrStderr())
		}
	},
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	rootCmd.SetOut(os.Stdout)
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.BoolVarP(&verbose, "verbose", "v", false, "print pipeline diagnostics to stderr")
	pf.BoolVar(&showMetrics, "metrics", false, "print timers and counters on exit")
	pf.StringVar(&storePath, "store", "podtopic.db", "artifact store file")
	pf.StringVar(&backend, "backend", "sqlite", "store backend: sqlite or bolt")
	pf.StringVar(&configPath, "config", "", "pipeline config (.yaml, .yml or .toml)")
	pf.StringVar(&stoplistPath, "stoplist", "", "extra stop terms file")
}

func addLLMFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&llmBase, "llm-base", "", "OpenAI-compatible chat completions URL")
	cmd.Flags().StringVar(&llmModel, "llm-model", "", "LLM model name")
	cmd.Flags().StringVar(&llmKey, "llm-key", "", "API key for the LLM endpoint")
}

// newLLMClient returns nil when no endpoint is configured.
func newLLMClient() *llm.Client {
	if llmBase == "" {
		return nil
	}
	return &llm.Client{BaseURL: llmBase, Model: llmModel, APIKey: llmKey}
}

func openStore(ctx context.Context, kind, path string) (store.Store, error) {
	switch kind {
	case "", "sqlite":
		return sqlite.OpenSQLite(ctx, path)
	case "bolt":
		st, err := boltstore.Open(path)
		if err != nil {
			return nil, err
		}
		return st, nil
	default:
		return nil, fmt.Errorf("%w: unknown backend %q (want sqlite or bolt)", internalerr.ErrInvalidConfig, kind)
	}
}

func loadComponents() (*config.Components, error) {
	loader := config.Loader{ConfigPath: configPath, StoplistPath: stoplistPath}
	comp, err := loader.Load()
	if err != nil {
		return nil, err
	}
	logger.Debug("%d stop terms, %d labels, %d topics", comp.Stoplist.Len(), comp.Labels.Len(), comp.Trainer.NumTopics)
	return comp, nil
}
