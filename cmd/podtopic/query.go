package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cognicore/podtopic/internal/corpusfile"
	"github.com/cognicore/podtopic/internal/logger"
	"github.com/cognicore/podtopic/pkg/podtopic"
	"github.com/cognicore/podtopic/pkg/podtopic/config"
)

var (
	queryBundle string
	queryFile   string
	queryText   string
	queryTopK   int
	queryJSON   bool
)

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Rank the likely topics of a podcast description",
	Long: `Ranks topics for --text or the contents of --file. With neither flag
it reads one description per line from stdin.`,
	Args: cobra.NoArgs,
	RunE: runQuery,
}

func init() {
	queryCmd.Flags().StringVar(&queryBundle, "bundle", "", "bundle id (default newest)")
	queryCmd.Flags().StringVarP(&queryFile, "file", "f", "", "query file; lines are joined")
	queryCmd.Flags().StringVarP(&queryText, "text", "t", "", "query text")
	queryCmd.Flags().IntVarP(&queryTopK, "topk", "k", 0, "number of topics to report (default from config, 5)")
	queryCmd.Flags().BoolVar(&queryJSON, "json", false, "output the report as JSON")
	queryCmd.MarkFlagsMutuallyExclusive("file", "text")
	rootCmd.AddCommand(queryCmd)
}

// openEngine loads a bundle and applies the configured short-result policy.
func openEngine(ctx context.Context, comp *config.Components, id string) (*podtopic.Engine, error) {
	st, err := openStore(ctx, backend, storePath)
	if err != nil {
		return nil, err
	}
	defer st.Close()

	eng, err := podtopic.Open(ctx, st, id)
	if err != nil {
		return nil, err
	}
	logger.Debug("loaded bundle %s", eng.Bundle().ID)
	return eng.WithShortResult(comp.ShortResult), nil
}

func runQuery(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	comp, err := loadComponents()
	if err != nil {
		return err
	}
	eng, err := openEngine(ctx, comp, queryBundle)
	if err != nil {
		return err
	}

	k := queryTopK
	if k <= 0 {
		k = comp.TopK
	}

	if queryFile != "" {
		text, err := corpusfile.ReadQuery(queryFile)
		if err != nil {
			return err
		}
		return executeQuery(cmd, eng, text, k)
	}
	if queryText != "" {
		return executeQuery(cmd, eng, queryText, k)
	}

	cmd.Println(titleStyle.Render("podtopic") + mutedStyle.Render(" bundle "+eng.Bundle().ID))
	cmd.Println("Type a podcast description (Ctrl+D to exit):")

	scanner := bufio.NewScanner(cmd.InOrStdin())
	scanner.Buffer(make([]byte, 0, 64*1024), maxQueryLine)
	for {
		cmd.Print("> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if err := executeQuery(cmd, eng, line, k); err != nil {
			cmd.Println("Error:", err)
		}
	}
	cmd.Println("\nGoodbye!")
	return scanner.Err()
}

// maxQueryLine bounds one interactive input line.
const maxQueryLine = 1024 * 1024

func executeQuery(cmd *cobra.Command, eng *podtopic.Engine, text string, k int) error {
	rep, err := eng.Query(text, k)
	if err != nil {
		return fmt.Errorf("query: %w", err)
	}
	if len(rep.Unknown) > 0 {
		logger.Debug("unknown tokens: %s", strings.Join(rep.Unknown, " "))
	}

	if queryJSON {
		data, err := json.MarshalIndent(rep, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal report: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}
	cmd.Println(renderReport(rep))
	return nil
}
