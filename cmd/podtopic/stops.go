package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cognicore/podtopic/internal/corpusfile"
	"github.com/cognicore/podtopic/internal/logger"
	"github.com/cognicore/podtopic/pkg/podtopic/autotune/stopwords"
	"github.com/cognicore/podtopic/pkg/podtopic/stoplist"
)

var (
	stopsInput   string
	stopsField   string
	stopsDF      float64
	stopsMinDocs int64
	stopsJSON    bool
)

var stopsCmd = &cobra.Command{
	Use:   "stops",
	Short: "Suggest corpus-wide filler terms to exclude",
	Long: `Counts the document frequency of every term the current stoplist keeps
and suggests those found in more than --df percent of the descriptions.
With --llm-base each suggestion is reviewed by the LLM first.`,
	Args: cobra.NoArgs,
	RunE: runStops,
}

func init() {
	defaults := stoplist.DefaultThresholds()
	stopsCmd.Flags().StringVarP(&stopsInput, "input", "i", "", "descriptions file")
	stopsCmd.Flags().StringVar(&stopsField, "field", "", "JSON field or CSV column holding the description")
	stopsCmd.Flags().Float64Var(&stopsDF, "df", defaults.DFPercent, "document frequency threshold in percent")
	stopsCmd.Flags().Int64Var(&stopsMinDocs, "min-docs", defaults.MinDocs, "minimum number of documents")
	stopsCmd.Flags().BoolVar(&stopsJSON, "json", false, "output candidates as JSON")
	addLLMFlags(stopsCmd)
	_ = stopsCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(stopsCmd)
}

type candidateJSON struct {
	Token     string  `json:"token"`
	DF        int64   `json:"df"`
	DFPercent float64 `json:"df_percent"`
	IDF       float64 `json:"idf"`
}

func runStops(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	comp, err := loadComponents()
	if err != nil {
		return err
	}
	docs, err := corpusfile.Load(stopsInput, stopsField)
	if err != nil {
		return err
	}

	tuner := stopwords.AutoTuner{
		Provider:   stopwords.CorpusStats{Normalizer: comp.Normalizer, Texts: docs},
		Manager:    comp.Stoplist,
		Thresholds: stoplist.Thresholds{DFPercent: stopsDF, MinDocs: stopsMinDocs},
	}
	if client := newLLMClient(); client != nil {
		logger.Info("reviewing candidates with %s", llmModel)
		tuner.Reviewer = client
	}

	cands, err := tuner.Run(ctx)
	if err != nil {
		return fmt.Errorf("stops: %w", err)
	}

	if stopsJSON {
		out := make([]candidateJSON, len(cands))
		for i, c := range cands {
			out[i] = candidateJSON{Token: c.Token, DF: c.Reason.DF, DFPercent: c.Reason.DFPercent, IDF: c.Reason.IDF}
		}
		data, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return err
		}
		cmd.Println(string(data))
		return nil
	}
	cmd.Println(renderCandidates(cands))
	return nil
}
