package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cognicore/podtopic/internal/corpusfile"
	"github.com/cognicore/podtopic/internal/logger"
	"github.com/cognicore/podtopic/pkg/podtopic"
	"github.com/cognicore/podtopic/pkg/podtopic/wordcloud"
)

var (
	trainInput string
	trainField string
	trainCloud string
	trainWords int
)

var trainCmd = &cobra.Command{
	Use:   "train",
	Short: "Train a topic model bundle from podcast descriptions",
	Long: `Cleans the descriptions, builds the vocabulary and corpus, trains the
LDA model, prints its topics and coherence, and saves the bundle.`,
	Args: cobra.NoArgs,
	RunE: runTrain,
}

func init() {
	trainCmd.Flags().StringVarP(&trainInput, "input", "i", "", "descriptions file (.jsonl, .csv or plain lines)")
	trainCmd.Flags().StringVar(&trainField, "field", "", "JSON field or CSV column holding the description")
	trainCmd.Flags().StringVar(&trainCloud, "cloud", "", "also write a word cloud of the cleaned corpus to this HTML file (default wordcloud.output when training.cloud is set)")
	trainCmd.Flags().IntVar(&trainWords, "words", 15, "top words to print per topic")
	_ = trainCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(trainCmd)
}

func runTrain(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	comp, err := loadComponents()
	if err != nil {
		return err
	}
	docs, err := corpusfile.Load(trainInput, trainField)
	if err != nil {
		return err
	}

	logger.Section("train")
	logger.Info("%d documents from %s", len(docs), trainInput)

	builder := &podtopic.Builder{
		Normalizer: comp.Normalizer,
		Exclusions: comp.Exclusions(),
		Trainer:    comp.Trainer,
		Labels:     comp.Labels,
	}
	cloudPath := trainCloud
	if cloudPath == "" && comp.TrainCloud {
		cloudPath = comp.WordCloud.Output
	}
	if cloudPath != "" {
		builder.Cloud = wordcloud.File{
			Path:          cloudPath,
			MaxWords:      comp.WordCloud.MaxWords,
			MinWordLength: comp.WordCloud.MinWordLength,
			Renderer:      wordcloud.Renderer{Title: "Podcast descriptions"},
		}
	}

	res, err := builder.Build(ctx, docs)
	if err != nil {
		return fmt.Errorf("train: %w", err)
	}
	if err := res.CloudErr(); err != nil {
		logger.Warn("word cloud: %v", err)
	} else if cloudPath != "" {
		logger.Info("word cloud written to %s", cloudPath)
	}

	bundle := res.Bundle()
	logger.Debug("vocabulary %d tokens, %d topics", bundle.Vocabulary.Len(), bundle.Model.NumTopics())

	eng, err := podtopic.NewEngine(bundle, comp.ShortResult)
	if err != nil {
		return err
	}
	cmd.Println(renderTopics(eng.Topics(trainWords)))

	if coh, err := eng.Coherence(docs, comp.Coherence); err != nil {
		logger.Warn("coherence: %v", err)
	} else {
		cmd.Println(renderCoherence(coh))
	}

	st, err := openStore(ctx, backend, storePath)
	if err != nil {
		return err
	}
	defer st.Close()

	if err := st.SaveBundle(ctx, bundle); err != nil {
		return fmt.Errorf("save bundle: %w", err)
	}
	cmd.Printf("Saved bundle %s to %s\n", bundle.ID, storePath)
	return nil
}
