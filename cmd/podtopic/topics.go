package main

import (
	"github.com/spf13/cobra"

	"github.com/cognicore/podtopic/internal/logger"
)

var (
	topicsBundle  string
	topicsWords   int
	topicsSuggest bool
)

var topicsCmd = &cobra.Command{
	Use:   "topics",
	Short: "Print each topic's label and heaviest words",
	Args:  cobra.NoArgs,
	RunE:  runTopics,
}

func init() {
	topicsCmd.Flags().StringVar(&topicsBundle, "bundle", "", "bundle id (default newest)")
	topicsCmd.Flags().IntVarP(&topicsWords, "words", "w", 15, "words per topic")
	topicsCmd.Flags().BoolVar(&topicsSuggest, "suggest-labels", false, "ask the LLM for a label per topic")
	addLLMFlags(topicsCmd)
	rootCmd.AddCommand(topicsCmd)
}

func runTopics(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	comp, err := loadComponents()
	if err != nil {
		return err
	}
	eng, err := openEngine(ctx, comp, topicsBundle)
	if err != nil {
		return err
	}

	topics := eng.Topics(topicsWords)
	cmd.Println(renderTopics(topics))

	if !topicsSuggest {
		return nil
	}
	client := newLLMClient()
	if client == nil {
		logger.Warn("--suggest-labels needs --llm-base")
		return nil
	}

	cmd.Println()
	cmd.Println(titleStyle.Render("Suggested labels:"))
	for _, t := range topics {
		words := make([]string, len(t.Words))
		for i, w := range t.Words {
			words[i] = w.Word
		}
		name, err := client.SuggestLabel(ctx, words)
		if err != nil {
			logger.Warn("topic %d: %v", t.Topic, err)
			continue
		}
		cmd.Printf("  %d: %s (now %s)\n", t.Topic, labelStyle.Render(name), t.Label)
	}
	return nil
}
