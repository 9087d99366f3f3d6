package main

import (
	"github.com/spf13/cobra"

	"github.com/cognicore/podtopic/internal/corpusfile"
	"github.com/cognicore/podtopic/internal/logger"
	"github.com/cognicore/podtopic/pkg/podtopic/wordcloud"
)

var (
	cloudInput string
	cloudField string
	cloudOut   string
	cloudTitle string
)

var cloudCmd = &cobra.Command{
	Use:   "cloud",
	Short: "Draw a word cloud of the cleaned descriptions",
	Args:  cobra.NoArgs,
	RunE:  runCloud,
}

func init() {
	cloudCmd.Flags().StringVarP(&cloudInput, "input", "i", "", "descriptions file")
	cloudCmd.Flags().StringVar(&cloudField, "field", "", "JSON field or CSV column holding the description")
	cloudCmd.Flags().StringVarP(&cloudOut, "out", "o", "", "HTML output (default from config, wordcloud.html)")
	cloudCmd.Flags().StringVar(&cloudTitle, "title", "Podcast descriptions", "chart title")
	_ = cloudCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(cloudCmd)
}

func runCloud(cmd *cobra.Command, args []string) error {
	comp, err := loadComponents()
	if err != nil {
		return err
	}
	docs, err := corpusfile.Load(cloudInput, cloudField)
	if err != nil {
		return err
	}

	out := cloudOut
	if out == "" {
		out = comp.WordCloud.Output
	}
	sink := wordcloud.File{
		Path:          out,
		MaxWords:      comp.WordCloud.MaxWords,
		MinWordLength: comp.WordCloud.MinWordLength,
		Renderer:      wordcloud.Renderer{Title: cloudTitle},
	}
	texts := comp.Normalizer.NormalizeAll(docs)
	logger.Debug("drawing up to %d words from %d documents", sink.MaxWords, len(texts))
	if err := sink.Write(texts); err != nil {
		return err
	}
	cmd.Printf("Wrote word cloud to %s\n", out)
	return nil
}
