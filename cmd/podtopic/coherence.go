package main

import (
	"github.com/spf13/cobra"

	"github.com/cognicore/podtopic/internal/corpusfile"
	"github.com/cognicore/podtopic/pkg/podtopic/coherence"
)

var (
	coherenceBundle string
	coherenceInput  string
	coherenceField  string
	coherenceTop    int
	coherenceMeas   string
)

var coherenceCmd = &cobra.Command{
	Use:   "coherence",
	Short: "Score a stored model's topics against a corpus (c_v or c_npmi)",
	Args:  cobra.NoArgs,
	RunE:  runCoherence,
}

func init() {
	coherenceCmd.Flags().StringVar(&coherenceBundle, "bundle", "", "bundle id (default newest)")
	coherenceCmd.Flags().StringVarP(&coherenceInput, "input", "i", "", "reference corpus file")
	coherenceCmd.Flags().StringVar(&coherenceField, "field", "", "JSON field or CSV column holding the description")
	coherenceCmd.Flags().IntVar(&coherenceTop, "top", coherence.DefaultTopN, "top words per topic")
	coherenceCmd.Flags().StringVar(&coherenceMeas, "measure", "", "c_v or c_npmi (default from config, c_v)")
	_ = coherenceCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(coherenceCmd)
}

func runCoherence(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	comp, err := loadComponents()
	if err != nil {
		return err
	}
	docs, err := corpusfile.Load(coherenceInput, coherenceField)
	if err != nil {
		return err
	}
	eng, err := openEngine(ctx, comp, coherenceBundle)
	if err != nil {
		return err
	}

	opts := comp.Coherence
	if cmd.Flags().Changed("top") {
		opts.TopN = coherenceTop
	}
	if coherenceMeas != "" {
		if opts.Measure, err = coherence.ParseMeasure(coherenceMeas); err != nil {
			return err
		}
	}

	rep, err := eng.Coherence(docs, opts)
	if err != nil {
		return err
	}
	cmd.Println(renderCoherence(rep))
	return nil
}
