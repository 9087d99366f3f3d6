package main

import (
	"github.com/spf13/cobra"
)

var bundlesCmd = &cobra.Command{
	Use:   "bundles",
	Short: "List stored bundles, newest first",
	Args:  cobra.NoArgs,
	RunE:  runBundles,
}

func init() {
	rootCmd.AddCommand(bundlesCmd)
}

func runBundles(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	st, err := openStore(ctx, backend, storePath)
	if err != nil {
		return err
	}
	defer st.Close()

	list, err := st.ListBundles(ctx)
	if err != nil {
		return err
	}
	cmd.Println(renderBundles(list))
	return nil
}
