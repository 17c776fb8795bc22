// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var selectCmd = &cobra.Command{
	Use:   "select",
	Short: "Show the sentences selection picks for an axis pair",
	RunE:  runSelect,
}

func init() {
	selectCmd.Flags().Int("focus", 0, "focus axis value (required)")
	selectCmd.Flags().Int("realm", 0, "realm axis value (required)")
	selectCmd.Flags().String("persona", "sage", "persona ID")
	selectCmd.Flags().Int("count", 0, "desired sentence count (default: selection.desired_count)")
	selectCmd.Flags().Bool("json", false, "print the full result as JSON")
	selectCmd.MarkFlagRequired("focus")
	selectCmd.MarkFlagRequired("realm")

	rootCmd.AddCommand(selectCmd)
}

func runSelect(cmd *cobra.Command, args []string) error {
	if count, _ := cmd.Flags().GetInt("count"); count > 0 {
		viper.Set("selection.desired_count", count)
	}
	p, _, err := openPipeline(cmd)
	if err != nil {
		return err
	}
	defer p.Close()

	focus, _ := cmd.Flags().GetInt("focus")
	realm, _ := cmd.Flags().GetInt("realm")
	personaID, _ := cmd.Flags().GetString("persona")

	res, err := p.Select(context.Background(), focus, realm, personaID)
	if err != nil {
		return err
	}
	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		return printJSON(res)
	}
	if len(res.Sentences) == 0 {
		fmt.Println("No sentences selected.")
		return nil
	}
	for i, s := range res.Sentences {
		fmt.Printf("%2d. %s\n", i+1, s)
	}
	fmt.Printf("\n%d of %d candidates, mean score %.3f\n", len(res.Sentences), res.CandidateCount, res.AverageScore)
	return nil
}
