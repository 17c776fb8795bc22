// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/insight-engine/pkg/types"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate one insight for a focus and realm axis",
	Long: `Generate warms the pipeline, runs the backend chain once, and prints the
accepted passage. The deterministic fallback answers when every backend is
rejected, so the command prints a passage even with an empty corpus.`,
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().Int("focus", 0, "focus axis value (required)")
	generateCmd.Flags().Int("realm", 0, "realm axis value (required)")
	generateCmd.Flags().String("persona", "", "persona ID (default sage)")
	generateCmd.Flags().Int("max-sentences", 0, "sentence cap for model output")
	generateCmd.Flags().String("focus-area", "", "optional theme for model prompts")
	generateCmd.Flags().StringToString("context", nil, "user context entries (key=value)")
	generateCmd.Flags().Duration("timeout", 0, "overall deadline (default: server.request_deadline)")
	generateCmd.Flags().Bool("json", false, "print the full result as JSON")
	generateCmd.MarkFlagRequired("focus")
	generateCmd.MarkFlagRequired("realm")

	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	p, cfg, err := openPipeline(cmd)
	if err != nil {
		return err
	}
	defer p.Close()

	req := types.InsightRequest{}
	req.FocusAxis, _ = cmd.Flags().GetInt("focus")
	req.RealmAxis, _ = cmd.Flags().GetInt("realm")
	req.Persona, _ = cmd.Flags().GetString("persona")
	req.MaxSentences, _ = cmd.Flags().GetInt("max-sentences")
	req.FocusArea, _ = cmd.Flags().GetString("focus-area")
	req.UserContext, _ = cmd.Flags().GetStringToString("context")

	timeout, _ := cmd.Flags().GetDuration("timeout")
	if timeout == 0 {
		timeout = cfg.Server.RequestDeadline
	}

	ctx := context.Background()
	if err := p.Warmup(ctx); err != nil {
		return err
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	res := p.Generate(ctx, req)
	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		return printJSON(res)
	}
	fmt.Println(res.Text)
	fmt.Printf("\n[%s, quality %.2f, %s]\n", res.Method, res.QualityScore, res.Latency.Round(time.Millisecond))
	return nil
}
