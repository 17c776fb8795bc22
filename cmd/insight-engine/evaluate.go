// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/insight-engine/internal/evaluate"
	"github.com/pdiddy/insight-engine/internal/persona"
)

var evaluateCmd = &cobra.Command{
	Use:   "evaluate [text]",
	Short: "Grade a passage on the five quality dimensions",
	Long: `Evaluate scores a passage for authenticity, persona fidelity, coherence,
practicality, and brand alignment, then prints the grade and any
recommendations. The text comes from the argument, --file, or stdin.

The command exits non-zero when the passage misses a quality floor.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runEvaluate,
}

func init() {
	evaluateCmd.Flags().String("persona", "sage", "persona ID")
	evaluateCmd.Flags().String("file", "", "read the passage from a file")
	evaluateCmd.Flags().StringSlice("fragment", nil, "source fragment used for coherence (repeatable)")
	evaluateCmd.Flags().Bool("json", false, "print the full result as JSON")

	rootCmd.AddCommand(evaluateCmd)
}

func runEvaluate(cmd *cobra.Command, args []string) error {
	text, err := evaluationText(cmd, args)
	if err != nil {
		return err
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	personas := persona.NewRegistry()
	if cfg.Corpus.PersonasFile != "" {
		if err := personas.LoadFile(cfg.Corpus.PersonasFile); err != nil {
			return err
		}
	}

	personaID, _ := cmd.Flags().GetString("persona")
	fragments, _ := cmd.Flags().GetStringSlice("fragment")
	res, evalErr := evaluate.NewEvaluator(personas, cfg.Evaluation).Evaluate(text, fragments, personaID)
	if evalErr != nil && !errors.Is(evalErr, evaluate.ErrQualityBelowFloor) {
		return evalErr
	}

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		if err := printJSON(res); err != nil {
			return err
		}
		return evalErr
	}

	d := res.Dimensions
	fmt.Printf("%-18s %.3f\n", "authenticity", d.Authenticity)
	fmt.Printf("%-18s %.3f\n", "persona fidelity", d.PersonaFidelity)
	fmt.Printf("%-18s %.3f\n", "coherence", d.Coherence)
	fmt.Printf("%-18s %.3f\n", "practicality", d.Practicality)
	fmt.Printf("%-18s %.3f\n", "brand alignment", d.BrandAlignment)
	fmt.Println(strings.Repeat("-", 24))
	fmt.Printf("%-18s %.3f (%s)\n", "overall", res.OverallScore, res.Grade)
	for _, r := range res.Recommendations {
		fmt.Println("  -", r)
	}
	return evalErr
}

func evaluationText(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}
	var data []byte
	var err error
	if path, _ := cmd.Flags().GetString("file"); path != "" {
		data, err = os.ReadFile(path)
	} else {
		data, err = io.ReadAll(cmd.InOrStdin())
	}
	if err != nil {
		return "", fmt.Errorf("reading passage: %w", err)
	}
	text := strings.TrimSpace(string(data))
	if text == "" {
		return "", fmt.Errorf("provide a passage as an argument, with --file, or on stdin")
	}
	return text, nil
}
