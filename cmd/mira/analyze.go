package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	mirasdk "github.com/cyberFlowTech/mira-sdk-go"
)

var (
	analyzeJSON   bool
	analyzePrompt bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [text...]",
	Short: "Analyze utterances and print mood, sentiment and expression",
	Long: `Analyze one utterance given as arguments, or one utterance per line from
stdin. All utterances share a single session, so mood transitions and
history carry over from line to line.`,
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "Print each analysis as JSON")
	analyzeCmd.Flags().BoolVar(&analyzePrompt, "prompt", false, "Print the system prompt after the last utterance")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	rt, err := loadRuntime()
	if err != nil {
		return err
	}
	utterances, err := readUtterances(args, cmd.InOrStdin())
	if err != nil {
		return err
	}

	engine, err := mirasdk.NewEngine(rt.backend(nil), nil, rt.engineConfig(uuid.NewString(), nil))
	if err != nil {
		return err
	}
	defer engine.Close(cmd.Context())

	out := cmd.OutOrStdout()
	enc := json.NewEncoder(out)
	for _, u := range utterances {
		a := engine.Analyze(u)
		if analyzeJSON {
			a.SystemPrompt = ""
			if err := enc.Encode(a); err != nil {
				return err
			}
			continue
		}
		fmt.Fprintf(out, "%-12s mood=%-10s emotion=%-8s score=%+.1f intensity=%.2f expression=%s/%s trigger=%s\n",
			truncate(u, 12), a.Mood, a.Sentiment.PrimaryEmotion, a.Sentiment.FinalScore,
			a.Sentiment.Intensity, a.Expression.Primary, a.Expression.Secondary, a.Trigger)
	}
	if analyzePrompt {
		fmt.Fprintln(out)
		fmt.Fprintln(out, engine.BuildSystemPrompt())
	}
	return nil
}

// readUtterances returns args joined as one utterance, or the non-blank
// lines of r when args is empty.
func readUtterances(args []string, r io.Reader) ([]string, error) {
	if len(args) > 0 {
		text := strings.Join(args, " ")
		if strings.TrimSpace(text) == "" {
			return nil, mirasdk.ErrEmptyInput
		}
		return []string{text}, nil
	}
	var lines []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			lines = append(lines, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read stdin: %w", err)
	}
	if len(lines) == 0 {
		return nil, mirasdk.ErrEmptyInput
	}
	return lines, nil
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}
