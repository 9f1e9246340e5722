package main

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	mirasdk "github.com/cyberFlowTech/mira-sdk-go"
)

var trendCmd = &cobra.Command{
	Use:   "trend [text...]",
	Short: "Print the mood trendline of a conversation read from stdin",
	RunE: func(cmd *cobra.Command, args []string) error {
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

		for _, u := range utterances {
			engine.Analyze(u)
		}
		trend, ok := engine.CalculateMoodTrendline()
		if !ok {
			fmt.Fprintf(cmd.OutOrStdout(), "insufficient data: %d utterance(s), need at least 3\n", len(utterances))
			return nil
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			*mirasdk.MoodTrendline
			DominantMood mirasdk.Mood `json:"dominant_mood"`
		}{trend, engine.DominantMood()})
	},
}

func init() {
	rootCmd.AddCommand(trendCmd)
}
