package main

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/spf13/cobra"

	mirasdk "github.com/cyberFlowTech/mira-sdk-go"
)

var humanizeSeed int64

var humanizeCmd = &cobra.Command{
	Use:   "humanize [text...]",
	Short: "Rewrite a formal reply in the persona's casual style",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := loadRuntime()
		if err != nil {
			return err
		}
		lines, err := readUtterances(args, cmd.InOrStdin())
		if err != nil {
			return err
		}
		var rng mirasdk.RandSource
		if humanizeSeed != 0 {
			rng = rand.New(rand.NewSource(humanizeSeed))
		} else {
			rng = mirasdk.NewRandSource()
		}
		engine, err := mirasdk.NewEngine(rt.backend(rng), nil, rt.engineConfig("cli", rng))
		if err != nil {
			return err
		}
		defer engine.Close(cmd.Context())

		fmt.Fprintln(cmd.OutOrStdout(), engine.Humanize(strings.Join(lines, " ")))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(humanizeCmd)

	humanizeCmd.Flags().Int64Var(&humanizeSeed, "seed", 0, "Seed for the filler randomness (0 = time-based)")
}
