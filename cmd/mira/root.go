package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	mirasdk "github.com/cyberFlowTech/mira-sdk-go"
	"github.com/cyberFlowTech/mira-sdk-go/config"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "mira",
	Short: "Mood & emotion analysis for the MIRA chat persona",
	Long: `mira scores chat utterances, tracks the persona mood, derives avatar
expression blends and builds the mood-aware system prompt.`,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to a YAML config file")
}

// runtime is the wiring shared by every command.
type runtime struct {
	cfg     *config.Config
	lexicon *mirasdk.Lexicon
}

func loadRuntime() (*runtime, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	lexicon := mirasdk.DefaultLexicon()
	if cfg.LexiconPath != "" {
		if lexicon, err = mirasdk.LoadLexicon(cfg.LexiconPath); err != nil {
			return nil, fmt.Errorf("load lexicon: %w", err)
		}
	}
	return &runtime{cfg: cfg, lexicon: lexicon}, nil
}

func (rt *runtime) humanizer() mirasdk.HumanizerConfig {
	hc := mirasdk.DefaultHumanizerConfig()
	hc.FillerProbability = rt.cfg.Engine.FillerProbability
	return hc
}

func (rt *runtime) backend(rng mirasdk.RandSource) mirasdk.AnalysisBackend {
	return mirasdk.SelectBackend(mirasdk.BackendOptions{
		Accelerated: rt.cfg.Engine.Accelerated,
		Lexicon:     rt.lexicon,
		Rand:        rng,
		Humanizer:   rt.humanizer(),
	})
}

func (rt *runtime) engineConfig(namespace string, rng mirasdk.RandSource) mirasdk.EngineConfig {
	ec := mirasdk.DefaultEngineConfig()
	ec.FlushEvery = rt.cfg.Engine.FlushEvery
	ec.Namespace = namespace
	ec.Rand = rng
	ec.Lexicon = rt.lexicon
	ec.Humanizer = rt.humanizer()
	return ec
}
