package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"smartbar/intent"
	"smartbar/provider"
	"smartbar/suggest"
)

var classifyCmd = &cobra.Command{
	Use:   "classify TEXT...",
	Short: "Print the intent of the input",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		text := strings.Join(args, " ")
		t, rule := intent.Explain(text)
		fmt.Fprintf(cmd.OutOrStdout(), "%s\t(rule %d)\n", t, rule)
		return nil
	},
}

var suggestCmd = &cobra.Command{
	Use:   "suggest TEXT...",
	Short: "Print the ranked suggestions for the input, using local history",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runSuggest,
}

var pingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Check that the configured AI provider is reachable",
	Args:  cobra.NoArgs,
	RunE:  runPing,
}

func init() {
	pingCmd.Flags().Bool("models", false, "also list the models the provider offers")
}

func runPing(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(cmd.Context(), 15*time.Second)
	defer cancel()

	p, err := provider.Validate(ctx, cfg)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s: ok (%s)\n", cfg.Provider.ID, p.GetDisplayName())

	if list, _ := cmd.Flags().GetBool("models"); !list {
		return nil
	}
	models, err := p.ListModels(ctx)
	if err != nil {
		return err
	}
	for _, m := range models {
		mark := " "
		if m.InternalName == p.GetModel() {
			mark = "*"
		}
		fmt.Fprintf(out, "%s %s\n", mark, m.Name)
	}
	return nil
}

func runSuggest(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	db, history, err := openHistory(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	query := strings.TrimSpace(strings.Join(args, " "))
	if query == "" {
		return fmt.Errorf("empty query")
	}
	opts := suggest.OptionsFromConfig(cfg)

	ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
	defer cancel()

	list, origin := suggest.Once(ctx, history, opts, query)
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "intent: %s (%s)\n", intent.Classify(query), origin)
	for i, s := range list {
		fmt.Fprintf(out, "%2d. %-8s %s\n", i+1, s.Type, s.Text)
	}
	return nil
}
