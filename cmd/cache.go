package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/999aryaDharma/HackStack/internal/card"
	"github.com/999aryaDharma/HackStack/internal/deck"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the generated card cache",
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete generated cards past the eviction age",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, _, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		// Eviction never calls the generator.
		p := deck.New(st.CardRepo(), nil, card.NewValidator(),
			deck.WithConfig(cfg.Deck.Pipeline()),
			deck.WithLogger(logger),
			deck.WithBundle([]card.Card{}))
		n, err := p.ClearOldCache(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Evicted %d cached cards older than %s.\n", n, cfg.Deck.EvictionAge)
		return nil
	},
}

var cacheSeedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Store the bundled deck so every card can be reviewed",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, _, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		cards, err := deck.Bundled()
		if err != nil {
			return err
		}
		n, err := deck.SeedBundled(cmd.Context(), st.CardRepo(), cards)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d of %d bundled cards.\n", n, len(cards))
		return nil
	},
}

func init() {
	cacheCmd.AddCommand(cacheClearCmd)
	cacheCmd.AddCommand(cacheSeedCmd)
}
