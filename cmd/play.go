package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/999aryaDharma/HackStack/internal/card"
	"github.com/999aryaDharma/HackStack/internal/cardgen"
	"github.com/999aryaDharma/HackStack/internal/deck"
	"github.com/999aryaDharma/HackStack/internal/llm"
	"github.com/999aryaDharma/HackStack/internal/play"
	"github.com/999aryaDharma/HackStack/internal/review"
	"github.com/999aryaDharma/HackStack/internal/session"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Start a flashcard session",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPlay(cmd)
	},
}

func addPlayFlags(c *cobra.Command) {
	c.Flags().StringP("lang", "l", "", "Language to practise (e.g. go, python, js)")
	c.Flags().StringP("difficulty", "d", "", "easy, medium, hard or god")
	c.Flags().IntP("count", "n", 0, "Cards in the opening hand")
	c.Flags().StringSliceP("topics", "t", nil, "Focus topics, comma separated")
}

func init() {
	addPlayFlags(playCmd)
}

// loadoutFromFlags starts from the configured session defaults and
// applies any flags the player passed.
func loadoutFromFlags(cmd *cobra.Command) (card.Loadout, error) {
	sc := cfg.Session
	if v, _ := cmd.Flags().GetString("lang"); v != "" {
		sc.Language = v
	}
	if v, _ := cmd.Flags().GetString("difficulty"); v != "" {
		sc.Difficulty = strings.ToLower(v)
		if !card.Difficulty(sc.Difficulty).Valid() {
			return card.Loadout{}, fmt.Errorf("unknown difficulty %q", v)
		}
	}
	if v, _ := cmd.Flags().GetInt("count"); v > 0 {
		sc.Length = v
	}
	if v, _ := cmd.Flags().GetStringSlice("topics"); len(v) > 0 {
		sc.Topics = v
	}
	return sc.Loadout()
}

// runPlay opens the store, builds the card pipeline, and launches the TUI.
func runPlay(cmd *cobra.Command) error {
	ctx := cmd.Context()

	loadout, err := loadoutFromFlags(cmd)
	if err != nil {
		return err
	}

	st, dbPath, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	verbose, _ := cmd.Flags().GetBool("verbose")
	log, closeLog, err := sessionLogger(dbPath, verbose)
	if err != nil {
		return err
	}
	defer closeLog()

	provider, err := llm.NewProvider(ctx, cfg.LLM, st.EventRepo(), log)
	if err != nil {
		return fmt.Errorf("LLM provider not configured: %w", err)
	}
	if cfg.LLM.Provider == llm.ProviderMock {
		fmt.Fprintln(cmd.ErrOrStderr(), "No API key found; playing with the bundled deck.")
	}

	gen := cardgen.WithRateLimit(cardgen.New(provider, cardgen.DefaultConfig()), cfg.LLM.RequestsPerMinute)
	cards := st.CardRepo()
	pipeline := deck.New(cards, gen, card.NewValidator(),
		deck.WithConfig(cfg.Deck.Pipeline()),
		deck.WithLogger(log))
	reviews := review.New(cards, review.WithLogger(log))

	sess := session.New(loadout, pipeline, reviews,
		session.WithLogger(log),
		session.WithPrefetchCount(cfg.Deck.PrefetchCount))

	sum, err := play.Run(ctx, sess)
	if err != nil {
		return err
	}
	if sum.Stats.Answered > 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "%d cards, %d correct, %d XP\n",
			sum.Stats.Answered, sum.Stats.Correct, sum.Stats.XP)
	}
	return nil
}
