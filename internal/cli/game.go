package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newGameCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "game",
		Short: "Game commands",
	}

	cmd.AddCommand(newGameStartCmd())
	cmd.AddCommand(newGameShowCmd())
	cmd.AddCommand(newGameGuessCmd())
	cmd.AddCommand(newGameGiveUpCmd())

	return cmd
}

func newGameStartCmd() *cobra.Command {
	var phrase string

	cmd := &cobra.Command{
		Use:   "start",
		Short: "Start a new round",
		RunE: func(cmd *cobra.Command, args []string) error {
			if phrase == "" {
				return fmt.Errorf("--phrase is required")
			}

			req := map[string]string{"phrase": phrase}
			var result Game

			if err := client.Post("/api/v1/games", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&phrase, "phrase", "", "Phrase to guess (required)")
	_ = cmd.MarkFlagRequired("phrase")

	return cmd
}

func newGameShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <game-id>",
		Short: "Show the state of a game",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseGameID(args[0])
			if err != nil {
				return err
			}

			var result Game
			if err := client.Get(gamePath(id), &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newGameGuessCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "guess <game-id> <letter>",
		Short: "Buy a letter",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseGameID(args[0])
			if err != nil {
				return err
			}

			req := map[string]string{"letter": args[1]}
			var result GuessResult

			if err := client.Post(gamePath(id)+"/guess", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newGameGiveUpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "giveup <game-id>",
		Short: "Abandon a round",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseGameID(args[0])
			if err != nil {
				return err
			}

			var result Game
			if err := client.Post(gamePath(id)+"/giveup", nil, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func parseGameID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid game id %q", arg)
	}
	return id, nil
}

func gamePath(id int64) string {
	return "/api/v1/games/" + strconv.FormatInt(id, 10)
}
