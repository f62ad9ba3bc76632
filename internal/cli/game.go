package cli

import (
	"fmt"
	"net/url"

	"github.com/spf13/cobra"
)

func newGamesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "games",
		Short: "Game commands",
	}

	cmd.AddCommand(newGamesListCmd())
	cmd.AddCommand(newGamesCreateCmd())
	cmd.AddCommand(newGamesGetCmd())
	cmd.AddCommand(newGamesInviteCmd())

	return cmd
}

func newGamesListCmd() *cobra.Command {
	var variant string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List games waiting for an opponent",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "/api/games"
			if variant != "" {
				path += "?game_variant=" + url.QueryEscape(variant)
			}

			var result GameList

			if err := client.Get(path, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&variant, "variant", "", "Filter by game variant")

	return cmd
}

func newGamesCreateCmd() *cobra.Command {
	var variant string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a game, pairing a random opponent if one exists",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{"game_variant": variant}
			var result Game

			if err := client.Post("/api/games", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&variant, "variant", "classic", "Game variant tag")

	return cmd
}

func newGamesGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show a game and its board",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result GameDetail

			if err := client.Get(fmt.Sprintf("/api/games/%s", args[0]), &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newGamesInviteCmd() *cobra.Command {
	var variant, email string

	cmd := &cobra.Command{
		Use:   "invite",
		Short: "Start a game against a specific account",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{
				"game_variant": variant,
				"invite_email": email,
			}
			var result Game

			if err := client.Post("/api/invite", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Opponent email (required)")
	cmd.Flags().StringVar(&variant, "variant", "classic", "Game variant tag")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}
