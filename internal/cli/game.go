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

	cmd.AddCommand(newGameNewCmd())
	cmd.AddCommand(newGameListCmd())
	cmd.AddCommand(newGameGetCmd())
	cmd.AddCommand(newGameNextCmd())
	cmd.AddCommand(newGameMoveCmd())
	cmd.AddCommand(newGameDropCmd())
	cmd.AddCommand(newGameReturnCmd())
	cmd.AddCommand(newGameResetCmd())

	return cmd
}

func gamePath(id string) string {
	return "/api/v1/games/" + id
}

func newGameNewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "new",
		Short: "Start a new game and fetch its first round",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Game

			if err := client.Post(cmd.Context(), "/api/v1/games", nil, &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}
}

func newGameListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List your games, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var result GameList

			if err := client.Get(cmd.Context(), "/api/v1/games", &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}
}

func newGameGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Get current game state",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Game

			if err := client.Get(cmd.Context(), gamePath(args[0]), &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}
}

func newGameNextCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "next <id>",
		Short: "Replace the current round with a new one",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Game

			if err := client.Post(cmd.Context(), gamePath(args[0])+"/rounds", nil, &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}
}

func newGameMoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "move <id> <tile> <dx> <dy>",
		Short: "Record a tile's drag offset without dropping it",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			tile, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid tile: %w", err)
			}
			x, err := strconv.ParseFloat(args[2], 64)
			if err != nil {
				return fmt.Errorf("invalid dx: %w", err)
			}
			y, err := strconv.ParseFloat(args[3], 64)
			if err != nil {
				return fmt.Errorf("invalid dy: %w", err)
			}

			req := map[string]float64{"x": x, "y": y}
			var result Game

			path := fmt.Sprintf("%s/tiles/%d/move", gamePath(args[0]), tile)
			if err := client.Post(cmd.Context(), path, req, &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}
}

func newGameDropCmd() *cobra.Command {
	var (
		slot int
		x, y float64
	)

	cmd := &cobra.Command{
		Use:   "drop <id> <tile>",
		Short: "Drop a tile onto the answer row",
		Long: `Drop a tile onto the answer row.

By default the tile is dropped on the centre of the first open slot. Use
--slot to aim at a particular slot, or --x and --y to drop at raw page
coordinates and let the server pick the nearest slot.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			tile, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid tile: %w", err)
			}

			rawPoint := cmd.Flags().Changed("x") || cmd.Flags().Changed("y")
			if rawPoint && cmd.Flags().Changed("slot") {
				return fmt.Errorf("--slot cannot be combined with --x/--y")
			}

			if !rawPoint {
				var game Game
				if err := client.Get(cmd.Context(), gamePath(id), &game); err != nil {
					return err
				}
				if !cmd.Flags().Changed("slot") {
					slot = game.FirstOpenSlot()
				}
				if len(game.Layout) == 0 {
					return fmt.Errorf("game %s has no round to play", id)
				}
				if slot < 0 {
					slot = 0 // Full row, the server reports the miss
				}
				if slot >= len(game.Layout) {
					return fmt.Errorf("slot %d out of range (0-%d)", slot, len(game.Layout)-1)
				}
				x, y = game.Layout[slot].Center()
			}

			req := map[string]any{"tile": tile, "x": x, "y": y}
			var result DropResult

			if err := client.Post(cmd.Context(), gamePath(id)+"/drop", req, &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}

	cmd.Flags().IntVar(&slot, "slot", 0, "Slot to aim at")
	cmd.Flags().Float64Var(&x, "x", 0, "Drop x coordinate")
	cmd.Flags().Float64Var(&y, "y", 0, "Drop y coordinate")

	return cmd
}

func newGameReturnCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "return <id> <slot>",
		Short: "Send the letter in a slot back to the pool",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			slot, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid slot: %w", err)
			}

			var result ReturnResult
			path := fmt.Sprintf("%s/slots/%d/return", gamePath(args[0]), slot)
			if err := client.Post(cmd.Context(), path, nil, &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}
}

func newGameResetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset <id>",
		Short: "Clear the answer row",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Game

			if err := client.Post(cmd.Context(), gamePath(args[0])+"/reset", nil, &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}
}
