package cli

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/mcoot/tourney/internal/model"
	"github.com/mcoot/tourney/internal/services/players"
	"github.com/mcoot/tourney/internal/storage"
)

func newPlayerCmd(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "player",
		Short: "Player management commands",
	}

	cmd.AddCommand(newPlayerRegisterCmd(rt))
	cmd.AddCommand(newPlayerEditCmd(rt))
	cmd.AddCommand(newPlayerDeleteCmd(rt))
	cmd.AddCommand(newPlayerListCmd(rt))

	return cmd
}

func newPlayerRegisterCmd(rt *runtime) *cobra.Command {
	var country string

	cmd := &cobra.Command{
		Use:   "register NAME",
		Short: "Register a new player",
		Long: `Register a new player. The name needs a first name and a surname and may
not contain numbers or symbols. If --country is omitted you are prompted for it.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			if err := players.ValidateName(name); err != nil {
				return err
			}

			if country == "" {
				answer, err := rt.prompt("Country of Origin: ")
				if err != nil {
					return err
				}
				country = answer
			}

			id, err := rt.app.Players.Register(cmd.Context(), name, country)
			if err != nil {
				return err
			}
			player, err := rt.app.Players.Get(cmd.Context(), id)
			if err != nil {
				return err
			}

			return rt.out.Message(player, "Registered %s from %s as player %d (code %s)",
				player.Name, player.Country, player.ID, player.Code)
		},
	}

	cmd.Flags().StringVar(&country, "country", "", "Country of origin")

	return cmd
}

func newPlayerEditCmd(rt *runtime) *cobra.Command {
	var name, country string

	cmd := &cobra.Command{
		Use:   "edit ID",
		Short: "Change a player's name and country",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := model.ParsePlayerID(args[0])
			if err != nil {
				return err
			}

			if err := rt.app.Players.Edit(cmd.Context(), id, name, country); err != nil {
				return err
			}
			player, err := rt.app.Players.Get(cmd.Context(), id)
			if err != nil {
				return err
			}

			return rt.out.Message(player, "Updated player %d: %s from %s", player.ID, player.Name, player.Country)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "New name (required)")
	cmd.Flags().StringVar(&country, "country", "", "New country (required)")

	return cmd
}

func newPlayerDeleteCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a player; their matches are kept",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := model.ParsePlayerID(args[0])
			if err != nil {
				return err
			}

			if err := rt.app.Players.Delete(cmd.Context(), id); err != nil {
				return err
			}

			return rt.out.Message(map[string]int64{"deleted": int64(id)}, "Deleted player %d", id)
		},
	}
}

func newPlayerListCmd(rt *runtime) *cobra.Command {
	var id, code string
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List players",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			criterion := storage.All()
			switch {
			case id != "":
				pid, err := model.ParsePlayerID(id)
				if err != nil {
					return err
				}
				criterion = storage.ByID(int64(pid))
			case code != "":
				criterion = storage.ByCode(code)
			case cmd.Flags().Changed("limit"):
				if limit <= 0 {
					return model.NewValidationError("limit", "limit_positive", "must be a positive whole number")
				}
				criterion = storage.Limit(limit)
			}

			start := rt.clock.Now()
			players, err := rt.app.Players.List(cmd.Context(), criterion)
			if err != nil {
				return err
			}
			elapsed := rt.clock.Since(start)

			return rt.out.Success(players, func(w io.Writer) {
				t := NewTable(w, "#", "ID", "NAME", "COUNTRY", "CODE")
				for i, p := range players {
					t.Row(i+1, p.ID, p.Name, p.Country, p.Code)
				}
				t.Flush()
				printFooter(w, len(players), elapsed)
			})
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "Show only the player with this id")
	cmd.Flags().StringVar(&code, "code", "", "Show only the player with this code")
	cmd.Flags().IntVar(&limit, "limit", 0, "Show at most this many players")
	cmd.MarkFlagsMutuallyExclusive("id", "code", "limit")

	return cmd
}
