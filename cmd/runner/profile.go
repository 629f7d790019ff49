package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/pingu-runner/internal/profile"
	"github.com/vovakirdan/pingu-runner/internal/storage"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Show or edit the player profile",
	Long: `Show the profile of --user, or change it with a subcommand.

Examples:
  runner profile
  runner profile --user alice set-name Alice
  runner profile skin emperor
  runner profile claim`,
	Args: cobra.NoArgs,
	Run:  runProfileShow,
}

var profileNameCmd = &cobra.Command{
	Use:   "set-name <name>",
	Short: "Change the display name",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		withProfile(func(p *profile.Profile) error {
			if err := p.SetUsername(args[0]); err != nil {
				return err
			}
			fmt.Printf("Name set to %s\n", p.Username())
			return nil
		})
	},
}

var profileSkinCmd = &cobra.Command{
	Use:   "skin [id]",
	Short: "List skins or select one",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		withProfile(func(p *profile.Profile) error {
			if len(args) == 1 {
				if err := p.SelectSkin(args[0]); err != nil {
					return err
				}
			}
			current := p.Skin().ID
			for _, s := range p.Skins() {
				mark := " "
				if s.ID == current {
					mark = "*"
				}
				fmt.Printf(" %s %-12s %s\n", mark, s.ID, s.Name)
			}
			return nil
		})
	},
}

var profileClaimCmd = &cobra.Command{
	Use:   "claim",
	Short: "Claim today's reward",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		withProfile(func(p *profile.Profile) error {
			reward, err := p.ClaimDailyReward(time.Now())
			if errors.Is(err, profile.ErrAlreadyClaimed) {
				fmt.Println("Today's reward was already claimed.")
				return nil
			}
			if err != nil {
				return err
			}
			fmt.Printf("+%d coins (balance %d)\n", reward, p.Coins())
			return nil
		})
	},
}

func init() {
	profileCmd.AddCommand(profileNameCmd)
	profileCmd.AddCommand(profileSkinCmd)
	profileCmd.AddCommand(profileClaimCmd)
}

func runProfileShow(cmd *cobra.Command, args []string) {
	withProfile(func(p *profile.Profile) error {
		fmt.Printf("Name:      %s\n", p.Username())
		fmt.Printf("Highscore: %d\n", p.Highscore())
		fmt.Printf("Coins:     %d\n", p.Coins())
		fmt.Printf("Skin:      %s\n", p.Skin().Name)
		return nil
	})
}

// withProfile opens the database, loads the profile of --user and runs fn.
func withProfile(fn func(p *profile.Profile) error) {
	cfg := loadConfig()

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening profile database: %v\n", err)
		os.Exit(1)
	}

	p, err := profile.Load(store.ForUser(flagUser), cfg.Profile)
	if err == nil {
		err = fn(p)
	}
	store.Close()

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
