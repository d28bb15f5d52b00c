package cli

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	availabilityCommands "github.com/stagehandhq/stagehand/internal/availability/application/commands"
	availabilityQueries "github.com/stagehandhq/stagehand/internal/availability/application/queries"
	availability "github.com/stagehandhq/stagehand/internal/availability/domain"
)

var availabilityCmd = &cobra.Command{
	Use:   "availability",
	Short: "Manage an artist's explicit calendar entries",
}

var availabilitySetCmd = &cobra.Command{
	Use:   "set <artist-id> <date> <status>",
	Short: "Set an explicit status (available, booked, unavailable) for a date",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		artistID, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid artist id: %w", err)
		}
		date, err := parseDate(args[1])
		if err != nil {
			return err
		}
		notes, _ := cmd.Flags().GetString("notes")

		entry, err := GetApp().SetAvailability.Handle(cmd.Context(), availabilityCommands.SetAvailabilityCommand{
			ArtistID: artistID,
			Date:     date,
			Status:   availability.EntryStatus(args[2]),
			Notes:    notes,
		})
		if err != nil {
			return err
		}

		fmt.Printf("Set %s to %s\n", entry.Date.Format(dateLayout), entry.Status)
		return nil
	},
}

var availabilityClearCmd = &cobra.Command{
	Use:   "clear <artist-id> <date>",
	Short: "Remove the explicit entry for a date",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		artistID, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid artist id: %w", err)
		}
		date, err := parseDate(args[1])
		if err != nil {
			return err
		}

		if err := GetApp().ClearAvailability.Handle(cmd.Context(), availabilityCommands.ClearAvailabilityCommand{
			ArtistID: artistID,
			Date:     date,
		}); err != nil {
			return err
		}

		fmt.Printf("Cleared %s\n", date.Format(dateLayout))
		return nil
	},
}

var availabilityShowCmd = &cobra.Command{
	Use:   "show <artist-id> <start> <end>",
	Short: "Show explicit entries in a date window",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		artistID, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid artist id: %w", err)
		}
		start, err := parseDate(args[1])
		if err != nil {
			return err
		}
		end, err := parseDate(args[2])
		if err != nil {
			return err
		}

		entries, err := GetApp().GetAvailability.Handle(cmd.Context(), availabilityQueries.GetAvailabilityQuery{
			ArtistID: artistID,
			Start:    start,
			End:      end,
		})
		if err != nil {
			return err
		}

		if len(entries) == 0 {
			fmt.Println("No explicit entries in window.")
			return nil
		}
		for _, entry := range entries {
			line := fmt.Sprintf("%s  %-12s", entry.Date.Format(dateLayout), entry.Status)
			if entry.Notes != "" {
				line += "  " + entry.Notes
			}
			fmt.Println(line)
		}
		return nil
	},
}

func init() {
	availabilitySetCmd.Flags().String("notes", "", "optional note for the entry")

	availabilityCmd.AddCommand(availabilitySetCmd)
	availabilityCmd.AddCommand(availabilityClearCmd)
	availabilityCmd.AddCommand(availabilityShowCmd)
	rootCmd.AddCommand(availabilityCmd)
}
