package cli

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	bookingCommands "github.com/stagehandhq/stagehand/internal/booking/application/commands"
	bookingQueries "github.com/stagehandhq/stagehand/internal/booking/application/queries"
	booking "github.com/stagehandhq/stagehand/internal/booking/domain"
)

var bookingCmd = &cobra.Command{
	Use:   "booking",
	Short: "Create bookings and drive them through their lifecycle",
}

var bookingCreateCmd = &cobra.Command{
	Use:   "create <artist-id> <venue-id> <date>",
	Short: "Request a booking; fails when the date is not admissible",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		artistID, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid artist id: %w", err)
		}
		venueID, err := uuid.Parse(args[1])
		if err != nil {
			return fmt.Errorf("invalid venue id: %w", err)
		}
		eventDate, err := parseDate(args[2])
		if err != nil {
			return err
		}

		var eventEndDate time.Time
		if until, _ := cmd.Flags().GetString("until"); until != "" {
			eventEndDate, err = parseDate(until)
			if err != nil {
				return err
			}
		}
		notes, _ := cmd.Flags().GetString("notes")

		result, err := GetApp().CreateBooking.Handle(cmd.Context(), bookingCommands.CreateBookingCommand{
			ArtistID:     artistID,
			VenueID:      venueID,
			EventDate:    eventDate,
			EventEndDate: eventEndDate,
			Notes:        notes,
		})
		if err != nil {
			return err
		}

		fmt.Printf("Created booking %s (%s)\n", result.ID(), result.Status())
		return nil
	},
}

var bookingStatusCmd = &cobra.Command{
	Use:   "status <booking-id> <status>",
	Short: "Move a booking to confirmed, cancelled or completed",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		bookingID, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid booking id: %w", err)
		}

		result, err := GetApp().UpdateBookingStatus.Handle(cmd.Context(), bookingCommands.UpdateBookingStatusCommand{
			BookingID: bookingID,
			Status:    booking.Status(args[1]),
		})
		if err != nil {
			return err
		}

		fmt.Printf("Booking %s is now %s\n", result.ID(), result.Status())
		return nil
	},
}

var bookingShowCmd = &cobra.Command{
	Use:   "show <booking-id>",
	Short: "Show one booking",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		bookingID, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid booking id: %w", err)
		}

		result, err := GetApp().GetBooking.Handle(cmd.Context(), bookingQueries.GetBookingQuery{BookingID: bookingID})
		if err != nil {
			return err
		}

		printBooking(result)
		return nil
	},
}

var bookingListCmd = &cobra.Command{
	Use:   "list",
	Short: "List bookings for an artist or a venue",
	RunE: func(cmd *cobra.Command, args []string) error {
		query := bookingQueries.ListBookingsQuery{}
		if v, _ := cmd.Flags().GetString("artist"); v != "" {
			artistID, err := uuid.Parse(v)
			if err != nil {
				return fmt.Errorf("invalid artist id: %w", err)
			}
			query.ArtistID = artistID
		}
		if v, _ := cmd.Flags().GetString("venue"); v != "" {
			venueID, err := uuid.Parse(v)
			if err != nil {
				return fmt.Errorf("invalid venue id: %w", err)
			}
			query.VenueID = venueID
		}

		results, err := GetApp().ListBookings.Handle(cmd.Context(), query)
		if err != nil {
			return err
		}

		if len(results) == 0 {
			fmt.Println("No bookings.")
			return nil
		}
		for _, b := range results {
			printBooking(b)
		}
		return nil
	},
}

func printBooking(b *booking.Booking) {
	span := b.EventDate().Format(dateLayout)
	if !b.EventEndDate().Equal(b.EventDate()) {
		span += ".." + b.EventEndDate().Format(dateLayout)
	}
	fmt.Printf("%s  %s  artist=%s venue=%s  %s\n",
		b.ID(), span, b.ArtistID(), b.VenueID(), b.Status())
}

func init() {
	bookingCreateCmd.Flags().String("until", "", "last event date for multi-day bookings (YYYY-MM-DD)")
	bookingCreateCmd.Flags().String("notes", "", "optional booking notes")
	bookingListCmd.Flags().String("artist", "", "filter by artist id")
	bookingListCmd.Flags().String("venue", "", "filter by venue id")

	bookingCmd.AddCommand(bookingCreateCmd)
	bookingCmd.AddCommand(bookingStatusCmd)
	bookingCmd.AddCommand(bookingShowCmd)
	bookingCmd.AddCommand(bookingListCmd)
	rootCmd.AddCommand(bookingCmd)
}
