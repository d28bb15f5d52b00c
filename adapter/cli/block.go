package cli

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	availabilityCommands "github.com/stagehandhq/stagehand/internal/availability/application/commands"
	availabilityQueries "github.com/stagehandhq/stagehand/internal/availability/application/queries"
	availability "github.com/stagehandhq/stagehand/internal/availability/domain"
)

var blockCmd = &cobra.Command{
	Use:   "block",
	Short: "Manage an artist's blackout blocks",
}

var blockAddCmd = &cobra.Command{
	Use:   "add <artist-id> <start> <end> <reason>",
	Short: "Declare a blackout block, optionally recurring",
	Args:  cobra.ExactArgs(4),
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

		recurrence, err := recurrenceFromFlags(cmd)
		if err != nil {
			return err
		}

		result, err := GetApp().CreateBlock.Handle(cmd.Context(), availabilityCommands.CreateBlockCommand{
			ArtistID:   artistID,
			StartDate:  start,
			EndDate:    end,
			Reason:     args[3],
			Recurrence: recurrence,
		})
		if err != nil {
			return err
		}

		fmt.Printf("Created block %s\n", result.BlockID)
		return nil
	},
}

var blockListCmd = &cobra.Command{
	Use:   "list <artist-id>",
	Short: "List an artist's blocks",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		artistID, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid artist id: %w", err)
		}

		blocks, err := GetApp().ListBlocks.Handle(cmd.Context(), availabilityQueries.ListBlocksQuery{ArtistID: artistID})
		if err != nil {
			return err
		}

		if len(blocks) == 0 {
			fmt.Println("No blocks.")
			return nil
		}
		for _, block := range blocks {
			line := fmt.Sprintf("%s  %s..%s  %s",
				block.ID(),
				block.StartDate().Format(dateLayout),
				block.EndDate().Format(dateLayout),
				block.Reason())
			if rec := block.Recurrence(); rec != nil {
				line += fmt.Sprintf("  (recurs %s)", rec.Pattern)
			}
			fmt.Println(line)
		}
		return nil
	},
}

var blockDeleteCmd = &cobra.Command{
	Use:   "delete <artist-id> <block-id>",
	Short: "Delete a block",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		artistID, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid artist id: %w", err)
		}
		blockID, err := uuid.Parse(args[1])
		if err != nil {
			return fmt.Errorf("invalid block id: %w", err)
		}

		deleted, err := GetApp().DeleteBlock.Handle(cmd.Context(), availabilityCommands.DeleteBlockCommand{
			ArtistID: artistID,
			BlockID:  blockID,
		})
		if err != nil {
			return err
		}

		if deleted {
			fmt.Println("Block deleted.")
		} else {
			fmt.Println("No such block.")
		}
		return nil
	},
}

var blockRangesCmd = &cobra.Command{
	Use:   "ranges <artist-id> <start> <end>",
	Short: "Show blocked ranges in a window, recurrences expanded",
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

		ranges, err := GetApp().GetBlockedRanges.Handle(cmd.Context(), availabilityQueries.GetBlockedRangesQuery{
			ArtistID: artistID,
			Start:    start,
			End:      end,
		})
		if err != nil {
			return err
		}

		if len(ranges) == 0 {
			fmt.Println("No blocked ranges in window.")
			return nil
		}
		for _, rng := range ranges {
			fmt.Printf("%s..%s  %s\n", rng.Start.Format(dateLayout), rng.End.Format(dateLayout), rng.Reason)
		}
		return nil
	},
}

func recurrenceFromFlags(cmd *cobra.Command) (*availability.Recurrence, error) {
	pattern, _ := cmd.Flags().GetString("recur")
	if pattern == "" {
		return nil, nil
	}

	recurrence := &availability.Recurrence{Pattern: availability.RecurrencePattern(pattern)}

	if until, _ := cmd.Flags().GetString("recur-until"); until != "" {
		end, err := parseDate(until)
		if err != nil {
			return nil, err
		}
		recurrence.EndDate = &end
	}
	if days, _ := cmd.Flags().GetIntSlice("recur-days"); len(days) > 0 {
		for _, d := range days {
			recurrence.DaysOfWeek = append(recurrence.DaysOfWeek, time.Weekday(d))
		}
	}
	return recurrence, nil
}

func init() {
	blockAddCmd.Flags().String("recur", "", "recurrence pattern: daily, weekly or monthly")
	blockAddCmd.Flags().String("recur-until", "", "last date the recurrence applies (YYYY-MM-DD)")
	blockAddCmd.Flags().IntSlice("recur-days", nil, "weekdays for weekly recurrence (0=Sunday)")

	blockCmd.AddCommand(blockAddCmd)
	blockCmd.AddCommand(blockListCmd)
	blockCmd.AddCommand(blockDeleteCmd)
	blockCmd.AddCommand(blockRangesCmd)
	rootCmd.AddCommand(blockCmd)
}
