package cli

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	caldavSync "github.com/stagehandhq/stagehand/internal/sync/infrastructure/caldav"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Exchange blocks with external calendars",
}

var syncExportCmd = &cobra.Command{
	Use:   "export <artist-id>",
	Short: "Write an artist's blocks as an iCalendar feed",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		artistID, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid artist id: %w", err)
		}

		document, err := GetApp().Exporter.ExportICal(cmd.Context(), artistID)
		if err != nil {
			return err
		}

		if out, _ := cmd.Flags().GetString("out"); out != "" {
			if err := os.WriteFile(out, []byte(document), 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", out, err)
			}
			fmt.Printf("Wrote %s\n", out)
			return nil
		}
		fmt.Print(document)
		return nil
	},
}

var syncImportCmd = &cobra.Command{
	Use:   "import <artist-id> <file.ics>",
	Short: "Import blocks from an iCalendar file",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		artistID, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid artist id: %w", err)
		}

		f, err := os.Open(args[1])
		if err != nil {
			return fmt.Errorf("failed to open %s: %w", args[1], err)
		}
		defer f.Close()

		result, err := GetApp().Importer.ImportICS(cmd.Context(), artistID, f)
		if err != nil {
			return err
		}

		printImportResult(result.Imported, result.Skipped, len(result.Errors))
		for _, importErr := range result.Errors {
			fmt.Fprintln(os.Stderr, importErr.Error())
		}
		return nil
	},
}

var syncPullCmd = &cobra.Command{
	Use:   "pull <artist-id> <start> <end>",
	Short: "Pull events from the configured CalDAV calendar and import them",
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

		cfg := GetApp().Config
		if cfg.CalDAVURL == "" || cfg.CalDAVUsername == "" {
			return fmt.Errorf("caldav is not configured, set CALDAV_URL and CALDAV_USERNAME")
		}

		puller := caldavSync.NewPuller(cfg.CalDAVURL, cfg.CalDAVUsername, cfg.CalDAVPassword)
		if cfg.CalDAVPath != "" {
			puller = puller.WithCalendarPath(cfg.CalDAVPath)
		}

		events, err := puller.FetchEvents(cmd.Context(), start, end)
		if err != nil {
			return err
		}

		result, err := GetApp().Importer.ImportEvents(cmd.Context(), artistID, events)
		if err != nil {
			return err
		}

		printImportResult(result.Imported, result.Skipped, len(result.Errors))
		for _, importErr := range result.Errors {
			fmt.Fprintln(os.Stderr, importErr.Error())
		}
		return nil
	},
}

func printImportResult(imported, skipped, failed int) {
	fmt.Printf("Imported %d, skipped %d, failed %d\n", imported, skipped, failed)
}

func init() {
	syncExportCmd.Flags().String("out", "", "write the feed to a file instead of stdout")

	syncCmd.AddCommand(syncExportCmd)
	syncCmd.AddCommand(syncImportCmd)
	syncCmd.AddCommand(syncPullCmd)
	rootCmd.AddCommand(syncCmd)
}
