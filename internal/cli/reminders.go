package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/stwalsh4118/rms/internal/models"
)

func newSendRemindersCmd() *cobra.Command {
	var flagDate string

	cmd := &cobra.Command{
		Use:   "send-reminders",
		Short: "E-mail every tenant whose rent is due on a date",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := reminderDate(flagDate, time.Now())
			if err != nil {
				return err
			}

			a, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			sent, err := a.Reminders.SendDueRentReminders(cmd.Context(), date)
			fmt.Fprintf(cmd.OutOrStdout(), "Sent %d reminder(s) for %s\n", sent, models.FormatDate(date))
			return err
		},
	}

	cmd.Flags().StringVar(&flagDate, "date", "", "due date to remind for, YYYY-MM-DD (default: today)")

	return cmd
}

// reminderDate parses the --date flag, defaulting to the date of now.
func reminderDate(flag string, now time.Time) (time.Time, error) {
	if flag == "" {
		return models.DateOf(now), nil
	}
	date, err := time.Parse(time.DateOnly, flag)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --date %q: expected YYYY-MM-DD", flag)
	}
	return date, nil
}
