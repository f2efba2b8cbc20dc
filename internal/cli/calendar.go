package cli

import (
	"time"

	"skillsync/internal/catalog"
	"skillsync/internal/common"
	"skillsync/internal/errors"

	"github.com/spf13/cobra"
)

var calendarCmd = &cobra.Command{
	Use:   "calendar",
	Short: "Show the learning calendar for a month",
	Long: `Print a month grid of the learning calendar with its scheduled events.
The current month is shown unless --month (YYYY-MM) is given.`,
	Args: cobra.NoArgs,
	RunE: runCalendar,
}

var (
	calendarConfig common.CommandConfig
	calendarMonth  string
)

// now is replaced in tests
var now = time.Now

func init() {
	addOutputFlags(calendarCmd, &calendarConfig)
	calendarCmd.Flags().StringVar(&calendarMonth, "month", "", "Month to show, formatted as YYYY-MM (default: current month)")
}

func runCalendar(cmd *cobra.Command, args []string) error {
	logger := getLoggerFromContext(cmd.Context())

	cmdConfig, err := resolveOutput(cmd, calendarConfig)
	if err != nil {
		return err
	}

	today := now()
	ym := catalog.YearMonth{Year: today.Year(), Month: today.Month()}
	if calendarMonth != "" {
		ym, err = catalog.ParseYearMonth(calendarMonth)
		if err != nil {
			return errors.NewValidationError(errors.ErrCodeInvalidInput, "--month must be formatted as YYYY-MM", err)
		}
	}

	cat, err := loadCatalog()
	if err != nil {
		return err
	}

	return common.NewOutputHandlerTo(cmd.OutOrStdout(), logger).HandleOutput(cat.Month(ym, today), cmdConfig)
}
