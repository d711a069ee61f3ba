package cli

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"tradeJournal/internal/domain"
	"tradeJournal/internal/ports"
)

const dayLayout = "2006-01-02"

// rangeFlags holds the --from / --to flags shared by trade and analytics commands.
type rangeFlags struct {
	from string
	to   string
}

func (r *rangeFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&r.from, "from", "", "start of range, YYYY-MM-DD or RFC3339 (inclusive)")
	cmd.Flags().StringVar(&r.to, "to", "", "end of range, YYYY-MM-DD or RFC3339 (inclusive)")
}

// dateRange parses the flags. Bare dates are calendar days in loc, and a
// bare date in --to covers the whole day.
func (r *rangeFlags) dateRange(loc *time.Location) (domain.DateRange, error) {
	var rng domain.DateRange
	if r.from != "" {
		t, _, err := parseTime(r.from, loc)
		if err != nil {
			return rng, fmt.Errorf("--from: %w", err)
		}
		rng.From = &t
	}
	if r.to != "" {
		t, dateOnly, err := parseTime(r.to, loc)
		if err != nil {
			return rng, fmt.Errorf("--to: %w", err)
		}
		if dateOnly {
			t = t.AddDate(0, 0, 1).Add(-time.Nanosecond)
		}
		rng.To = &t
	}
	return rng, nil
}

func parseTime(s string, loc *time.Location) (t time.Time, dateOnly bool, err error) {
	if t, err := time.ParseInLocation(dayLayout, s, loc); err == nil {
		return t, true, nil
	}
	t, err = time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("invalid time %q, want YYYY-MM-DD or RFC3339: %w", s, ports.ErrInvalidRequest)
	}
	return t.UTC(), false, nil
}

func parseID(kind, s string) (uuid.UUID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid %s id %q: %w", kind, s, ports.ErrInvalidRequest)
	}
	return id, nil
}
