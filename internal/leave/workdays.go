package leave

import (
	"time"

	"github.com/shopspring/decimal"
)

var halfDayCount = decimal.NewFromFloat(0.5)

// CountChargeableDays computes how many leave units a request consumes.
//
// Half-day requests are always exactly 0.5, regardless of dates. Full-day
// requests count every calendar date from start to end inclusive, except
// Sundays and dates present in the holiday set (keyed YYYY-MM-DD). Saturday
// is a working day here: only Sunday is the weekly non-working day. A result
// of zero means the range holds no chargeable days and the request must be
// rejected by the caller.
func CountChargeableDays(startDate, endDate time.Time, duration string, holidays map[string]struct{}) decimal.Decimal {
	if duration == DurationHalfDay {
		return halfDayCount
	}

	var days int64
	for d := startDate; !d.After(endDate); d = d.AddDate(0, 0, 1) {
		if d.Weekday() == time.Sunday {
			continue
		}
		if _, isHoliday := holidays[d.Format(dateLayout)]; isHoliday {
			continue
		}
		days++
	}

	return decimal.NewFromInt(days)
}
