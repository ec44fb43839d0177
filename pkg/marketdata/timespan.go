package marketdata

import (
	"github.com/polygon-io/client-go/rest/models"

	enginev1 "github.com/mkhv12/stk-advisor/internal/backtest/engine/engine_v1"
)

// Timespan is a bar interval such as "5m", "1h" or "1d".
type Timespan string

const (
	TimespanOneMinute      Timespan = "1m"
	TimespanFiveMinutes    Timespan = "5m"
	TimespanFifteenMinutes Timespan = "15m"
	TimespanThirtyMinutes  Timespan = "30m"
	TimespanOneHour        Timespan = "1h"
	TimespanFourHours      Timespan = "4h"
	TimespanOneDay         Timespan = "1d"
	TimespanOneWeek        Timespan = "1w"
	TimespanOneMonth       Timespan = "1M"
)

type timespanSpec struct {
	multiplier int
	unit       models.Timespan
	profile    string
}

var timespans = map[Timespan]timespanSpec{
	TimespanOneMinute:      {1, models.Minute, enginev1.ProfileMinute},
	TimespanFiveMinutes:    {5, models.Minute, enginev1.ProfileMinute},
	TimespanFifteenMinutes: {15, models.Minute, enginev1.ProfileMinute},
	TimespanThirtyMinutes:  {30, models.Minute, enginev1.ProfileMinute},
	TimespanOneHour:        {1, models.Hour, enginev1.ProfileHour},
	TimespanFourHours:      {4, models.Hour, enginev1.ProfileHour},
	TimespanOneDay:         {1, models.Day, enginev1.ProfileDay},
	TimespanOneWeek:        {1, models.Week, enginev1.ProfileDay},
	TimespanOneMonth:       {1, models.Month, enginev1.ProfileDay},
}

// IsValid reports whether t is a supported interval.
func (t Timespan) IsValid() bool {
	_, ok := timespans[t]

	return ok
}

// Multiplier returns the number of units per bar, 1 for unknown intervals.
func (t Timespan) Multiplier() int {
	if spec, ok := timespans[t]; ok {
		return spec.multiplier
	}

	return 1
}

// Timespan returns the polygon unit of the interval, day for unknown intervals.
func (t Timespan) Timespan() models.Timespan {
	if spec, ok := timespans[t]; ok {
		return spec.unit
	}

	return models.Day
}

// Profile returns the name of the default weight profile tuned for bars of this interval.
func (t Timespan) Profile() string {
	if spec, ok := timespans[t]; ok {
		return spec.profile
	}

	return enginev1.ProfileDay
}
