package cmd

import (
	"fmt"

	"github.com/papapumpkin/tabula/internal/timegrid"
)

func parseDayArg(s string) (timegrid.Day, error) {
	if s == "" {
		return 0, fmt.Errorf("--day is required (Monday..Sunday)")
	}
	return timegrid.ParseDay(s)
}

func parseClockArg(s string) (timegrid.Minutes, error) {
	if s == "" {
		return 0, fmt.Errorf("time is required (HH:MM)")
	}
	return timegrid.ParseClock(s)
}
