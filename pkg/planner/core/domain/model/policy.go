package model

import (
	"fmt"
	"time"
)

// ClockTime is a wall-clock time of day.
type ClockTime struct {
	Hour   int
	Minute int
}

// ParseClockTime parses "HH:MM".
func ParseClockTime(s string) (ClockTime, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return ClockTime{}, fmt.Errorf("invalid clock time %q: %w", s, err)
	}
	return ClockTime{Hour: t.Hour(), Minute: t.Minute()}, nil
}

// String formats the clock time as "HH:MM".
func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

// On returns the instant of c on the calendar day of t, in t's location.
func (c ClockTime) On(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), c.Hour, c.Minute, 0, 0, t.Location())
}

// ShiftPolicy describes the two daily shift boundaries.
type ShiftPolicy struct {
	DayShiftEnd      ClockTime
	NightShiftEnd    ClockTime
	FrequencyMinutes int
}

// OperationalProfile holds the fixed scheduling tables attached to timestamp instances.
type OperationalProfile struct {
	StorageMapping   map[string]string
	MaxWaitTimes     map[string]int
	ObjectiveRanking map[string]int
}

// Policy is the per-run configuration threaded into the synthesis pipeline.
type Policy struct {
	// SentinelWorkstation pads short routes; it must never be a real workstation code.
	SentinelWorkstation string
	SentinelCycleTime   float64
	SentinelMinBatch    float64

	// LimitWorkOrders restricts scope to WorkOrderAllowList. An empty list then means an empty scope.
	LimitWorkOrders    bool
	WorkOrderAllowList []string

	// TimeUnitSeconds is the length of one instance time unit.
	TimeUnitSeconds float64
	MaxProcTime     int
	Location        *time.Location
	Shift           ShiftPolicy
	Operations      OperationalProfile
}

// DefaultPolicy returns the built-in policy.
func DefaultPolicy() Policy {
	return Policy{
		SentinelWorkstation: "FAKE",
		SentinelCycleTime:   0.01,
		SentinelMinBatch:    100,
		TimeUnitSeconds:     60,
		MaxProcTime:         75000,
		Location:            time.UTC,
		Shift: ShiftPolicy{
			DayShiftEnd:      ClockTime{Hour: 19, Minute: 30},
			NightShiftEnd:    ClockTime{Hour: 7, Minute: 30},
			FrequencyMinutes: 720,
		},
		Operations: OperationalProfile{
			StorageMapping:   map[string]string{},
			MaxWaitTimes:     map[string]int{},
			ObjectiveRanking: map[string]int{},
		},
	}
}
