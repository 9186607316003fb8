package model

import (
	"fmt"
	"strings"
)

// Variant selects how a planning instance is derived and serialized.
type Variant string

const (
	// VariantNumeric is the compact form with epoch-second times.
	VariantNumeric Variant = "numeric"
	// VariantTimestamp is the ISO-timestamp form carrying additional scheduling metadata.
	VariantTimestamp Variant = "timestamp"
)

// ParseVariant parses a variant name (case-insensitive).
func ParseVariant(s string) (Variant, error) {
	switch Variant(strings.ToLower(strings.TrimSpace(s))) {
	case VariantNumeric:
		return VariantNumeric, nil
	case VariantTimestamp:
		return VariantTimestamp, nil
	default:
		return "", fmt.Errorf("unknown variant %q", s)
	}
}

// Rules are the derivation differences between variants.
type Rules struct {
	// AnchorDefaultsToPresent replaces a missing minimum-production anchor with the present time.
	AnchorDefaultsToPresent bool
	// ClampAnchorToPresent raises past anchors of orders not in progress to the present time.
	ClampAnchorToPresent bool
	// CompletionQuantity replaces the quantity of in-progress orders with the last completed quantity.
	CompletionQuantity bool
	// InferRunningWindows projects the remaining time of running jobs as machine unavailability.
	InferRunningWindows bool
	// IncludeCurrentSchedule attaches the most recent stored schedule.
	IncludeCurrentSchedule bool
}

// RulesFor returns the derivation rules of v.
func RulesFor(v Variant) Rules {
	if v == VariantTimestamp {
		return Rules{
			AnchorDefaultsToPresent: true,
			ClampAnchorToPresent:    true,
			CompletionQuantity:      true,
			InferRunningWindows:     true,
			IncludeCurrentSchedule:  true,
		}
	}
	return Rules{}
}
