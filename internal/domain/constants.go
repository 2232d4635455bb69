package domain

import "strings"

// Settlement constants
const (
	LamportsDecimals   = 9 // 1 SOL = 10^9 lamports
	PriceLabelDecimals = 2
	AssetSymbol        = "SOL"
)

// Business validation constants
const (
	MaxNameLength    = 100
	MaxEmailLength   = 254
	MaxCallForLength = 280
)

// Time format constants
const (
	DisplayTimeFormat = "1/2/2006, 3:04:05 PM"
	APITimeFormat     = "2006-01-02T15:04:05Z07:00"
)

func trimmed(s string) string {
	return strings.TrimSpace(s)
}
