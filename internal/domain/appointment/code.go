package appointment

import (
	"math/rand"
	"strconv"
)

// Confirmation codes are short human-readable booking identifiers.
// The space is 900 values; uniqueness is only required among future
// appointments, so past codes get recycled.
const (
	CodeMin = 100
	CodeMax = 999

	// MaxCodeAttempts bounds the allocation loop so a nearly
	// exhausted code space fails instead of spinning.
	MaxCodeAttempts = 50
)

func RandomCode() string {
	return strconv.Itoa(CodeMin + rand.Intn(CodeMax-CodeMin+1))
}
