package utils

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var sizePattern = regexp.MustCompile(`^\s*(\d+(?:\.\d+)?)\s*([kKmMgGtT]?[iI]?[bB]?)?\s*$`)

// ParseBytes parses a byte size string like "4MB", "500KiB", "2G".
// Units are binary: K, KB and KiB all mean 1024.
func ParseBytes(s string) (int64, error) {
	if strings.TrimSpace(s) == "" {
		return 0, nil
	}

	matches := sizePattern.FindStringSubmatch(s)
	if matches == nil {
		return 0, fmt.Errorf("invalid size: %s", s)
	}

	val, err := strconv.ParseFloat(matches[1], 64)
	if err != nil {
		return 0, err
	}

	unit := strings.ToLower(matches[2])
	unit = strings.TrimSuffix(unit, "b")
	unit = strings.TrimSuffix(unit, "i")
	multiplier := int64(1)

	switch unit {
	case "":
	case "k":
		multiplier = 1024
	case "m":
		multiplier = 1024 * 1024
	case "g":
		multiplier = 1024 * 1024 * 1024
	case "t":
		multiplier = 1024 * 1024 * 1024 * 1024
	default:
		return 0, fmt.Errorf("invalid size unit: %s", s)
	}

	return int64(val * float64(multiplier)), nil
}

// HumanBytes converts bytes to a human-readable string with binary prefixes, e.g. "1.5MiB".
func HumanBytes(n int64) string {
	units := []string{"", "Ki", "Mi", "Gi", "Ti", "Pi", "Ei"}
	i := 0
	val := float64(n)

	for (val >= 1024 || val <= -1024) && i < len(units)-1 {
		val /= 1024
		i++
	}

	return fmt.Sprintf("%.1f%sB", val, units[i])
}
