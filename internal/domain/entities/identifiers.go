package entities

import (
	"fmt"
	"strconv"
	"strings"
)

// NextSequentialID returns prefix followed by one more than the largest
// numeric suffix in ids, zero padded to three digits. Ids that do not carry
// prefix or a numeric suffix are ignored.
func NextSequentialID(prefix string, ids []string) string {
	return fmt.Sprintf("%s%03d", prefix, maxSequence(prefix, ids)+1)
}

// HighestSequentialID returns the id in ids with the largest numeric suffix,
// or "" when none carries prefix.
func HighestSequentialID(prefix string, ids []string) string {
	n := maxSequence(prefix, ids)
	if n == 0 {
		return ""
	}
	return fmt.Sprintf("%s%03d", prefix, n)
}

func maxSequence(prefix string, ids []string) int {
	max := 0
	for _, id := range ids {
		suffix, ok := strings.CutPrefix(id, prefix)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(suffix)
		if err != nil {
			continue
		}
		if n > max {
			max = n
		}
	}
	return max
}
