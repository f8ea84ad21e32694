package utils

import (
	"strings"

	"github.com/google/uuid"
)

// NewTraceID creates a compact, human-readable correlation ID.
// Format: {prefix}-{8charHexUUID}
//
// Example:
//   - Input: prefix="turn"
//   - Output: "turn-a3f8e2b1"
//
// Eight hex characters are enough to keep concurrent turns apart in logs
// without dragging a full UUID through every line.
func NewTraceID(prefix string) string {
	short := strings.ReplaceAll(uuid.New().String(), "-", "")[:8]
	if prefix == "" {
		return short
	}
	return prefix + "-" + short
}
