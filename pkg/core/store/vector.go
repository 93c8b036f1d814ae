package store

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseVectorLiteral decodes a pgvector text literal like "[0.1,0.2,0.3]"
// into a float32 slice. An empty literal ("[]") yields an empty slice.
func ParseVectorLiteral(literal string) ([]float32, error) {
	trimmed := strings.TrimSpace(literal)
	if !strings.HasPrefix(trimmed, "[") || !strings.HasSuffix(trimmed, "]") {
		return nil, fmt.Errorf("not a vector literal: %q", truncateForError(literal))
	}

	inner := strings.TrimSpace(trimmed[1 : len(trimmed)-1])
	if inner == "" {
		return []float32{}, nil
	}

	parts := strings.Split(inner, ",")
	vec := make([]float32, len(parts))
	for i, part := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 32)
		if err != nil {
			return nil, fmt.Errorf("bad vector component at index %d: %w", i, err)
		}
		vec[i] = float32(v)
	}
	return vec, nil
}

// FormatVectorLiteral encodes a float32 slice as a pgvector text literal.
func FormatVectorLiteral(vec []float32) string {
	var b strings.Builder
	b.WriteByte('[')
	for i, v := range vec {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.FormatFloat(float64(v), 'g', -1, 32))
	}
	b.WriteByte(']')
	return b.String()
}

func truncateForError(s string) string {
	if len(s) > 40 {
		return s[:40] + "..."
	}
	return s
}
