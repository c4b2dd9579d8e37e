// Package content serves the fixed lesson documents behind the /arabic and
// /darija endpoints.
package content

import (
	"context"
	"encoding/json"
	"fmt"
)

// Lesson keys. Each maps to one JSON object document.
const (
	KeyArabicFirstLesson = "arabic/first-lesson"
	KeyArabicAlphabets   = "arabic/alphabets"
	KeyDarijaMarhban     = "darija/words/marhban"
	KeyDarijaAhlan       = "darija/words/ahlan"
)

// Keys lists every lesson the server exposes.
var Keys = []string{
	KeyArabicFirstLesson,
	KeyArabicAlphabets,
	KeyDarijaMarhban,
	KeyDarijaAhlan,
}

// Store returns the document stored under key. Unknown keys yield
// common.ErrorNotFound.
type Store interface {
	Get(ctx context.Context, key string) (map[string]any, error)
}

func decodeDocument(key string, raw []byte) (map[string]any, error) {
	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode %s: %w", key, err)
	}
	if doc == nil {
		return nil, fmt.Errorf("decode %s: document is not a JSON object", key)
	}
	return doc, nil
}
