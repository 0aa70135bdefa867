package search

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"webseek/internal/storage"
)

// Suggest returns up to SuggestLimit distinct indexed terms starting with
// the lowercased prefix. Prefixes shorter than two runes return nothing.
func (e *Engine) Suggest(ctx context.Context, prefix string) ([]string, error) {
	prefix = strings.ToLower(strings.TrimSpace(prefix))
	if utf8.RuneCountInString(prefix) < storage.MinPrefixLength {
		return nil, nil
	}
	terms, err := e.index.TermsWithPrefix(ctx, prefix, e.cfg.SuggestLimit)
	if err != nil {
		return nil, fmt.Errorf("suggesting for prefix %q: %w", prefix, err)
	}
	return terms, nil
}
