// Package search ranks stored documents against free-text queries and
// serves prefix suggestions. It only reads from storage and runs inside
// request handlers, concurrently with the single crawler writer.
package search

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strings"

	"webseek/internal/storage"
	"webseek/internal/tokenizer"
	"webseek/pkg/config"
)

// Index is the read-side storage capability the engine depends on.
type Index interface {
	MatchesForTerm(ctx context.Context, term string, snippetLen int) ([]storage.TermMatch, error)
	TermsWithPrefix(ctx context.Context, prefix string, limit int) ([]string, error)
	SearchImages(ctx context.Context, query string, limit int) ([]storage.Image, error)
}

// Result is one ranked search hit.
type Result struct {
	URL     string  `json:"url"`
	Title   string  `json:"title"`
	Snippet string  `json:"snippet"`
	Score   float64 `json:"score"`
}

// Engine scores candidate documents with a deterministic heuristic: term
// density scaled by popularity, dominated by literal title and URL matches.
type Engine struct {
	index  Index
	cfg    config.SearchConfig
	logger *slog.Logger
}

func NewEngine(index Index, cfg config.SearchConfig) *Engine {
	return &Engine{
		index:  index,
		cfg:    cfg,
		logger: slog.Default().With("component", "search"),
	}
}

type docScore struct {
	result Result
	score  float64
	order  int
}

// Search returns up to PageSize results ranked highest score first. An
// empty or stop-word-only query yields an empty result, never an error.
func (e *Engine) Search(ctx context.Context, query string) ([]Result, error) {
	terms := tokenizer.QueryTerms(query)
	if len(terms) == 0 {
		return nil, nil
	}
	queryLower := strings.ToLower(strings.TrimSpace(query))

	scores := make(map[int64]*docScore)
	for _, term := range terms {
		matches, err := e.index.MatchesForTerm(ctx, term, e.cfg.SnippetLength)
		if err != nil {
			return nil, fmt.Errorf("looking up term %q: %w", term, err)
		}
		for _, m := range matches {
			contribution := e.scoreMatch(term, queryLower, m)
			if ds, ok := scores[m.DocID]; ok {
				ds.score += contribution
				continue
			}
			title := m.Title
			if title == "" {
				title = m.URL
			}
			scores[m.DocID] = &docScore{
				result: Result{
					URL:     m.URL,
					Title:   title,
					Snippet: m.Snippet,
				},
				score: contribution,
				order: len(scores),
			}
		}
	}

	ranked := make([]*docScore, 0, len(scores))
	for _, ds := range scores {
		ranked = append(ranked, ds)
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].score != ranked[j].score {
			return ranked[i].score > ranked[j].score
		}
		return ranked[i].order < ranked[j].order
	})
	if len(ranked) > e.cfg.PageSize {
		ranked = ranked[:e.cfg.PageSize]
	}

	results := make([]Result, len(ranked))
	for i, ds := range ranked {
		ds.result.Score = ds.score
		results[i] = ds.result
	}
	e.logger.Debug("query ranked", "query", query, "terms", terms, "candidates", len(scores), "returned", len(results))
	return results, nil
}

// scoreMatch computes one term's contribution for one document:
//
//	frequency / (contentKB + 1) * ln(popularity + 1)
//
// then stacks the multiplicative bonuses. Literal title and URL matches
// dominate by design; frequency acts as a tiebreaker among the rest.
func (e *Engine) scoreMatch(term, queryLower string, m storage.TermMatch) float64 {
	contentKB := float64(m.ContentLength) / 1024
	score := float64(m.Frequency) / (contentKB + 1) * math.Log(float64(m.Popularity)+1)

	titleLower := strings.ToLower(m.Title)
	if strings.Contains(titleLower, term) {
		score *= e.cfg.TitleTermBonus
	}
	if queryLower != "" {
		if strings.Contains(titleLower, queryLower) {
			score *= e.cfg.TitleQueryBonus
		}
		if strings.Contains(strings.ToLower(m.URL), queryLower) {
			score *= e.cfg.URLQueryBonus
		}
	}
	return score
}

// SearchImages returns images whose alt text contains the query.
func (e *Engine) SearchImages(ctx context.Context, query string) ([]storage.Image, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}
	images, err := e.index.SearchImages(ctx, query, e.cfg.ImageLimit)
	if err != nil {
		return nil, fmt.Errorf("searching images: %w", err)
	}
	return images, nil
}
