package tokenizer

import (
	"reflect"
	"testing"
)

func TestTokenizeDropsShortRuns(t *testing.T) {
	got := Tokenize("ab cat dog123 ок")
	want := map[string]int{"cat": 1, "dog123": 1}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Tokenize() = %v, want %v", got, want)
	}
}

func TestTokenizeCountsAndCaseFolds(t *testing.T) {
	got := Tokenize("Cat CAT cat, dog; dog!")
	want := map[string]int{"cat": 3, "dog": 2}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Tokenize() = %v, want %v", got, want)
	}
}

func TestTokenizeCyrillic(t *testing.T) {
	got := Tokenize("Привет мир ок")
	want := map[string]int{"привет": 1, "мир": 1}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Tokenize() = %v, want %v", got, want)
	}
}

func TestTokenizeSplitsOnNonAlphanumeric(t *testing.T) {
	got := Tokenize("foo-bar_baz 2024год")
	want := map[string]int{"foo": 1, "bar": 1, "baz": 1, "2024год": 1}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Tokenize() = %v, want %v", got, want)
	}
}

func TestTokenizeDeterministic(t *testing.T) {
	const text = "the quick brown fox jumps over the lazy dog"
	first := Tokenize(text)
	for i := 0; i < 10; i++ {
		if got := Tokenize(text); !reflect.DeepEqual(got, first) {
			t.Fatalf("Tokenize() not deterministic: %v vs %v", got, first)
		}
	}
}

func TestTokenizeKeepsStopWords(t *testing.T) {
	// Stop-word filtering belongs to the query path only; the ingest path
	// must keep raw statistics.
	got := Tokenize("что такое поиск")
	if got["что"] != 1 || got["такое"] != 1 {
		t.Errorf("Tokenize() dropped stop-words on the ingest path: %v", got)
	}
}

func TestQueryTerms(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"removes stop-words", "что такое хоккей", []string{"хоккей"}},
		{"stop-words only", "что это для", nil},
		{"short terms dropped", "go is ок", nil},
		{"preserves order", "dog123 cat", []string{"dog123", "cat"}},
		{"deduplicates", "cat cat dog", []string{"cat", "dog"}},
		{"empty query", "", nil},
		{"mixed scripts", "погода berlin", []string{"погода", "berlin"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := QueryTerms(tt.query)
			if len(got) == 0 && len(tt.want) == 0 {
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("QueryTerms(%q) = %v, want %v", tt.query, got, tt.want)
			}
		})
	}
}

func TestIsStopWord(t *testing.T) {
	if !IsStopWord("что") {
		t.Error(`IsStopWord("что") = false, want true`)
	}
	if IsStopWord("хоккей") {
		t.Error(`IsStopWord("хоккей") = true, want false`)
	}
}
