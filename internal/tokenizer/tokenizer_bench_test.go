package tokenizer

import (
	"strings"
	"testing"
)

// BenchmarkTokenize measures tokenization throughput over a mixed-script
// document of a few kilobytes.
func BenchmarkTokenize(b *testing.B) {
	doc := strings.Repeat("Быстрый поиск indexes web pages and ranks результаты запроса. ", 50)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		counts := Tokenize(doc)
		_ = counts
	}
}

// BenchmarkQueryTerms measures query normalization latency.
func BenchmarkQueryTerms(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		terms := QueryTerms("что такое быстрый web поиск")
		_ = terms
	}
}
