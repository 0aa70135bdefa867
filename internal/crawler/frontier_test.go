package crawler

import "testing"

func TestFrontierFIFO(t *testing.T) {
	f := NewFrontier(10)
	f.Add("https://a.example/one")
	f.Add("https://a.example/two")
	f.Add("https://a.example/three")

	for _, want := range []string{"https://a.example/one", "https://a.example/two", "https://a.example/three"} {
		got, ok := f.Next()
		if !ok || got != want {
			t.Fatalf("Next() = %q, %v; want %q", got, ok, want)
		}
	}
	if _, ok := f.Next(); ok {
		t.Error("Next() on empty frontier returned ok")
	}
}

func TestFrontierDedupesQueued(t *testing.T) {
	f := NewFrontier(10)
	if !f.Add("https://a.example/page") {
		t.Fatal("first Add rejected")
	}
	if f.Add("https://a.example/page") {
		t.Error("duplicate Add accepted")
	}
	if f.Len() != 1 {
		t.Errorf("Len() = %d, want 1", f.Len())
	}
}

func TestFrontierRejectsVisited(t *testing.T) {
	f := NewFrontier(10)
	f.MarkVisited("https://a.example/page")
	if f.Add("https://a.example/page") {
		t.Error("Add accepted a visited URL")
	}
	// Same page reachable via a fragment link must still be rejected.
	if f.Add("https://a.example/page#section") {
		t.Error("Add accepted a visited URL variant")
	}
}

func TestFrontierCapacity(t *testing.T) {
	f := NewFrontier(2)
	f.Add("https://a.example/1")
	f.Add("https://a.example/2")
	if f.Add("https://a.example/3") {
		t.Error("Add accepted a URL beyond capacity")
	}
	if f.Len() != 2 {
		t.Errorf("Len() = %d, want 2", f.Len())
	}
}

func TestFrontierVisitedCount(t *testing.T) {
	f := NewFrontier(10)
	f.MarkVisited("https://a.example/1")
	f.MarkVisited("https://a.example/2")
	f.MarkVisited("https://a.example/2")
	if got := f.VisitedCount(); got != 2 {
		t.Errorf("VisitedCount() = %d, want 2", got)
	}
}

func TestNormalizeURL(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"https://www.example.com/a#frag", "https://example.com/a"},
		{"https://example.com/a", "https://example.com/a"},
		{"//example.com/b", "https://example.com/b"},
	}
	for _, tt := range tests {
		if got := NormalizeURL(tt.in); got != tt.want {
			t.Errorf("NormalizeURL(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
