package recommend

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"testing"

	"studyhub/internal/document"
)

func readyDoc(id, title string, vec ...float64) document.Document {
	return document.Document{
		ID:        id,
		OwnerID:   "u1",
		Title:     title,
		Content:   strings.Repeat("x", 200),
		Embedding: vec,
		Status:    document.StatusReady,
	}
}

func TestRank_Scenario(t *testing.T) {
	a := readyDoc("a", "A", 1, 0, 0)
	b := readyDoc("b", "B", 0.9, 0.1, 0)
	c := readyDoc("c", "C", 0, 1, 0)

	// C is orthogonal to A, so only B clears the relevance floor.
	got := Rank(a, []document.Document{a, c, b})
	if len(got) != 1 {
		t.Fatalf("Rank() returned %d matches, want 1: %+v", len(got), got)
	}
	if got[0].DocumentID != "b" || got[0].Title != "B" {
		t.Errorf("Rank()[0] = %+v, want document b", got[0])
	}
	if got[0].Similarity <= MinScore || got[0].Similarity > 1 {
		t.Errorf("Rank()[0].Similarity = %v, want in (0.2, 1]", got[0].Similarity)
	}
	wantSnippet := strings.Repeat("x", SnippetLength) + "..."
	if got[0].Snippet != wantSnippet {
		t.Errorf("Rank()[0].Snippet length = %d, want %d", len(got[0].Snippet), len(wantSnippet))
	}
}

func TestRank_OrdersBestFirst(t *testing.T) {
	a := readyDoc("a", "A", 1, 0, 0)
	b := readyDoc("b", "B", 0.9, 0.1, 0)
	c := readyDoc("c", "C", 0.5, 0.5, 0)

	got := Rank(a, []document.Document{c, b})
	if len(got) != 2 {
		t.Fatalf("Rank() returned %d matches, want 2", len(got))
	}
	if got[0].DocumentID != "b" || got[1].DocumentID != "c" {
		t.Errorf("Rank() order = [%s %s], want [b c]", got[0].DocumentID, got[1].DocumentID)
	}
}

func TestRank_ExtremeMagnitudes(t *testing.T) {
	target := readyDoc("t", "T", 1e200, 1e200)
	same := readyDoc("x", "X", 1e200, 1e200)
	opposite := readyDoc("y", "Y", -1e200, -1e200)

	got := Rank(target, []document.Document{same, opposite})
	if len(got) != 1 || got[0].DocumentID != "x" {
		t.Fatalf("Rank() = %+v, want only x", got)
	}
	if math.IsNaN(got[0].Similarity) || math.Abs(got[0].Similarity-1) > 1e-9 {
		t.Errorf("Rank()[0].Similarity = %v, want ~1", got[0].Similarity)
	}
	if _, err := json.Marshal(got); err != nil {
		t.Errorf("json.Marshal(Rank()) error = %v", err)
	}
}

func TestRank_TargetNotReady(t *testing.T) {
	candidates := []document.Document{readyDoc("b", "B", 1, 0)}

	tests := []struct {
		name   string
		target document.Document
	}{
		{
			name:   "pending",
			target: document.Document{ID: "a", OwnerID: "u1", Status: document.StatusPending, Embedding: []float64{1, 0}},
		},
		{
			name:   "failed",
			target: document.Document{ID: "a", OwnerID: "u1", Status: document.StatusFailed, Embedding: []float64{1, 0}},
		},
		{
			name:   "empty embedding",
			target: document.Document{ID: "a", OwnerID: "u1", Status: document.StatusReady},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Rank(tt.target, candidates)
			if got == nil {
				t.Fatal("Rank() returned nil, want empty slice")
			}
			if len(got) != 0 {
				t.Errorf("Rank() returned %d matches, want 0", len(got))
			}
		})
	}
}

func TestRank_CandidateFilter(t *testing.T) {
	target := readyDoc("a", "A", 1, 0)

	pending := readyDoc("pending", "P", 1, 0)
	pending.Status = document.StatusPending
	empty := readyDoc("empty", "E")
	foreign := readyDoc("foreign", "F", 1, 0)
	foreign.OwnerID = "u2"
	mismatch := readyDoc("mismatch", "M", 1, 0, 0)
	keep := readyDoc("keep", "K", 1, 0.1)

	got := Rank(target, []document.Document{target, pending, empty, foreign, mismatch, keep})
	if len(got) != 1 || got[0].DocumentID != "keep" {
		t.Fatalf("Rank() = %+v, want only document keep", got)
	}
}

func TestRank_CapsAndFloors(t *testing.T) {
	target := readyDoc("t", "T", 1, 0)

	var candidates []document.Document
	for i := 0; i < 10; i++ {
		// Angles spread from 0 to ~90 degrees, so some fall below the floor.
		candidates = append(candidates, readyDoc(fmt.Sprintf("d%d", i), "D", 1, float64(i)))
	}

	got := Rank(target, candidates)
	if len(got) > MaxResults {
		t.Fatalf("Rank() returned %d matches, want at most %d", len(got), MaxResults)
	}
	for i, m := range got {
		if m.DocumentID == target.ID {
			t.Errorf("Rank() included the target at %d", i)
		}
		if m.Similarity <= MinScore {
			t.Errorf("Rank()[%d].Similarity = %v, want > %v", i, m.Similarity, MinScore)
		}
		if i > 0 && got[i-1].Similarity < m.Similarity {
			t.Errorf("Rank() not sorted at %d: %v < %v", i, got[i-1].Similarity, m.Similarity)
		}
	}
	if got[0].DocumentID != "d0" {
		t.Errorf("Rank()[0] = %s, want d0", got[0].DocumentID)
	}
}

func TestRank_TiesKeepInputOrder(t *testing.T) {
	target := readyDoc("t", "T", 1, 1)
	candidates := []document.Document{
		readyDoc("first", "1", 2, 1),
		readyDoc("second", "2", 2, 1),
		readyDoc("third", "3", 2, 1),
	}

	got := Rank(target, candidates)
	if len(got) != 3 {
		t.Fatalf("Rank() returned %d matches, want 3", len(got))
	}
	for i, want := range []string{"first", "second", "third"} {
		if got[i].DocumentID != want {
			t.Errorf("Rank()[%d] = %s, want %s", i, got[i].DocumentID, want)
		}
	}
}

func TestRank_DoesNotMutateCandidates(t *testing.T) {
	target := readyDoc("t", "T", 1, 0)
	candidates := []document.Document{
		readyDoc("low", "L", 1, 1),
		readyDoc("high", "H", 1, 0.1),
	}

	_ = Rank(target, candidates)

	if candidates[0].ID != "low" || candidates[1].ID != "high" {
		t.Errorf("Rank() reordered its input: [%s %s]", candidates[0].ID, candidates[1].ID)
	}
}

func TestSnippet(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{name: "short", content: "  hello world  ", want: "hello world"},
		{name: "empty", content: "", want: ""},
		{name: "exact length", content: strings.Repeat("a", 120), want: strings.Repeat("a", 120)},
		{name: "long", content: strings.Repeat("b", 121), want: strings.Repeat("b", 120) + "..."},
		{name: "trailing space at cut", content: strings.Repeat("c", 119) + " " + "tail", want: strings.Repeat("c", 119) + "..."},
		{name: "multibyte", content: strings.Repeat("é", 130), want: strings.Repeat("é", 120) + "..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Snippet(tt.content); got != tt.want {
				t.Errorf("Snippet() = %q, want %q", got, tt.want)
			}
		})
	}
}
