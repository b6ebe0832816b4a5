package models

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestContentItem(t *testing.T) {
	t.Run("Unmarshal keeps unknown fields", func(t *testing.T) {
		var item ContentItem
		raw := `{"id":"L1","title":"Intro","url":"https://cdn/x.m3u8","duration":1200,"teacher":{"name":"A"}}`
		if err := json.Unmarshal([]byte(raw), &item); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if item.ID != "L1" || item.Title != "Intro" {
			t.Errorf("unexpected item: %+v", item)
		}
		if len(item.Extra) != 2 {
			t.Errorf("expected 2 extra fields, got %v", item.Extra)
		}

		out, err := json.Marshal(item.Tagged("Math", Lectures))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var got map[string]any
		if err := json.Unmarshal(out, &got); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got["duration"] != float64(1200) {
			t.Errorf("expected duration to survive, got %v", got["duration"])
		}
		if got["_subjectName"] != "Math" || got["_type"] != "lectures" {
			t.Errorf("expected tags, got %v", got)
		}
	})

	t.Run("Numeric IDs become strings", func(t *testing.T) {
		var item ContentItem
		if err := json.Unmarshal([]byte(`{"id":42,"name":"Sheet"}`), &item); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if item.ID != "42" {
			t.Errorf("expected ID 42, got %q", item.ID)
		}
	})

	t.Run("Marshal keeps upstream encodings", func(t *testing.T) {
		var item ContentItem
		raw := `{"id":11,"title":"","duration":null,"url":"x.m3u8"}`
		if err := json.Unmarshal([]byte(raw), &item); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		out, err := json.Marshal(item.Tagged("Math", Lectures))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := `{"_subjectName":"Math","_type":"lectures","duration":null,"id":11,"title":"","url":"x.m3u8"}`
		if string(out) != want {
			t.Errorf("expected %s, got %s", want, out)
		}
	})

	t.Run("Marshal writes changed fields as strings", func(t *testing.T) {
		var item ContentItem
		if err := json.Unmarshal([]byte(`{"id":11,"title":"Old"}`), &item); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		item.Title = "New"

		out, err := json.Marshal(item)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if want := `{"id":11,"title":"New"}`; string(out) != want {
			t.Errorf("expected %s, got %s", want, out)
		}
	})

	t.Run("Marshal omits empty optional fields", func(t *testing.T) {
		item := ContentItem{ID: "L1", Title: "Intro"}.Tagged("Math", Lectures)
		out, err := json.Marshal(item)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := `{"_subjectName":"Math","_type":"lectures","id":"L1","title":"Intro"}`
		if string(out) != want {
			t.Errorf("expected %s, got %s", want, out)
		}
	})

	t.Run("DisplayTitle and StreamURL fallbacks", func(t *testing.T) {
		item := ContentItem{Name: "Notes 1", OriginalURL: "https://cdn/notes.pdf"}
		if item.DisplayTitle() != "Notes 1" {
			t.Errorf("expected name fallback, got %s", item.DisplayTitle())
		}
		if item.StreamURL() != "https://cdn/notes.pdf" {
			t.Errorf("expected originalUrl fallback, got %s", item.StreamURL())
		}
		if item.IsStream() {
			t.Error("pdf should not be a stream")
		}
	})

	t.Run("ShareText", func(t *testing.T) {
		player := "https://smarterz.netlify.app/player"

		pdf := ContentItem{Title: "Sheet", URL: "https://cdn/a.pdf"}
		if got := pdf.ShareText(player); got != "Sheet: https://cdn/a.pdf" {
			t.Errorf("unexpected share text %q", got)
		}

		hls := ContentItem{Title: "Intro", URL: "https://cdn/v/master.m3u8"}
		got := hls.ShareText(player)
		if !strings.HasPrefix(got, "Intro: "+player+"?url=") {
			t.Errorf("expected player wrapper, got %q", got)
		}
		if !strings.Contains(got, "https%3A%2F%2Fcdn%2Fv%2Fmaster.m3u8") {
			t.Errorf("expected escaped stream URL, got %q", got)
		}
	})
}

func TestBatch(t *testing.T) {
	var b Batch
	if err := json.Unmarshal([]byte(`{"id":7,"name":"Arjuna","startDate":"2024-01-01"}`), &b); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b.ID != "7" || b.Name != "Arjuna" {
		t.Errorf("unexpected batch: %+v", b)
	}

	out, err := json.Marshal(b)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := `{"id":7,"name":"Arjuna","startDate":"2024-01-01"}`; string(out) != want {
		t.Errorf("expected %s, got %s", want, out)
	}

	t.Run("Absent fields stay absent", func(t *testing.T) {
		var b Batch
		if err := json.Unmarshal([]byte(`{"slug":"x"}`), &b); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		out, err := json.Marshal(b)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if want := `{"slug":"x"}`; string(out) != want {
			t.Errorf("expected %s, got %s", want, out)
		}
	})
}

func TestParseContentType(t *testing.T) {
	for _, in := range []string{"lectures", "NOTES", " dpps "} {
		if _, err := ParseContentType(in); err != nil {
			t.Errorf("ParseContentType(%q) unexpected error: %v", in, err)
		}
	}
	if _, err := ParseContentType("videos"); err == nil {
		t.Error("expected error for unknown type")
	}

	types := ContentTypes()
	if len(types) != 3 || types[0] != Lectures || types[1] != Notes || types[2] != DPPs {
		t.Errorf("unexpected aggregation order: %v", types)
	}
}

func TestCompletedSet(t *testing.T) {
	t.Run("Add twice keeps one entry", func(t *testing.T) {
		var s CompletedSet
		if !s.Add("L1") {
			t.Error("first add should change the set")
		}
		if s.Add("L1") {
			t.Error("second add should not change the set")
		}
		if len(s) != 1 {
			t.Errorf("expected one entry, got %v", s)
		}
	})

	t.Run("Remove absent leaves set unchanged", func(t *testing.T) {
		s := CompletedSet{"A", "B"}
		if s.Remove("C") {
			t.Error("removing absent id should report no change")
		}
		if len(s) != 2 || s[0] != "A" || s[1] != "B" {
			t.Errorf("unexpected set %v", s)
		}
	})

	t.Run("Remove drops duplicates loaded from disk", func(t *testing.T) {
		s := CompletedSet{"A", "B", "A"}
		s.Remove("A")
		if s.Contains("A") {
			t.Errorf("expected every A removed, got %v", s)
		}
	})

	t.Run("IDs is never nil", func(t *testing.T) {
		var s CompletedSet
		out, _ := json.Marshal(s.IDs())
		if string(out) != "[]" {
			t.Errorf("expected [], got %s", out)
		}
	})

	t.Run("Partition", func(t *testing.T) {
		s := CompletedSet{"b"}
		items := []ContentItem{{ID: "a"}, {ID: "b"}, {ID: "c"}}
		pending, done := s.Partition(items)
		if len(pending) != 2 || pending[0].ID != "a" || pending[1].ID != "c" {
			t.Errorf("unexpected pending %v", pending)
		}
		if len(done) != 1 || done[0].ID != "b" {
			t.Errorf("unexpected done %v", done)
		}
	})
}

func TestGroupBySubject(t *testing.T) {
	items := []ContentItem{
		{ID: "1", SubjectName: "Physics"},
		{ID: "2", SubjectName: "Math"},
		{ID: "3", SubjectName: "Physics"},
	}
	order, groups := GroupBySubject(items)
	if len(order) != 2 || order[0] != "Physics" || order[1] != "Math" {
		t.Errorf("unexpected order %v", order)
	}
	if len(groups["Physics"]) != 2 {
		t.Errorf("expected 2 physics items, got %v", groups["Physics"])
	}
}
