package core

import (
	"testing"
	"time"
)

func TestDocumentMUS_RoundTrip(t *testing.T) {
	acquired := time.Date(2025, 3, 14, 9, 26, 53, 589000, time.UTC)

	tests := []struct {
		name string
		doc  Document
	}{
		{
			name: "full document",
			doc: Document{
				Id:          IDFromContent("full document"),
				Title:       "Vector search in Go",
				Body:        "Brute force cosine similarity over normalized vectors.",
				Summary:     "Cosine search notes",
				Tags:        []string{"search", "vectors"},
				SourceURL:   "https://example.com/vectors",
				ContentType: "article",
				AcquiredAt:  acquired,
				Processed:   true,
				Success:     true,
			},
		},
		{
			name: "minimal document",
			doc: Document{
				Id:   42,
				Body: "only a body",
			},
		},
		{
			name: "empty document",
			doc:  Document{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bs := make([]byte, DocumentMUS.Size(tt.doc))
			n := DocumentMUS.Marshal(tt.doc, bs)
			if n != len(bs) {
				t.Fatalf("Marshal() wrote %d bytes, Size() said %d", n, len(bs))
			}

			got, n, err := DocumentMUS.Unmarshal(bs)
			if err != nil {
				t.Fatalf("Unmarshal() error: %v", err)
			}
			if n != len(bs) {
				t.Fatalf("Unmarshal() consumed %d bytes, want %d", n, len(bs))
			}

			if got.Id != tt.doc.Id || got.Title != tt.doc.Title || got.Body != tt.doc.Body ||
				got.Summary != tt.doc.Summary || got.SourceURL != tt.doc.SourceURL ||
				got.ContentType != tt.doc.ContentType || got.Processed != tt.doc.Processed ||
				got.Success != tt.doc.Success {
				t.Errorf("round trip mismatch: got %+v, want %+v", got, tt.doc)
			}
			if !got.AcquiredAt.Equal(tt.doc.AcquiredAt) {
				t.Errorf("AcquiredAt = %v, want %v", got.AcquiredAt, tt.doc.AcquiredAt)
			}
			if len(got.Tags) != len(tt.doc.Tags) {
				t.Fatalf("Tags length = %d, want %d", len(got.Tags), len(tt.doc.Tags))
			}
			for i := range got.Tags {
				if got.Tags[i] != tt.doc.Tags[i] {
					t.Errorf("Tags[%d] = %q, want %q", i, got.Tags[i], tt.doc.Tags[i])
				}
			}
		})
	}
}

func TestVectorMUS_RoundTrip(t *testing.T) {
	vec := []float32{0.25, -1.5, 0, 3.375}
	bs := make([]byte, VectorMUS.Size(vec))
	VectorMUS.Marshal(vec, bs)

	got, n, err := VectorMUS.Unmarshal(bs)
	if err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}
	if n != len(bs) {
		t.Fatalf("Unmarshal() consumed %d bytes, want %d", n, len(bs))
	}
	if len(got) != len(vec) {
		t.Fatalf("length = %d, want %d", len(got), len(vec))
	}
	for i := range vec {
		if got[i] != vec[i] {
			t.Errorf("element %d = %v, want %v", i, got[i], vec[i])
		}
	}
}

func TestVectorMUS_Truncated(t *testing.T) {
	vec := []float32{1, 2, 3}
	bs := make([]byte, VectorMUS.Size(vec))
	VectorMUS.Marshal(vec, bs)

	_, _, err := VectorMUS.Unmarshal(bs[:len(bs)-2])
	if err == nil {
		t.Error("Unmarshal() of truncated data should fail")
	}
}
