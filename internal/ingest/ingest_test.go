package ingest

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"docqa/internal/vectordb"
)

func TestSplit(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		size    int
		overlap int
		want    []string
	}{
		{"empty", "", 500, 50, nil},
		{"whitespace only", "   \n\t  ", 500, 50, nil},
		{"fits in one chunk", "hello world", 500, 50, []string{"hello world"}},
		{"exact boundary", "abcdef", 3, 0, []string{"abc", "def"}},
		{"overlap carries tail", "abcdefgh", 4, 2, []string{"abcd", "cdef", "efgh"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Split(tt.text, tt.size, tt.overlap)
			if len(got) != len(tt.want) {
				t.Fatalf("Split() = %q, want %q", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("chunk %d: got %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestSplitOverlapWindowsShareText(t *testing.T) {
	text := strings.Repeat("the quick brown fox jumps over the lazy dog. ", 30)
	chunks := Split(text, 100, 20)

	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}
	for i := 1; i < len(chunks); i++ {
		if len(chunks[i-1]) > 100 {
			t.Errorf("chunk %d exceeds size limit: %d runes", i-1, len(chunks[i-1]))
		}
	}
}

func TestExtractTextPlain(t *testing.T) {
	got, err := ExtractText("notes.txt", []byte("plain content"))
	if err != nil {
		t.Fatalf("ExtractText: %v", err)
	}
	if got != "plain content" {
		t.Errorf("expected passthrough, got %q", got)
	}
}

func TestExtractTextMarkdown(t *testing.T) {
	src := []byte("# Heading\n\nSome *emphasized* text with a [link](https://example.com).\n\n- item one\n- item two\n")

	got, err := ExtractText("README.md", src)
	if err != nil {
		t.Fatalf("ExtractText: %v", err)
	}

	for _, want := range []string{"Heading", "emphasized", "link", "item one", "item two"} {
		if !strings.Contains(got, want) {
			t.Errorf("expected extracted text to contain %q, got %q", want, got)
		}
	}
	for _, marker := range []string{"#", "*", "](", "- "} {
		if strings.Contains(got, marker) {
			t.Errorf("markdown syntax %q leaked into extracted text: %q", marker, got)
		}
	}
}

func TestExtractTextMarkdownCodeBlock(t *testing.T) {
	src := []byte("Intro.\n\n```go\nfmt.Println(\"hi\")\n```\n")

	got, err := ExtractText("doc.md", src)
	if err != nil {
		t.Fatalf("ExtractText: %v", err)
	}
	if !strings.Contains(got, `fmt.Println("hi")`) {
		t.Errorf("code block content should survive extraction, got %q", got)
	}
}

func TestExtractTextUnsupported(t *testing.T) {
	if _, err := ExtractText("report.pdf", []byte("%PDF-1.4")); err == nil {
		t.Error("expected error for unsupported format")
	}
}

func TestDiscoverIncludeExclude(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"guide.txt":        "a",
		"sub/notes.md":     "b",
		"sub/image.png":    "c",
		"drafts/draft.txt": "d",
		".git/config":      "e",
	}
	for rel, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	got, err := Discover(dir, []string{"**/*.txt", "**/*.md"}, []string{"drafts/**"})
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}

	want := map[string]bool{"guide.txt": true, "sub/notes.md": true}
	if len(got) != len(want) {
		t.Fatalf("Discover() = %v, want keys %v", got, want)
	}
	for _, rel := range got {
		if !want[rel] {
			t.Errorf("unexpected path %q", rel)
		}
	}
}

func TestChunksRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "chunks.jsonl")
	chunks := []Chunk{
		{Text: "first chunk"},
		{Text: "second chunk\nwith a newline"},
	}

	if err := WriteChunks(path, chunks); err != nil {
		t.Fatalf("WriteChunks: %v", err)
	}

	got, err := ReadChunks(path)
	if err != nil {
		t.Fatalf("ReadChunks: %v", err)
	}
	if len(got) != len(chunks) {
		t.Fatalf("expected %d chunks, got %d", len(chunks), len(got))
	}
	for i := range chunks {
		if got[i].Text != chunks[i].Text {
			t.Errorf("chunk %d: got %q, want %q", i, got[i].Text, chunks[i].Text)
		}
	}
}

// memoryStore is a minimal VectorStore for pipeline tests.
type memoryStore struct {
	docs      []vectordb.Document
	persisted bool
}

func (m *memoryStore) AddDocuments(_ context.Context, docs []vectordb.Document) error {
	m.docs = append(m.docs, docs...)
	return nil
}

func (m *memoryStore) Search(_ context.Context, _ string, _ int) ([]vectordb.SearchResult, error) {
	return nil, nil
}

func (m *memoryStore) DeleteBySource(_ context.Context, source string) error {
	kept := m.docs[:0]
	for _, d := range m.docs {
		if d.Metadata.Source != source {
			kept = append(kept, d)
		}
	}
	m.docs = kept
	return nil
}

func (m *memoryStore) Persist(_ context.Context, _ string) error {
	m.persisted = true
	return nil
}

func (m *memoryStore) Load(_ context.Context, _ string) error { return nil }
func (m *memoryStore) Count() int                             { return len(m.docs) }

func TestPipelineRun(t *testing.T) {
	docsDir := t.TempDir()
	dataDir := t.TempDir()

	if err := os.WriteFile(filepath.Join(docsDir, "facts.txt"),
		[]byte("The capital of France is Paris. The capital of Italy is Rome."), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(docsDir, "readme.md"),
		[]byte("# About\n\nThis corpus holds geography facts.\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	store := &memoryStore{}
	p := NewPipeline(Options{
		DocsDir:      docsDir,
		DataDir:      dataDir,
		Include:      []string{"**/*.txt", "**/*.md"},
		ChunkSize:    500,
		ChunkOverlap: 50,
	}, store, nil)

	stats, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if stats.Documents != 2 {
		t.Errorf("expected 2 documents, got %d", stats.Documents)
	}
	if stats.Chunks == 0 || store.Count() != stats.Chunks {
		t.Errorf("store holds %d chunks, stats say %d", store.Count(), stats.Chunks)
	}
	if !store.persisted {
		t.Error("pipeline should persist the store")
	}

	sidecar, err := ReadChunks(filepath.Join(dataDir, ChunksFile))
	if err != nil {
		t.Fatalf("ReadChunks: %v", err)
	}
	if len(sidecar) != stats.Chunks {
		t.Errorf("sidecar holds %d chunks, stats say %d", len(sidecar), stats.Chunks)
	}

	for _, d := range store.docs {
		if d.Metadata.ContentHash == "" {
			t.Error("every chunk should carry its source content hash")
			break
		}
	}
}

func TestPipelineRunEmptyDir(t *testing.T) {
	p := NewPipeline(Options{
		DocsDir: t.TempDir(),
		DataDir: t.TempDir(),
		Include: []string{"**/*.txt"},
	}, &memoryStore{}, nil)

	if _, err := p.Run(context.Background()); err == nil {
		t.Error("expected error for directory without documents")
	}
}
