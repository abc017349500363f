package ingest

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Chunk is one unit of extracted document text, as serialized to the
// chunks.jsonl sidecar file.
type Chunk struct {
	Text string `json:"text"`
}

// maxLineBytes bounds a single jsonl line; chunks are a few hundred runes,
// so 1 MB leaves ample headroom.
const maxLineBytes = 1 << 20

// WriteChunks writes chunks to path as JSON lines, creating parent
// directories as needed.
func WriteChunks(path string, chunks []Chunk) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating chunks directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating chunks file: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	enc := json.NewEncoder(w)
	for _, c := range chunks {
		if err := enc.Encode(c); err != nil {
			return fmt.Errorf("encoding chunk: %w", err)
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("flushing chunks file: %w", err)
	}
	return nil
}

// ReadChunks reads a JSON-lines chunks file back into memory.
func ReadChunks(path string) ([]Chunk, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening chunks file: %w", err)
	}
	defer f.Close()

	var chunks []Chunk
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var c Chunk
		if err := json.Unmarshal(line, &c); err != nil {
			return nil, fmt.Errorf("parsing chunk line: %w", err)
		}
		chunks = append(chunks, c)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading chunks file: %w", err)
	}

	return chunks, nil
}
