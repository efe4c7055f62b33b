package network

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"os"
)

// WriteFile persists the network as UTF-8 JSON. The primary strategy streams
// the document element by element so peak memory is bounded by one element's
// serialized size; if streaming fails the whole document is encoded once as
// a fallback. On a double failure the error is returned and the in-memory
// network remains valid for a retry against another destination.
func (n *Network) WriteFile(path string) error {
	streamErr := n.writeStreaming(path)
	if streamErr == nil {
		return nil
	}
	if fallbackErr := n.writeWhole(path); fallbackErr != nil {
		return fmt.Errorf("writing network: streaming failed (%v); fallback failed: %w", streamErr, fallbackErr)
	}
	return nil
}

func (n *Network) writeStreaming(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	w.WriteString("{\n")

	meta, err := marshalRaw(n.Metadata)
	if err != nil {
		return fmt.Errorf("encoding metadata: %w", err)
	}
	fmt.Fprintf(w, "  \"metadata\": %s,\n", meta)

	if err := writeArray(w, "nodes", len(n.Nodes), func(i int) any { return n.Nodes[i] }, false); err != nil {
		return err
	}
	if err := writeArray(w, "edges", len(n.Edges), func(i int) any { return n.Edges[i] }, false); err != nil {
		return err
	}
	if err := writeArray(w, "paths", len(n.Paths), func(i int) any { return n.Paths[i] }, true); err != nil {
		return err
	}

	w.WriteString("}\n")
	if err := w.Flush(); err != nil {
		return fmt.Errorf("flushing %s: %w", path, err)
	}
	return nil
}

// writeArray emits one top-level JSON array, one element per line. The last
// element omits the trailing comma; the last array omits the comma after its
// closing bracket.
func writeArray(w *bufio.Writer, name string, count int, element func(i int) any, last bool) error {
	fmt.Fprintf(w, "  %q: [\n", name)
	for i := 0; i < count; i++ {
		raw, err := marshalRaw(element(i))
		if err != nil {
			return fmt.Errorf("encoding %s[%d]: %w", name, i, err)
		}
		sep := ","
		if i == count-1 {
			sep = ""
		}
		fmt.Fprintf(w, "    %s%s\n", raw, sep)
	}
	sep := ","
	if last {
		sep = ""
	}
	fmt.Fprintf(w, "  ]%s\n", sep)
	return nil
}

func (n *Network) writeWhole(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(n); err != nil {
		return fmt.Errorf("encoding network: %w", err)
	}
	return w.Flush()
}

// marshalRaw marshals without HTML escaping so Arabic script stays verbatim.
func marshalRaw(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// Load reads a previously serialized network artifact.
func Load(path string) (*Network, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	var n Network
	if err := json.Unmarshal(data, &n); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &n, nil
}
