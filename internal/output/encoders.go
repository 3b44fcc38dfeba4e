package output

import (
	"bufio"
	"encoding/json"
	"io"

	"gopkg.in/yaml.v3"
)

// buffered collects items and emits them on Flush: a single item is written
// as is, anything else as a list.
type buffered struct {
	w     *bufio.Writer
	items []any
}

func (b *buffered) Write(data any) error {
	b.items = append(b.items, data)
	return nil
}

func (b *buffered) WriteAll(data []any) error {
	b.items = append(b.items, data...)
	return nil
}

func (b *buffered) payload() any {
	if len(b.items) == 1 {
		return b.items[0]
	}
	if b.items == nil {
		return []any{}
	}
	return b.items
}

// JSONWriter writes a JSON document.
type JSONWriter struct {
	buffered
	pretty bool
	indent string
}

// NewJSONWriter creates a JSON writer.
func NewJSONWriter(w io.Writer, pretty bool, indent string) *JSONWriter {
	return &JSONWriter{
		buffered: buffered{w: bufio.NewWriter(w)},
		pretty:   pretty,
		indent:   indent,
	}
}

// Flush writes the buffered items.
func (w *JSONWriter) Flush() error {
	enc := json.NewEncoder(w.w)
	enc.SetEscapeHTML(false)
	if w.pretty {
		enc.SetIndent("", w.indent)
	}
	if err := enc.Encode(w.payload()); err != nil {
		return err
	}
	return w.w.Flush()
}

// Close flushes the writer.
func (w *JSONWriter) Close() error {
	return w.Flush()
}

// JSONLWriter writes newline-delimited JSON (JSONL), one line per item.
type JSONLWriter struct {
	w *bufio.Writer
}

// NewJSONLWriter creates a JSONL writer.
func NewJSONLWriter(w io.Writer) *JSONLWriter {
	return &JSONLWriter{w: bufio.NewWriter(w)}
}

// Write writes a single item as a JSON line.
func (w *JSONLWriter) Write(data any) error {
	enc := json.NewEncoder(w.w)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(data); err != nil {
		return err
	}
	return w.w.Flush()
}

// WriteAll writes multiple items as JSON lines.
func (w *JSONLWriter) WriteAll(data []any) error {
	for _, item := range data {
		if err := w.Write(item); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes the buffer.
func (w *JSONLWriter) Flush() error {
	return w.w.Flush()
}

// Close flushes the writer.
func (w *JSONLWriter) Close() error {
	return w.Flush()
}

// YAMLWriter writes a YAML document.
type YAMLWriter struct {
	buffered
}

// NewYAMLWriter creates a YAML writer.
func NewYAMLWriter(w io.Writer) *YAMLWriter {
	return &YAMLWriter{buffered: buffered{w: bufio.NewWriter(w)}}
}

// Flush writes the buffered items.
func (w *YAMLWriter) Flush() error {
	enc := yaml.NewEncoder(w.w)
	enc.SetIndent(2)
	if err := enc.Encode(w.payload()); err != nil {
		return err
	}
	if err := enc.Close(); err != nil {
		return err
	}
	return w.w.Flush()
}

// Close flushes the writer.
func (w *YAMLWriter) Close() error {
	return w.Flush()
}
