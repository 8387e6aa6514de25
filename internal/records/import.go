package records

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrUnsupportedFormat is returned by Load for unknown file extensions.
var ErrUnsupportedFormat = errors.New("unsupported dataset format")

// Load reads a dataset file, picking the decoder by extension.
func Load(path string) ([]Record, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var rs []Record
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv":
		rs, err = ReadCSV(file)
	case ".json":
		rs, err = ReadJSON(file)
	case ".yaml", ".yml":
		rs, err = ReadYAML(file)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return rs, nil
}

// ReadCSV reads a header row followed by data rows. Every value is a string.
func ReadCSV(r io.Reader) ([]Record, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(strings.TrimPrefix(header[i], "\ufeff"))
	}

	var rs []Record
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", len(rs)+1, err)
		}

		var rec Record
		for i, key := range header {
			if i < len(row) {
				rec.Set(key, row[i])
			}
		}
		rs = append(rs, rec)
	}
	return rs, nil
}

// ReadJSON reads an array of objects, keeping each object's key order.
// Numbers are kept as json.Number.
func ReadJSON(r io.Reader) ([]Record, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	if err := expectDelim(dec, '['); err != nil {
		return nil, err
	}

	var rs []Record
	for dec.More() {
		rec, err := readObject(dec)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", len(rs), err)
		}
		rs = append(rs, rec)
	}

	if err := expectDelim(dec, ']'); err != nil {
		return nil, err
	}
	return rs, nil
}

func readObject(dec *json.Decoder) (Record, error) {
	var rec Record
	if err := expectDelim(dec, '{'); err != nil {
		return rec, err
	}

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return rec, err
		}
		key, ok := tok.(string)
		if !ok {
			return rec, fmt.Errorf("unexpected key token %v", tok)
		}

		var value any
		if err := dec.Decode(&value); err != nil {
			return rec, fmt.Errorf("value of %q: %w", key, err)
		}
		rec.Set(key, value)
	}

	return rec, expectDelim(dec, '}')
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return fmt.Errorf("expected %q, got %v", want, tok)
	}
	return nil
}

// ReadYAML reads a sequence of mappings, keeping each mapping's key order.
func ReadYAML(r io.Reader) ([]Record, error) {
	var doc yaml.Node
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, err
	}

	root := &doc
	if root.Kind == yaml.DocumentNode && len(root.Content) > 0 {
		root = root.Content[0]
	}
	if root.Kind != yaml.SequenceNode {
		return nil, fmt.Errorf("expected a sequence of records at line %d", root.Line)
	}

	rs := make([]Record, 0, len(root.Content))
	for i, item := range root.Content {
		if item.Kind != yaml.MappingNode {
			return nil, fmt.Errorf("record %d: expected a mapping at line %d", i, item.Line)
		}

		var rec Record
		for j := 0; j+1 < len(item.Content); j += 2 {
			var value any
			if err := item.Content[j+1].Decode(&value); err != nil {
				return nil, fmt.Errorf("record %d, key %q: %w", i, item.Content[j].Value, err)
			}
			rec.Set(item.Content[j].Value, value)
		}
		rs = append(rs, rec)
	}
	return rs, nil
}
