package records

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestRecordKeepsKeyOrder(t *testing.T) {
	rec := New("title", "X", "year", 2020, "genre", "comedy")
	rec.Set("title", "Y")

	if diff := cmp.Diff([]string{"title", "year", "genre"}, rec.Keys()); diff != "" {
		t.Fatalf("keys mismatch (-want +got):\n%s", diff)
	}
	if rec.String("title") != "Y" || rec.String("year") != "2020" || rec.String("missing") != "" {
		t.Fatalf("unexpected values: %v", rec.Map())
	}

	data, err := json.Marshal(rec)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(data) != `{"title":"Y","year":2020,"genre":"comedy"}` {
		t.Fatalf("unexpected json %s", data)
	}
}

func TestUnion(t *testing.T) {
	rs := []Record{
		New("title", "X", "year", 2020),
		New("year", 2021, "rating", 7.5),
	}
	if diff := cmp.Diff([]string{"title", "year", "rating"}, Union(rs)); diff != "" {
		t.Fatalf("union mismatch (-want +got):\n%s", diff)
	}
}

func TestReadCSV(t *testing.T) {
	input := "Name,Age,City\nAnna,30,Berlin\nBob,41\n"

	rs, err := ReadCSV(strings.NewReader(input))
	if err == nil {
		t.Fatalf("expected wrong field count to fail, got %d records", len(rs))
	}

	rs, err = ReadCSV(strings.NewReader("\ufeffName, Age,City\nAnna, 30,Berlin\nBob,41,Paris\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rs) != 2 {
		t.Fatalf("expected 2 records, got %d", len(rs))
	}
	if diff := cmp.Diff([]string{"Name", "Age", "City"}, rs[0].Keys()); diff != "" {
		t.Fatalf("keys mismatch:\n%s", diff)
	}
	if rs[0].String("Age") != "30" || rs[1].String("City") != "Paris" {
		t.Fatalf("unexpected values %v %v", rs[0].Map(), rs[1].Map())
	}

	empty, err := ReadCSV(strings.NewReader(""))
	if err != nil || len(empty) != 0 {
		t.Fatalf("expected empty dataset, got %v, %v", empty, err)
	}
}

func TestReadJSON(t *testing.T) {
	input := `[{"title": "X", "year": 2020, "tags": ["a"]}, {"year": 1999, "title": "Y"}]`

	rs, err := ReadJSON(strings.NewReader(input))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rs) != 2 {
		t.Fatalf("expected 2 records, got %d", len(rs))
	}
	if diff := cmp.Diff([]string{"title", "year", "tags"}, rs[0].Keys()); diff != "" {
		t.Fatalf("keys mismatch:\n%s", diff)
	}
	if diff := cmp.Diff([]string{"year", "title"}, rs[1].Keys()); diff != "" {
		t.Fatalf("keys mismatch:\n%s", diff)
	}
	if rs[0].String("year") != "2020" {
		t.Fatalf("expected number to keep its text, got %q", rs[0].String("year"))
	}

	if _, err := ReadJSON(strings.NewReader(`{"title": "X"}`)); err == nil {
		t.Fatalf("expected object at top level to fail")
	}
}

func TestReadYAML(t *testing.T) {
	input := "- title: X\n  year: 2020\n- year: 1999\n  title: Y\n  seen: true\n"

	rs, err := ReadYAML(strings.NewReader(input))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff([]string{"year", "title", "seen"}, rs[1].Keys()); diff != "" {
		t.Fatalf("keys mismatch:\n%s", diff)
	}
	if rs[0].String("year") != "2020" || rs[1].String("seen") != "true" {
		t.Fatalf("unexpected values %v %v", rs[0].Map(), rs[1].Map())
	}

	if _, err := ReadYAML(strings.NewReader("title: X\n")); err == nil {
		t.Fatalf("expected mapping at top level to fail")
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	csvPath := filepath.Join(dir, "people.CSV")
	if err := os.WriteFile(csvPath, []byte("name,city\nAnna,Berlin\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	rs, err := Load(csvPath)
	if err != nil || len(rs) != 1 {
		t.Fatalf("unexpected result %v, %v", rs, err)
	}

	txtPath := filepath.Join(dir, "people.txt")
	if err := os.WriteFile(txtPath, []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(txtPath); !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
}
