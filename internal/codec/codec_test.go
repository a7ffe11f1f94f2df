package codec

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"gopkg.in/yaml.v3"

	"assetcatalog/internal/domain"
)

func sampleEntities() []*domain.Entity {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	return []*domain.Entity{
		{
			ID:         "65f000000000000000000001",
			Name:       "Hoodie",
			Price:      3000,
			Colors:     []string{"blue", "grey"},
			AssetPaths: []string{"uploads/products/a.jpg", "uploads/products/b.jpg"},
			CreatedAt:  now,
			UpdatedAt:  now,
		},
		{
			ID:         "65f000000000000000000002",
			Name:       "Cap",
			Price:      500,
			AssetPaths: []string{},
			CreatedAt:  now,
			UpdatedAt:  now,
		},
	}
}

func TestExporterFor(t *testing.T) {
	tests := []struct {
		format string
		want   string
	}{
		{"", "table"},
		{"table", "table"},
		{"JSON", "json"},
		{"yml", "yaml"},
	}
	for _, tt := range tests {
		e, err := ExporterFor(tt.format)
		if err != nil {
			t.Fatalf("ExporterFor(%q): %v", tt.format, err)
		}
		if e.Format() != tt.want {
			t.Errorf("ExporterFor(%q).Format() = %q, want %q", tt.format, e.Format(), tt.want)
		}
	}
	if _, err := ExporterFor("csv"); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestImporterForPath(t *testing.T) {
	if c, err := ImporterForPath("seed.YAML"); err != nil || c.Format() != "yaml" {
		t.Errorf("expected yaml importer, got %v, %v", c, err)
	}
	if c, err := ImporterForPath("seed.json"); err != nil || c.Format() != "json" {
		t.Errorf("expected json importer, got %v, %v", c, err)
	}
	if _, err := ImporterForPath("seed.txt"); err == nil {
		t.Error("expected error for unknown extension")
	}
}

func TestJSONExport(t *testing.T) {
	var buf bytes.Buffer
	if err := NewJSONCodec().Export(sampleEntities(), &buf); err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	var doc struct {
		Count    int             `json:"count"`
		Entities []domain.Entity `json:"entities"`
	}
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if doc.Count != 2 || len(doc.Entities) != 2 {
		t.Fatalf("expected 2 entities, got %d/%d", doc.Count, len(doc.Entities))
	}
	if doc.Entities[0].AssetPaths[1] != "uploads/products/b.jpg" {
		t.Errorf("unexpected asset paths %v", doc.Entities[0].AssetPaths)
	}

	buf.Reset()
	if err := NewJSONCodec().Export(nil, &buf); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), `"entities": []`) {
		t.Errorf("expected empty list for no entities, got %s", buf.String())
	}
}

func TestJSONParse(t *testing.T) {
	input := `{"entities": [
		{"name": "Mug", "price": 12.5, "colors": ["white"], "assets": ["/tmp/mug.jpg"]},
		{"name": "Plate", "price": 8}
	]}`

	records, err := NewJSONCodec().Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].Draft.Name != "Mug" || records[0].Draft.Price != 12.5 {
		t.Errorf("unexpected draft %+v", records[0].Draft)
	}
	if len(records[0].Assets) != 1 || records[0].Assets[0] != "/tmp/mug.jpg" {
		t.Errorf("unexpected assets %v", records[0].Assets)
	}
	if len(records[1].Assets) != 0 {
		t.Errorf("expected no assets, got %v", records[1].Assets)
	}

	if _, err := NewJSONCodec().Parse(strings.NewReader(`{"entities": [{"stock": 3}]}`)); err == nil {
		t.Error("expected error for unknown field")
	}
}

func TestYAMLExport(t *testing.T) {
	var buf bytes.Buffer
	if err := NewYAMLCodec().Export(sampleEntities(), &buf); err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	var doc yamlDocument
	if err := yaml.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("output is not valid YAML: %v", err)
	}
	if len(doc.Entities) != 2 {
		t.Fatalf("expected 2 entities, got %d", len(doc.Entities))
	}
	if doc.Entities[0].CreatedAt != "2026-05-01T12:00:00Z" {
		t.Errorf("unexpected created_at %q", doc.Entities[0].CreatedAt)
	}
	if len(doc.Entities[0].Assets) != 2 {
		t.Errorf("expected 2 assets, got %v", doc.Entities[0].Assets)
	}
}

func TestYAMLParse(t *testing.T) {
	input := `
entities:
  - name: Lamp
    price: 40
    description: desk lamp
    assets:
      - ./photos/lamp-front.png
      - ./photos/lamp-side.png
`
	records, err := NewYAMLCodec().Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	if records[0].Draft.Description != "desk lamp" || len(records[0].Assets) != 2 {
		t.Errorf("unexpected record %+v", records[0])
	}

	if _, err := NewYAMLCodec().Parse(strings.NewReader("entities:\n  - weight: 3\n")); err == nil {
		t.Error("expected error for unknown field")
	}
}

func TestTableExport(t *testing.T) {
	var buf bytes.Buffer
	if err := NewTableCodec().Export(sampleEntities(), &buf); err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"NAME", "Hoodie", "3000.00", "blue, grey", "Cap"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in table output:\n%s", want, out)
		}
	}
}
