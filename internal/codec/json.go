package codec

import (
	"encoding/json"
	"fmt"
	"io"

	"assetcatalog/internal/domain"
)

// JSONCodec handles JSON import/export
type JSONCodec struct{}

// NewJSONCodec creates a new JSON codec
func NewJSONCodec() *JSONCodec {
	return &JSONCodec{}
}

// Format returns the codec format identifier
func (c *JSONCodec) Format() string {
	return "json"
}

type jsonImport struct {
	Entities []jsonRecord `json:"entities"`
}

type jsonRecord struct {
	Name        string   `json:"name"`
	Price       float64  `json:"price"`
	Colors      []string `json:"colors,omitempty"`
	Description string   `json:"description,omitempty"`
	Assets      []string `json:"assets,omitempty"`
}

type jsonListing struct {
	Count    int              `json:"count"`
	Entities []*domain.Entity `json:"entities"`
}

// Parse imports entity drafts from JSON
func (c *JSONCodec) Parse(r io.Reader) ([]Record, error) {
	var doc jsonImport
	decoder := json.NewDecoder(r)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}

	records := make([]Record, 0, len(doc.Entities))
	for _, jr := range doc.Entities {
		records = append(records, Record{
			Draft: domain.EntityDraft{
				Name:        jr.Name,
				Price:       jr.Price,
				Colors:      jr.Colors,
				Description: jr.Description,
			},
			Assets: jr.Assets,
		})
	}
	return records, nil
}

// Export writes entities as an indented JSON document
func (c *JSONCodec) Export(entities []*domain.Entity, w io.Writer) error {
	if entities == nil {
		entities = []*domain.Entity{}
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")

	if err := encoder.Encode(jsonListing{Count: len(entities), Entities: entities}); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}

	return nil
}
