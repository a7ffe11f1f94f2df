package codec

import (
	"fmt"
	"io"
	"time"

	"assetcatalog/internal/domain"

	"gopkg.in/yaml.v3"
)

// YAMLCodec handles YAML import/export
type YAMLCodec struct{}

// NewYAMLCodec creates a new YAML codec
func NewYAMLCodec() *YAMLCodec {
	return &YAMLCodec{}
}

// Format returns the codec format identifier
func (c *YAMLCodec) Format() string {
	return "yaml"
}

// yamlDocument represents the YAML structure for entity data
type yamlDocument struct {
	Entities []yamlEntity `yaml:"entities"`
}

type yamlEntity struct {
	ID          string   `yaml:"id,omitempty"`
	Name        string   `yaml:"name"`
	Price       float64  `yaml:"price"`
	Colors      []string `yaml:"colors,omitempty"`
	Description string   `yaml:"description,omitempty"`
	// Assets holds source files on import and stored paths on export
	Assets    []string `yaml:"assets,omitempty"`
	CreatedAt string   `yaml:"created_at,omitempty"`
	UpdatedAt string   `yaml:"updated_at,omitempty"`
}

// Parse imports entity drafts from YAML
func (c *YAMLCodec) Parse(r io.Reader) ([]Record, error) {
	var doc yamlDocument
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	records := make([]Record, 0, len(doc.Entities))
	for _, ye := range doc.Entities {
		records = append(records, Record{
			Draft: domain.EntityDraft{
				Name:        ye.Name,
				Price:       ye.Price,
				Colors:      ye.Colors,
				Description: ye.Description,
			},
			Assets: ye.Assets,
		})
	}
	return records, nil
}

// Export writes entities as a YAML document
func (c *YAMLCodec) Export(entities []*domain.Entity, w io.Writer) error {
	doc := yamlDocument{Entities: make([]yamlEntity, 0, len(entities))}
	for _, e := range entities {
		doc.Entities = append(doc.Entities, yamlEntity{
			ID:          e.ID,
			Name:        e.Name,
			Price:       e.Price,
			Colors:      e.Colors,
			Description: e.Description,
			Assets:      e.AssetPaths,
			CreatedAt:   e.CreatedAt.Format(time.RFC3339),
			UpdatedAt:   e.UpdatedAt.Format(time.RFC3339),
		})
	}

	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}
	return encoder.Close()
}
