package codec

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"assetcatalog/internal/domain"
)

var (
	tableHeaderStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	tableCellStyle   = lipgloss.NewStyle().Padding(0, 1)
	tableBorderStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "8", Dark: "8"})
)

// TableCodec renders entity listings for terminals. It is export only.
type TableCodec struct{}

// NewTableCodec creates a new table codec
func NewTableCodec() *TableCodec {
	return &TableCodec{}
}

// Format returns the codec format identifier
func (c *TableCodec) Format() string {
	return "table"
}

// Export writes entities as a bordered table
func (c *TableCodec) Export(entities []*domain.Entity, w io.Writer) error {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(tableBorderStyle).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return tableHeaderStyle
			}
			return tableCellStyle
		}).
		Headers("ID", "NAME", "PRICE", "COLORS", "ASSETS")

	for _, e := range entities {
		t.Row(
			e.ID,
			e.Name,
			strconv.FormatFloat(e.Price, 'f', 2, 64),
			strings.Join(e.Colors, ", "),
			strconv.Itoa(len(e.AssetPaths)),
		)
	}

	if _, err := fmt.Fprintln(w, t.String()); err != nil {
		return fmt.Errorf("failed to write table: %w", err)
	}
	return nil
}
