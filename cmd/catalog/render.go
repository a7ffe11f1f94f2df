package main

import (
	"assetcatalog/internal/codec"
	"assetcatalog/internal/domain"
)

func (a *app) exporter() (codec.Exporter, error) {
	e, err := codec.ExporterFor(a.format)
	if err != nil {
		return nil, usageError{err}
	}
	return e, nil
}

// render writes entities in the selected output format
func (a *app) render(entities ...*domain.Entity) error {
	e, err := a.exporter()
	if err != nil {
		return err
	}
	return e.Export(entities, a.out)
}
