package importer

import (
	"io"

	"github.com/dgallion1/tref/internal/forest"
	"github.com/dgallion1/tref/internal/tref"
)

// TrefImporter reads native TREF documents. The filename is not used.
type TrefImporter struct {
	Options []tref.Option
}

func (p *TrefImporter) Import(r io.Reader, _ string) (*forest.Forest[string], error) {
	return tref.ParseSimple(r, p.Options...)
}
