// Package sample embeds a small stylised world dataset for the example
// programs and tests.
package sample

import (
	_ "embed"

	"github.com/eltonkola/bota"
)

//go:embed shapes.json
var shapesJSON []byte

// ShapesJSON returns the raw embedded document.
func ShapesJSON() []byte { return shapesJSON }

// Dataset parses the embedded shapes.
func Dataset() (*bota.Dataset, error) {
	return bota.LoadShapesJSON(shapesJSON, bota.WithStrict())
}
