package pipeline

import (
	"context"
	"time"

	"github.com/matzehuels/floorplan/pkg/cache"
	errs "github.com/matzehuels/floorplan/pkg/errors"
	"github.com/matzehuels/floorplan/pkg/floorplan"
	fio "github.com/matzehuels/floorplan/pkg/io"
	"github.com/matzehuels/floorplan/pkg/observability"
)

// LoadCatalog builds the catalog named by opts.
func LoadCatalog(ctx context.Context, opts Options) (*floorplan.Catalog, error) {
	source := opts.CatalogSource()
	observability.Anneal().OnLoadStart(ctx, source)
	start := time.Now()

	var (
		c   *floorplan.Catalog
		err error
	)
	if opts.CatalogPath != "" {
		c, err = fio.ImportCatalog(opts.CatalogPath)
	} else {
		c, err = floorplan.NewCatalog(opts.Modules...)
	}

	n := 0
	if c != nil {
		n = c.Len()
	}
	observability.Anneal().OnLoadComplete(ctx, source, n, time.Since(start), err)
	return c, err
}

// CatalogHash is the content hash of c used in cache keys. It depends only
// on the modules, not on where they were read from.
func CatalogHash(c *floorplan.Catalog) string {
	h, _ := cache.HashJSON(c.Modules())
	return h
}

// InitialExpression returns the starting expression for c: the parsed
// initial string, or the chain over the sorted module names when it is
// empty. The expression must be valid and use every module exactly once.
func InitialExpression(c *floorplan.Catalog, initial string) (floorplan.Expression, error) {
	if initial == "" {
		return floorplan.Chain(c.Names()), nil
	}
	e := floorplan.ParseExpression(initial)
	if err := CheckExpression(c, e); err != nil {
		return nil, err
	}
	if n := len(e.Operands()); n != c.Len() {
		return nil, errs.New(errs.ErrCodeInvalidExpression,
			"expression places %d of %d modules", n, c.Len())
	}
	return e, nil
}

// CheckExpression validates e and checks every operand is in c.
func CheckExpression(c *floorplan.Catalog, e floorplan.Expression) error {
	if err := floorplan.Validate(e); err != nil {
		return err
	}
	for _, op := range e.Operands() {
		if _, ok := c.Get(op); !ok {
			return errs.New(errs.ErrCodeUnknownModule, "unknown module %q", op)
		}
	}
	return nil
}
