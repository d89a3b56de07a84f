package floorplan

import (
	"math"
	"slices"

	errs "github.com/matzehuels/floorplan/pkg/errors"
)

// Module is a rectangular block with a fixed footprint. Width and Height
// describe its natural orientation; the optimizer may also rotate it by
// 90 degrees.
type Module struct {
	Name   string  `json:"name" toml:"name"`
	Width  float64 `json:"width" toml:"width"`
	Height float64 `json:"height" toml:"height"`
}

// ModuleFromArea builds a module from its area and aspect ratio, the form
// used by catalog files: width = sqrt(area*ratio), height = sqrt(area/ratio).
func ModuleFromArea(name string, area, ratio float64) Module {
	return Module{
		Name:   name,
		Width:  math.Sqrt(area * ratio),
		Height: math.Sqrt(area / ratio),
	}
}

// Area returns Width*Height.
func (m Module) Area() float64 { return m.Width * m.Height }

// IsSquare reports whether rotating the module yields the same footprint.
func (m Module) IsSquare() bool { return m.Width == m.Height }

// Catalog is an immutable set of modules keyed by name.
// It is safe for concurrent use once constructed.
type Catalog struct {
	modules map[string]Module
	names   []string
}

// NewCatalog builds a catalog from the given modules. It fails with
// INVALID_MODULE on bad names, duplicate names or non-positive dimensions.
func NewCatalog(modules ...Module) (*Catalog, error) {
	if len(modules) == 0 {
		return nil, errs.New(errs.ErrCodeInvalidCatalog, "catalog has no modules")
	}

	c := &Catalog{
		modules: make(map[string]Module, len(modules)),
		names:   make([]string, 0, len(modules)),
	}
	for _, m := range modules {
		if err := errs.ValidateModuleName(m.Name); err != nil {
			return nil, err
		}
		if !validDimension(m.Width) || !validDimension(m.Height) {
			return nil, errs.New(errs.ErrCodeInvalidModule,
				"module %q has invalid footprint %gx%g", m.Name, m.Width, m.Height)
		}
		if _, dup := c.modules[m.Name]; dup {
			return nil, errs.New(errs.ErrCodeInvalidModule, "duplicate module %q", m.Name)
		}
		c.modules[m.Name] = m
		c.names = append(c.names, m.Name)
	}
	slices.Sort(c.names)
	return c, nil
}

func validDimension(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}

// Get returns the module with the given name.
func (c *Catalog) Get(name string) (Module, bool) {
	m, ok := c.modules[name]
	return m, ok
}

// Len returns the number of modules.
func (c *Catalog) Len() int { return len(c.modules) }

// Names returns the module names in sorted order. The slice is a copy.
func (c *Catalog) Names() []string { return slices.Clone(c.names) }

// Modules returns all modules sorted by name.
func (c *Catalog) Modules() []Module {
	out := make([]Module, 0, len(c.names))
	for _, n := range c.names {
		out = append(out, c.modules[n])
	}
	return out
}

// TotalArea is the summed area of all modules, a lower bound on the cost
// of any floorplan over the whole catalog.
func (c *Catalog) TotalArea() float64 {
	var total float64
	for _, m := range c.Modules() {
		total += m.Area()
	}
	return total
}
