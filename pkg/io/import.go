package io

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	errs "github.com/matzehuels/floorplan/pkg/errors"
	"github.com/matzehuels/floorplan/pkg/floorplan"
)

// ReadCatalog decodes a whitespace-separated "name area ratio" catalog.
//
// Malformed lines are reported as INVALID_CATALOG errors wrapping an
// [errs.LineError] with the 1-based line number. Module validation (names,
// duplicates, positive dimensions) is done by [floorplan.NewCatalog].
// ReadCatalog does not close r.
func ReadCatalog(r io.Reader) (*floorplan.Catalog, error) {
	var mods []floorplan.Module
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		m, err := parseLine(text)
		if err != nil {
			return nil, errs.Wrap(errs.ErrCodeInvalidCatalog, &errs.LineError{Line: line, Err: err}, "malformed catalog")
		}
		mods = append(mods, m)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return floorplan.NewCatalog(mods...)
}

func parseLine(text string) (floorplan.Module, error) {
	fields := strings.Fields(text)
	if len(fields) != 3 {
		return floorplan.Module{}, fmt.Errorf("want 3 fields (name area ratio), got %d", len(fields))
	}
	area, err := strconv.ParseFloat(fields[1], 64)
	if err != nil || area <= 0 {
		return floorplan.Module{}, fmt.Errorf("module %s: invalid area %q", fields[0], fields[1])
	}
	ratio, err := strconv.ParseFloat(fields[2], 64)
	if err != nil || ratio <= 0 {
		return floorplan.Module{}, fmt.Errorf("module %s: invalid aspect ratio %q", fields[0], fields[2])
	}
	return floorplan.ModuleFromArea(fields[0], area, ratio), nil
}

// tomlCatalog is the TOML document layout.
type tomlCatalog struct {
	Modules []tomlModule `toml:"module"`
}

type tomlModule struct {
	Name   string  `toml:"name"`
	Area   float64 `toml:"area"`
	Ratio  float64 `toml:"ratio"`
	Width  float64 `toml:"width"`
	Height float64 `toml:"height"`
}

func (m tomlModule) module() (floorplan.Module, error) {
	switch {
	case m.Width != 0 || m.Height != 0:
		if m.Area != 0 || m.Ratio != 0 {
			return floorplan.Module{}, errs.New(errs.ErrCodeInvalidModule,
				"module %s: give either width/height or area/ratio, not both", m.Name)
		}
		return floorplan.Module{Name: m.Name, Width: m.Width, Height: m.Height}, nil
	case m.Area > 0 && m.Ratio > 0:
		return floorplan.ModuleFromArea(m.Name, m.Area, m.Ratio), nil
	default:
		return floorplan.Module{}, errs.New(errs.ErrCodeInvalidModule,
			"module %s: needs width and height, or a positive area and ratio", m.Name)
	}
}

// ReadCatalogTOML decodes a catalog of [[module]] tables.
// Unknown keys are rejected so typos do not silently change a module.
func ReadCatalogTOML(r io.Reader) (*floorplan.Catalog, error) {
	var doc tomlCatalog
	md, err := toml.NewDecoder(r).Decode(&doc)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidCatalog, err, "decode toml catalog")
	}
	if undec := md.Undecoded(); len(undec) > 0 {
		return nil, errs.New(errs.ErrCodeInvalidCatalog, "unknown catalog key %q", undec[0].String())
	}

	mods := make([]floorplan.Module, 0, len(doc.Modules))
	for _, tm := range doc.Modules {
		m, err := tm.module()
		if err != nil {
			return nil, err
		}
		mods = append(mods, m)
	}
	return floorplan.NewCatalog(mods...)
}

// ImportCatalog reads a catalog file, choosing the TOML decoder for .toml
// files and the text decoder otherwise.
func ImportCatalog(path string) (*floorplan.Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errs.Wrap(errs.ErrCodeFileNotFound, err, "catalog %s", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return ReadCatalogTOML(f)
	}
	return ReadCatalog(f)
}
