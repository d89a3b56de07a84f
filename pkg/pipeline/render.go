package pipeline

import (
	"bytes"
	"context"
	"fmt"

	"github.com/matzehuels/floorplan/pkg/floorplan"
	fio "github.com/matzehuels/floorplan/pkg/io"
	"github.com/matzehuels/floorplan/pkg/render"
	"github.com/matzehuels/floorplan/pkg/render/plan"
	"github.com/matzehuels/floorplan/pkg/render/tree"
)

// rasterScale is the PNG zoom applied to both drawings.
const rasterScale = 2.0

// artifactJob renders one report. The plan SVG and the tree DOT are built
// at most once however many formats need them.
type artifactJob struct {
	ctx  context.Context
	rep  *fio.Report
	opts Options

	planSVG []byte
	dot     string
}

var renderers = map[string]func(*artifactJob) ([]byte, error){
	FormatJSON: func(j *artifactJob) ([]byte, error) {
		var buf bytes.Buffer
		err := fio.WriteReport(j.rep, &buf)
		return buf.Bytes(), err
	},
	FormatSVG: (*artifactJob).plan,
	FormatPNG: func(j *artifactJob) ([]byte, error) {
		svg, err := j.plan()
		if err != nil {
			return nil, err
		}
		return render.ToPNG(j.ctx, svg, rasterScale)
	},
	FormatPDF: func(j *artifactJob) ([]byte, error) {
		svg, err := j.plan()
		if err != nil {
			return nil, err
		}
		return render.ToPDF(j.ctx, svg)
	},
	FormatDOT: func(j *artifactJob) ([]byte, error) {
		dot, err := j.tree()
		return []byte(dot), err
	},
	FormatTreeSVG: func(j *artifactJob) ([]byte, error) {
		dot, err := j.tree()
		if err != nil {
			return nil, err
		}
		return tree.RenderSVG(j.ctx, dot)
	},
	FormatTreePDF: func(j *artifactJob) ([]byte, error) {
		dot, err := j.tree()
		if err != nil {
			return nil, err
		}
		return tree.RenderPDF(j.ctx, dot)
	},
	FormatTreePNG: func(j *artifactJob) ([]byte, error) {
		dot, err := j.tree()
		if err != nil {
			return nil, err
		}
		return tree.RenderPNG(j.ctx, dot, rasterScale)
	},
}

// Render produces rep in each of opts.Formats. The plan formats (svg, png
// and pdf) need rep.Placement; the tree formats need only rep.Best.
func Render(ctx context.Context, rep *fio.Report, opts Options) (map[string][]byte, error) {
	opts.SetRenderDefaults()
	if err := ValidateFormats(opts.Formats); err != nil {
		return nil, err
	}

	job := &artifactJob{ctx: ctx, rep: rep, opts: opts}
	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		data, err := renderers[format](job)
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

func (j *artifactJob) plan() ([]byte, error) {
	if j.planSVG != nil {
		return j.planSVG, nil
	}
	if j.rep.Placement == nil {
		return nil, fmt.Errorf("report has no placement")
	}
	svgOpts := []plan.SVGOption{
		plan.WithWidth(j.opts.Width),
		plan.WithTitle(fmt.Sprintf("%s  (area %.4g)", j.rep.Best, j.rep.BestCost)),
	}
	if j.opts.Dimensions {
		svgOpts = append(svgOpts, plan.WithDimensions())
	}
	j.planSVG = plan.RenderSVG(j.rep.Placement, svgOpts...)
	return j.planSVG, nil
}

func (j *artifactJob) tree() (string, error) {
	if j.dot != "" {
		return j.dot, nil
	}
	root, err := floorplan.ParseTree(j.rep.Best)
	if err != nil {
		return "", err
	}
	c, _ := j.rep.CatalogOf()
	j.dot = tree.ToDOT(root, tree.Options{Catalog: c})
	return j.dot, nil
}
