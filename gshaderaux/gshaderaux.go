// Package gshaderaux contains helpers to get started generating lit shaders
// quickly. Applications with specific needs should drive hlslpass directly.
package gshaderaux

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"time"

	math "github.com/chewxy/math32"
	"github.com/soypat/gshader"
	"github.com/soypat/gshader/hlslpass"
)

// InterpolatorLimit is the number of vertex output registers of shader model 5.
const InterpolatorLimit = 32

type GenerateConfig struct {
	// Name is the ShaderLab shader name, i.e. "Custom/Lit".
	Name    string
	Options hlslpass.MaterialOptions
	// Templates overrides the built-in pass templates.
	Templates fs.FS
	Silent    bool
}

// Generate writes the lit shader of g to w and prints a per pass summary of
// interpolator usage unless cfg.Silent is set.
func Generate(w io.Writer, g *gshader.Graph, cfg GenerateConfig) error {
	if w == nil {
		return errors.New("Generate requires an output writer")
	} else if cfg.Name == "" {
		return errors.New("Generate requires a shader name")
	}
	log := func(args ...any) {
		if !cfg.Silent {
			fmt.Println(args...)
		}
	}
	gen := hlslpass.Generator{Templates: cfg.Templates}
	watch := stopwatch()
	passes := hlslpass.LitPipeline()
	for i := range passes {
		pass := &passes[i]
		if !pass.IsEnabled(cfg.Options) {
			continue
		}
		report, err := gen.Report(pass, g, cfg.Options)
		if err != nil {
			return err
		}
		used := max(report.Registers, report.RegistersDS)
		log(pass.Name, "\tactive fields", report.Active.Len(), "\tinterpolators", report.Interpolators+report.InterpolatorsDS,
			"\t", percent(used, InterpolatorLimit), "percent of limit", "\tvertex attributes", len(report.VertexLayout))
		if err := CheckRegisters(report); err != nil {
			return err
		}
	}
	log("computed pass reports in", watch())

	watch = stopwatch()
	n, err := gen.WriteShader(w, cfg.Name, g, cfg.Options)
	if err != nil {
		return fmt.Errorf("writing shader %q: %w", cfg.Name, err)
	}
	filename := "shader"
	if fp, ok := w.(*os.File); ok {
		filename = fp.Name()
	}
	log("wrote", n, "bytes to", filename, "in", watch())
	return nil
}

// CheckRegisters reports an error when a stage of the pass writes more than
// [InterpolatorLimit] output registers. Each stage has its own limit.
func CheckRegisters(report hlslpass.PassReport) error {
	var errs []error
	if report.Registers > InterpolatorLimit {
		errs = append(errs, fmt.Errorf("pass %s: VaryingsMeshToPS uses %d registers, limit is %d", report.Name, report.Registers, InterpolatorLimit))
	}
	if report.RegistersDS > InterpolatorLimit {
		errs = append(errs, fmt.Errorf("pass %s: VaryingsMeshToDS uses %d registers, limit is %d", report.Name, report.RegistersDS, InterpolatorLimit))
	}
	return errors.Join(errs...)
}

// GenerateFile creates filename and writes the lit shader of g to it.
func GenerateFile(filename string, g *gshader.Graph, cfg GenerateConfig) error {
	fp, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer fp.Close()
	err = Generate(fp, g, cfg)
	if err != nil {
		return err
	}
	return fp.Close()
}

func stopwatch() func() time.Duration {
	start := time.Now()
	return func() time.Duration {
		return time.Since(start)
	}
}

func percent(num, denom int) float32 {
	return math.Trunc(10000*float32(num)/float32(denom)) / 100
}
