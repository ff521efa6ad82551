// Package jobs runs pattern and mesh work on a bounded worker pool.
// Each request becomes a job correlated by id; progress, result and
// cancellation all travel through that id, and one failing job never
// disturbs another.
package jobs

import (
	"errors"
	"fmt"
	"image"

	"github.com/printlab/dotforge/pkg/mesh"
	"github.com/printlab/dotforge/pkg/pattern"
	"github.com/printlab/dotforge/pkg/quality"
	"github.com/printlab/dotforge/pkg/raster"
)

// Kind selects what a job does.
type Kind string

const (
	// KindConvert turns an image or CSV input into a dot pattern.
	KindConvert Kind = "convert"
	// KindGenerate builds a mesh from an existing pattern.
	KindGenerate Kind = "generate"
	// KindPipeline runs convert and generate back to back.
	KindPipeline Kind = "pipeline"
	// KindAssess scores an existing mesh.
	KindAssess Kind = "assess"
)

var (
	// ErrInvalidRequest marks a request missing its required input.
	ErrInvalidRequest = errors.New("invalid job request")
	// ErrJobExists is returned when a submitted id is still running.
	ErrJobExists = errors.New("job id already active")
	// ErrClosed is returned by Submit after Shutdown.
	ErrClosed = errors.New("coordinator is shut down")
)

// Request describes one unit of work. ID may be empty, in which case
// the coordinator assigns one.
type Request struct {
	ID   string
	Kind Kind

	// Inputs. Convert and pipeline read Pattern, Image or CSV, in that
	// order of preference; generate reads Pattern; assess reads Mesh.
	Image   image.Image
	CSV     string
	Pattern *pattern.Pattern
	Mesh    *mesh.Mesh

	Conversion raster.Params
	Model      mesh.Params
	Quality    quality.Config

	// AssessQuality attaches a quality report to generate and pipeline
	// results. An assessment failure is reported but does not fail the
	// job.
	AssessQuality bool
	// ExportOBJ attaches the serialized mesh to the result. Empty
	// meshes are skipped.
	ExportOBJ bool
}

// Result carries whatever the job produced.
type Result struct {
	Pattern *pattern.Pattern
	Mesh    *mesh.Mesh
	Stats   mesh.Stats
	Report  *quality.Report
	OBJ     []byte
}

func validateRequest(req Request) error {
	switch req.Kind {
	case KindConvert, KindPipeline:
		if req.Pattern == nil && req.Image == nil && req.CSV == "" {
			return fmt.Errorf("%w: %s needs a pattern, image or csv input", ErrInvalidRequest, req.Kind)
		}
	case KindGenerate:
		if req.Pattern == nil {
			return fmt.Errorf("%w: generate needs a pattern", ErrInvalidRequest)
		}
	case KindAssess:
		if req.Mesh == nil {
			return fmt.Errorf("%w: assess needs a mesh", ErrInvalidRequest)
		}
	default:
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidRequest, req.Kind)
	}
	return nil
}
