package detection

import "github.com/ironsheep/plot-digitizer/internal/raster"

// Result holds the output of one detection run.
type Result struct {
	// Votes is the Hough accumulator. Every channel carries the same count.
	Votes *raster.Raster

	// Centers lists the detected marker centres in row-major scan order.
	Centers []MarkerCenter
}

// Detect runs the full pipeline on a copy of img: segmentation, edge
// detection, circle voting and peak extraction. img itself is not modified.
//
// The only error is a wrapped ErrInvalidParams; once the parameters pass
// validation every stage succeeds.
func Detect(img *raster.Raster, p Params) (*Result, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	edges := img.Clone()
	DetectEdges(edges, p.Cutoff)

	votes := Accumulate(edges, p.Radius)
	return &Result{
		Votes:   votes,
		Centers: ExtractPeaks(votes, p.PeakRatio),
	}, nil
}

// Stages runs the same pipeline as Detect but also returns the intermediate
// segmented and edge rasters, for callers that want to show them.
func Stages(img *raster.Raster, p Params) (segmented, edges *raster.Raster, res *Result, err error) {
	if err = p.Validate(); err != nil {
		return nil, nil, nil, err
	}

	segmented = img.Clone()
	Segment(segmented, p.Cutoff)

	// DetectEdges segments again internally, so it starts from the original.
	edges = img.Clone()
	DetectEdges(edges, p.Cutoff)

	votes := Accumulate(edges, p.Radius)
	return segmented, edges, &Result{
		Votes:   votes,
		Centers: ExtractPeaks(votes, p.PeakRatio),
	}, nil
}
