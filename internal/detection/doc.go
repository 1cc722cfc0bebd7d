// Package detection locates circular plot markers in a raster with a
// fixed-radius Hough transform.
//
// # Pipeline
//
// Detect runs four stages over a raster.Raster:
//
//  1. Segment: luminance threshold to pure black and white. Bright pixels
//     become black, dark pixels (ink) become white.
//  2. DetectEdges: colour each interior pixel by the sign of its stronger
//     gradient, blue for positive and green for negative, black for flat.
//  3. Accumulate: every blue or green pixel votes along a circle of the
//     expected marker radius in a fresh, zeroed vote raster.
//  4. ExtractPeaks: interior pixels whose vote count exceeds a fraction of the
//     maximum and is not below any 4-neighbour are reported as marker centres.
//
// Segment and DetectEdges work in place. Accumulate returns a new raster and
// leaves its input alone. Detect clones its input first, so callers keep their
// original.
//
// # Interior rows
//
// Every stage after segmentation walks the flat index range
// [Width, Width*Height-Width), skipping the first and last rows so that the
// i±Width neighbours always exist. Horizontal neighbours are not clamped: the
// right neighbour of the last column is the first pixel of the next row, and
// circle votes may wrap across rows. Both effects are part of the detector's
// reproducible output.
//
// # Determinism
//
// All stages are single-threaded loops over fixed buffers. The same raster and
// Params always give the same vote raster and the same ordered centres.
package detection
