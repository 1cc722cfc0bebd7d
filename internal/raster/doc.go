// Package raster provides the in-memory RGB raster used by the marker
// detection pipeline, together with the ASCII PPM (P3) codec it is read from
// and written to.
//
// # Layout
//
// A Raster stores each channel in its own byte slice in row-major order. The
// pixel at (x, y) lives at index y*Width+x in all three slices:
//
//	R: [ r(0,0) r(1,0) ... r(W-1,0) r(0,1) ... r(W-1,H-1) ]
//	G: [ ... ]
//	B: [ ... ]
//
// Detection stages address pixels by flat index rather than (x, y), and step to
// neighbours with i±1 and i±Width. Stepping right from the last column lands on
// the first column of the next row; the stages rely on that behaviour.
//
// # Ownership
//
// A Raster is owned by whichever stage currently holds it. Stages either mutate
// it in place or return a fresh raster; Clone deep-copies every channel so a
// clone never shares buffers with its source.
//
// # PPM
//
// Decode and Encode handle the plain-text P3 variant of the portable pixmap
// format. The codec is registered with the standard image package under the
// name "ppm", so image.Decode recognises P3 files once this package is
// imported.
package raster
