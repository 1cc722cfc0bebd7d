// Package cli is the plot-digitizer command line.
//
// The command reads a scanned plot (a P3 PPM on stdin, or any image file
// given as an argument), finds the circular markers and prints each one's
// plot coordinates as "x<TAB>y" on stderr, top row first. With -o the vote
// raster is written to stdout as P3, so it can be piped straight into an
// image viewer:
//
//	plot-digitizer -r 6 -x 0 -X 10 -y 0 -Y 100 -o < scan.ppm > votes.ppm
//
// Exit status is 0 on success, 1 for bad flags or unreadable files, and 2
// for -h or an input that is not a valid P3 image.
package cli
