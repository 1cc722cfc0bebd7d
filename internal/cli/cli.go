package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/ironsheep/plot-digitizer/internal/detection"
	"github.com/ironsheep/plot-digitizer/internal/imaging"
	"github.com/ironsheep/plot-digitizer/internal/logger"
	"github.com/ironsheep/plot-digitizer/internal/plotspace"
	"github.com/ironsheep/plot-digitizer/internal/raster"
)

// Exit codes.
const (
	ExitOK    = 0
	ExitError = 1
	ExitUsage = 2
)

// LogLevelEnv overrides the default log level when -v is not given.
const LogLevelEnv = "PLOT_DIGITIZER_LOG_LEVEL"

const usageText = `plot-digitizer extracts the data points from a scanned plot.
Reads an ASCII PPM (P3) image from stdin, or the image FILE, and prints one
"x<TAB>y" line per detected marker to stderr.

usage:
	plot-digitizer [-x x][-X X][-y y][-Y Y][-r R][-o > votes.ppm] < scan.ppm
	plot-digitizer [flags] FILE

Optional arguments:
	-r	R is the radius of each data point in pixels [default:8]
	-x	x is the lowerbound x scale [default:0]
	-X	X is the upperbound x scale [default:1]
	-y	y is the lowerbound y scale [default:0]
	-Y	Y is the upperbound y scale [default:1]
	-o	write the vote raster to stdout as PPM
	-cutoff	luminance threshold 0-255 [default:150]
	-peak	fraction of the strongest vote a centre must exceed [default:0.8]
	-plot	write a scatter re-plot of the points to FILE (png, svg, pdf, html)
	-fit	log a least-squares line through the points
	-v	debug logging
	-h	show this help
`

type options struct {
	params   detection.Params
	axes     plotspace.Axes
	votesOut bool
	plotPath string
	fit      bool
	verbose  bool
	input    string
}

// Messages logged for each bound or radius given on the command line.
var echoes = map[string]string{
	"r": "expected radius",
	"x": "lowerbound x",
	"X": "upperbound x",
	"y": "lowerbound y",
	"Y": "upperbound y",
}

func parseFlags(args []string, stderr io.Writer) (*options, *flag.FlagSet, error) {
	o := options{axes: plotspace.DefaultAxes()}
	var cutoff uint

	fs := flag.NewFlagSet("plot-digitizer", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { fmt.Fprint(stderr, usageText) }

	fs.Float64Var(&o.params.Radius, "r", detection.DefaultRadius, "marker radius in pixels")
	fs.Float64Var(&o.axes.XLow, "x", 0, "lowerbound x scale")
	fs.Float64Var(&o.axes.XHigh, "X", 1, "upperbound x scale")
	fs.Float64Var(&o.axes.YLow, "y", 0, "lowerbound y scale")
	fs.Float64Var(&o.axes.YHigh, "Y", 1, "upperbound y scale")
	fs.BoolVar(&o.votesOut, "o", false, "write the vote raster to stdout")
	fs.UintVar(&cutoff, "cutoff", detection.DefaultCutoff, "luminance threshold")
	fs.Float64Var(&o.params.PeakRatio, "peak", detection.DefaultPeakRatio, "peak ratio")
	fs.StringVar(&o.plotPath, "plot", "", "write a re-plot to this file")
	fs.BoolVar(&o.fit, "fit", false, "log a linear fit of the points")
	fs.BoolVar(&o.verbose, "v", false, "debug logging")

	if err := fs.Parse(args); err != nil {
		return nil, fs, err
	}
	if cutoff > 255 {
		return nil, fs, usageError(fs, errors.Errorf("cutoff %d outside 0-255", cutoff))
	}
	o.params.Cutoff = uint8(cutoff)
	if err := o.params.Validate(); err != nil {
		return nil, fs, usageError(fs, err)
	}

	switch fs.NArg() {
	case 0:
	case 1:
		o.input = fs.Arg(0)
	default:
		return nil, fs, usageError(fs, errors.Errorf("expected at most one input file, got %d", fs.NArg()))
	}
	return &o, fs, nil
}

// usageError reports err the way flag reports its own parse errors.
func usageError(fs *flag.FlagSet, err error) error {
	fmt.Fprintln(fs.Output(), err)
	fs.Usage()
	return err
}

// Run executes one command-line invocation and returns the process exit
// code. The image is read from stdin unless a file argument is given; the
// vote raster (with -o) goes to stdout and everything else to stderr.
func Run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	o, fs, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return ExitUsage
		}
		return ExitError
	}

	level := os.Getenv(LogLevelEnv)
	if o.verbose {
		level = "debug"
	}
	entry := logrus.NewEntry(logger.New(stderr, level))
	ctx := logger.WithLogEntry(context.Background(), entry)

	fs.Visit(func(f *flag.Flag) {
		if msg, ok := echoes[f.Name]; ok {
			entry.Infof("%s: %f", msg, f.Value.(flag.Getter).Get())
		}
	})

	img, err := readInput(o.input, stdin)
	if err != nil {
		if errors.Is(err, raster.ErrMalformed) {
			fmt.Fprintf(stderr, "problem reading in ppm image: %v\n", err)
			fs.Usage()
			return ExitUsage
		}
		entry.WithError(err).Error("cannot read input")
		return ExitError
	}

	if err := run(ctx, o, img, stdout, stderr); err != nil {
		entry.WithError(err).Error("extraction failed")
		return ExitError
	}
	return ExitOK
}

func readInput(path string, stdin io.Reader) (*raster.Raster, error) {
	if path == "" {
		return raster.Decode(stdin)
	}
	return imaging.NewImageCache().LoadRaster(path)
}

func run(ctx context.Context, o *options, img *raster.Raster, stdout, stderr io.Writer) error {
	log := logger.Entry(ctx)

	res, err := detection.Detect(img, o.params)
	if err != nil {
		return err
	}
	log.WithFields(logrus.Fields{
		"width":   img.Width,
		"height":  img.Height,
		"markers": len(res.Centers),
	}).Debug("detection finished")

	points := plotspace.MapAll(res.Centers, img.Width, img.Height, o.axes)
	for _, p := range points {
		if _, err := fmt.Fprintf(stderr, "%f\t%f\n", p.X, p.Y); err != nil {
			return errors.Wrap(err, "write coordinates")
		}
	}

	if o.fit {
		f, err := plotspace.LinearFit(points)
		if err != nil {
			log.WithError(err).Warn("no linear fit")
		} else {
			log.WithFields(logrus.Fields{
				"slope":     f.Slope,
				"intercept": f.Intercept,
				"r_squared": f.RSquared,
				"n":         f.N,
			}).Info("linear fit")
		}
	}

	if o.plotPath != "" {
		if err := plotspace.RenderFile(points, o.axes, o.plotPath); err != nil {
			return err
		}
		log.WithField("path", o.plotPath).Debug("re-plot written")
	}

	if o.votesOut {
		if err := raster.Encode(stdout, res.Votes); err != nil {
			return errors.Wrap(err, "write vote raster")
		}
	}
	return nil
}
