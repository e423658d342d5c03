package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"

	"github.com/ironsheep/image-dither/internal/codec"
	"github.com/ironsheep/image-dither/internal/dither"
	"github.com/ironsheep/image-dither/internal/filter"
	"github.com/ironsheep/image-dither/internal/raster"
	"github.com/ironsheep/image-dither/internal/sink"
)

// ditherOptions holds the flags shared by the dither and batch commands.
type ditherOptions struct {
	kernel    string
	threshold float64
	levels    int
	palette   []string
	greyscale bool
	noDiffuse bool

	region    string
	maxWidth  int
	maxHeight int
	flip      string
	normalize bool
	blur      int

	raw         bool
	compression string
}

func (o *ditherOptions) addFlags(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVarP(&o.kernel, "kernel", "k", dither.DefaultKernel.Name, "diffusion kernel (see the kernels command)")
	fs.Float64VarP(&o.threshold, "threshold", "t", dither.DefaultThreshold, "1-bit threshold on the red component")
	fs.IntVar(&o.levels, "levels", 0, "quantise each component to this many levels instead of thresholding")
	fs.StringSliceVar(&o.palette, "palette", nil, "quantise to the nearest of these hex colors")
	fs.BoolVarP(&o.greyscale, "greyscale", "g", false, "convert to Rec. 709 luminance first")
	fs.BoolVar(&o.noDiffuse, "no-diffuse", false, "quantise each pixel without spreading the error")
	addPreprocessFlags(fs, o)
	fs.BoolVar(&o.raw, "raw", false, "write raw single-channel samples instead of an image")
	fs.StringVar(&o.compression, "compression", "none", "raw stream compression: none or zstd")

	cmd.MarkFlagsMutuallyExclusive("threshold", "levels", "palette")
}

func addPreprocessFlags(fs *pflag.FlagSet, o *ditherOptions) {
	fs.StringVar(&o.region, "region", "", "work on a named region (top-left, center, ...)")
	fs.IntVar(&o.maxWidth, "max-width", 0, "scale down to at most this width")
	fs.IntVar(&o.maxHeight, "max-height", 0, "scale down to at most this height")
	fs.StringVar(&o.flip, "flip", "", "mirror the image: vertical, horizontal or both")
	fs.BoolVar(&o.normalize, "normalize", false, "stretch samples so the brightest becomes 1")
	fs.IntVar(&o.blur, "blur", 0, "box blur radius applied before dithering")
}

func (o *ditherOptions) ditherer() (*dither.Ditherer, error) {
	k, ok := dither.KernelByName(o.kernel)
	if !ok {
		return nil, fmt.Errorf("unknown kernel: %s", o.kernel)
	}
	d := &dither.Ditherer{Kernel: k}

	switch {
	case len(o.palette) > 0:
		pal, err := dither.ParsePalette(o.palette)
		if err != nil {
			return nil, err
		}
		d.Quantise = pal.Quantiser()
	case o.levels != 0:
		q, err := dither.Levels(o.levels)
		if err != nil {
			return nil, err
		}
		d.Quantise = q
	default:
		d.Quantise = dither.Threshold(o.threshold)
	}
	return d, nil
}

// process runs the preprocessing steps and then dithers.
func (o *ditherOptions) process(d *dither.Ditherer, b *raster.Buffer) (*raster.Buffer, error) {
	var err error
	if o.region != "" {
		if b, err = codec.CropQuadrant(b, o.region); err != nil {
			return nil, err
		}
	}
	if o.maxWidth != 0 || o.maxHeight != 0 {
		if b, err = codec.Fit(b, o.maxWidth, o.maxHeight); err != nil {
			return nil, err
		}
	}

	switch o.flip {
	case "":
	case "vertical":
		b.FlipVertical()
	case "horizontal":
		b.FlipHorizontal()
	case "both":
		b.FlipVertical()
		b.FlipHorizontal()
	default:
		return nil, fmt.Errorf("unknown flip direction: %s", o.flip)
	}

	if o.normalize {
		if err := b.Normalize(); err != nil {
			return nil, err
		}
	}
	if o.blur > 0 {
		if b, err = filter.BoxBlur(b, o.blur); err != nil {
			return nil, err
		}
	}
	if o.greyscale {
		dither.Greyscale(b)
	}

	if o.noDiffuse {
		return d.QuantiseOnly(b)
	}
	return d.Dither(b)
}

// write stores b at out. "-" means stdout.
func (o *ditherOptions) write(b *raster.Buffer, out string, stdout io.Writer) error {
	if o.raw {
		comp, err := sink.ParseCompression(o.compression)
		if err != nil {
			return err
		}
		if out == "-" {
			return sink.Write(stdout, b, comp)
		}
		return sink.WriteFile(out, b, comp)
	}
	if out == "-" {
		return codec.EncodePNG(stdout, b)
	}
	return codec.Save(out, b)
}

func (o *ditherOptions) run(d *dither.Ditherer, in, out string, stdout io.Writer) error {
	start := time.Now()
	b, err := codec.Load(in)
	if err != nil {
		return err
	}
	if b, err = o.process(d, b); err != nil {
		return fmt.Errorf("%s: %w", in, err)
	}
	if err := o.write(b, out, stdout); err != nil {
		return err
	}
	if debugEnabled() {
		log.Printf("dithered %s -> %s (%dx%d, kernel %s) in %s", in, out, b.Width(), b.Height(), d.Kernel.Name, time.Since(start))
	}
	return nil
}

// outputExt is the file extension batch mode gives each result.
func (o *ditherOptions) outputExt() string {
	if !o.raw {
		return ".png"
	}
	if o.compression == "zstd" {
		return ".raw.zst"
	}
	return ".raw"
}

func newDitherCmd() *cobra.Command {
	o := &ditherOptions{}
	cmd := &cobra.Command{
		Use:   "dither <input> <output>",
		Short: "Dither one image file",
		Long: `Dither one image file.

The output format follows the extension (.png, .jpg, .bmp). With --raw the
output is a headerless stream of one byte per pixel. Use "-" as output to
write to stdout.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := o.ditherer()
			if err != nil {
				return err
			}
			return o.run(d, args[0], args[1], cmd.OutOrStdout())
		},
	}
	o.addFlags(cmd)
	return cmd
}

func newBatchCmd() *cobra.Command {
	o := &ditherOptions{}
	var outDir string
	var jobs int

	cmd := &cobra.Command{
		Use:   "batch <input>...",
		Short: "Dither many image files concurrently",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := o.ditherer()
			if err != nil {
				return err
			}
			if jobs < 1 {
				return fmt.Errorf("jobs must be at least 1, got %d", jobs)
			}
			if err := os.MkdirAll(outDir, 0o755); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
			return runBatch(cmd.Context(), o, d, args, outDir, jobs)
		},
	}
	o.addFlags(cmd)
	cmd.Flags().StringVarP(&outDir, "out-dir", "o", "", "directory for the results")
	cmd.Flags().IntVarP(&jobs, "jobs", "j", runtime.NumCPU(), "files processed at once")
	_ = cmd.MarkFlagRequired("out-dir")
	return cmd
}

// runBatch dithers every input into outDir, at most jobs at a time. The
// first failure cancels work that has not started yet.
func runBatch(ctx context.Context, o *ditherOptions, d *dither.Ditherer, inputs []string, outDir string, jobs int) error {
	outputs := make([]string, len(inputs))
	seen := make(map[string]string, len(inputs))
	for i, in := range inputs {
		name := strings.TrimSuffix(filepath.Base(in), filepath.Ext(in)) + o.outputExt()
		if prev, dup := seen[name]; dup {
			return fmt.Errorf("%s and %s would both be written to %s", prev, in, name)
		}
		seen[name] = in
		outputs[i] = filepath.Join(outDir, name)
	}

	if ctx == nil {
		ctx = context.Background()
	}
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for i := range inputs {
		in, out := inputs[i], outputs[i]
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return o.run(d, in, out, io.Discard)
		})
	}
	return g.Wait()
}

func newKernelsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "kernels",
		Short: "List the diffusion kernels",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tKERNEL\tDIVISOR\tTOTAL\tTAPS")
			for _, name := range dither.KernelNames() {
				k, _ := dither.KernelByName(name)
				fmt.Fprintf(w, "%s\t%s\t%g\t%g\t%d\n", name, k.Name, k.Divisor, k.Total, len(k.Taps))
			}
			return w.Flush()
		},
	}
}
