package cli

import (
	"fmt"
	stdimage "image"
	"strconv"
	"time"

	"github.com/jmylchreest/ryijy/internal/image"
	"github.com/jmylchreest/ryijy/internal/pattern"
	"github.com/jmylchreest/ryijy/internal/quantise"
	"github.com/jmylchreest/ryijy/internal/seed"
	"github.com/jmylchreest/ryijy/internal/util/imagecache"
	"github.com/spf13/cobra"
)

var (
	// Reduce command flags
	reduceColours        int
	reducePixelSize      int
	reduceColumns        int
	reduceRows           int
	reduceAspect         image.Aspect
	reduceKernel         string
	reduceSamplingCap    int
	reduceSignificance   float64
	reduceMergeThreshold float64
	reduceWorkers        int
	reduceSeedMode       string
	reduceSeed           int64
	reduceIdentifiers    string
	reduceOutput         string
	reduceCompress       bool
	reduceFormat         string
	reducePreview        string
	reduceCache          bool
	reduceCacheDir       string
)

// reduceCmd represents the reduce command
var reduceCmd = &cobra.Command{
	Use:   "reduce <image>",
	Short: "Reduce an image to a knot pattern",
	Long: `Reduce an image to a grid of knots coloured from a small yarn palette.

The image is first pixelated to the knot grid, either to an explicit
--columns/--rows size or by treating every --pixel-size source pixels as one
knot. Without either the image is used at its native resolution. The
colours are then clustered into at most --colours yarns and every knot is
assigned its nearest yarn. Fully transparent pixels become empty knots.

Supported image formats: JPEG, PNG, GIF, WebP. HTTP(S) URLs are fetched.

Examples:
  # Reduce to 12 yarns, one knot per 8 source pixels
  ryijy reduce -c 12 --pixel-size 8 -o rug.json photo.jpg

  # Explicit 60x90 knot grid with tall knots, saved compressed
  ryijy reduce --columns 60 --rows 90 --aspect 2:3 -o rug.json.xz photo.png

  # Reproduce an earlier run exactly
  ryijy reduce --seed 1234567 -o rug.json photo.jpg

  # Print the full pattern document to stdout
  ryijy reduce -f json --pixel-size 16 photo.jpg`,
	Args: cobra.ExactArgs(1),
	RunE: runReduce,
}

func init() {
	defaults := quantise.DefaultOptions()

	reduceCmd.Flags().IntVarP(&reduceColours, "colours", "c", defaults.K, "maximum number of yarn colours")
	reduceCmd.Flags().IntVar(&reducePixelSize, "pixel-size", 0, "source pixels per knot width (0 = native resolution)")
	reduceCmd.Flags().IntVar(&reduceColumns, "columns", 0, "knot columns (requires --rows)")
	reduceCmd.Flags().IntVar(&reduceRows, "rows", 0, "knot rows (requires --columns)")
	reduceCmd.Flags().Var(newAspectValue(&reduceAspect, image.Square), "aspect", "knot width:height ratio")
	reduceCmd.Flags().Var(newChoiceValue(&reduceKernel, string(image.KernelBilinear), kernelChoices()...),
		"kernel", "resampling kernel used to pixelate")
	reduceCmd.Flags().IntVar(&reduceSamplingCap, "sampling-cap", defaults.SamplingCap, "maximum pixels sampled for clustering")
	reduceCmd.Flags().Float64Var(&reduceSignificance, "significance", defaults.SignificanceFraction,
		"share of pixels the significant colours must cover (0-1]")
	reduceCmd.Flags().Float64Var(&reduceMergeThreshold, "merge-threshold", defaults.MergeThreshold,
		"merge yarns closer than this RGB distance (0 disables)")
	reduceCmd.Flags().IntVar(&reduceWorkers, "workers", 0, "parallel workers (0 = number of CPUs)")
	reduceCmd.Flags().Var(newChoiceValue(&reduceSeedMode, string(seed.ModeContent), seedModeChoices()...),
		"seed-mode", "how the random seed is chosen")
	reduceCmd.Flags().Int64Var(&reduceSeed, "seed", 0, "seed value (implies --seed-mode manual)")
	reduceCmd.Flags().Var(newChoiceValue(&reduceIdentifiers, string(quantise.IdentifierLetters), identifierChoices()...),
		"identifiers", "how yarns are labelled")
	reduceCmd.Flags().StringVarP(&reduceOutput, "output", "o", "", "pattern file to write (.xz suffix compresses)")
	reduceCmd.Flags().BoolVar(&reduceCompress, "compress", false, "xz-compress the pattern file")
	reduceCmd.Flags().BoolVar(&reduceCache, "cache", false, "keep downloaded images in the image cache")
	reduceCmd.Flags().StringVar(&reduceCacheDir, "cache-dir", "", "image cache directory (default: user cache dir)")
	addFormatFlag(reduceCmd, &reduceFormat)
	addPreviewFlag(reduceCmd, &reducePreview)

	reduceCmd.MarkFlagsRequiredTogether("columns", "rows")
	reduceCmd.MarkFlagsMutuallyExclusive("pixel-size", "columns")
	reduceCmd.MarkFlagsMutuallyExclusive("pixel-size", "rows")
}

// runReduce executes the reduce command.
func runReduce(cmd *cobra.Command, args []string) error {
	imagePath := args[0]

	if err := image.ValidateImagePath(imagePath); err != nil {
		return fmt.Errorf("invalid image path: %w", err)
	}

	opts := quantise.Options{
		K:                    reduceColours,
		SamplingCap:          reduceSamplingCap,
		SignificanceFraction: reduceSignificance,
		MergeThreshold:       reduceMergeThreshold,
		Workers:              reduceWorkers,
		Logger:               logger.Named("quantise"),
	}
	if err := opts.Validate(); err != nil {
		return err
	}

	logger.Debug("loading image", "path", imagePath)
	loader := image.NewSmartLoader()
	if reduceCache || reduceCacheDir != "" {
		loader = loader.WithCache(imagecache.Options{Dir: reduceCacheDir})
	}
	img, err := loader.Load(cmd.Context(), imagePath)
	if err != nil {
		return fmt.Errorf("failed to load image: %w", err)
	}
	bounds := img.Bounds()
	logger.Debug("image loaded", "width", bounds.Dx(), "height", bounds.Dy())

	knots, err := pixelate(img)
	if err != nil {
		return err
	}

	buf, err := image.ToPixelBuffer(knots)
	if err != nil {
		return fmt.Errorf("failed to read pixels: %w", err)
	}

	runSeed, err := resolveSeed(cmd, img, imagePath)
	if err != nil {
		return err
	}
	opts.Seed = &runSeed

	result, err := quantise.Reduce(buf, opts)
	if err != nil {
		return fmt.Errorf("failed to reduce image: %w", err)
	}

	doc := pattern.FromResult(result, quantise.IdentifierMode(reduceIdentifiers))
	doc.Source = imagePath
	doc.Created = time.Now().UTC()
	doc.Settings = map[string]string{
		"aspect": reduceAspect.String(),
		"kernel": reduceKernel,
	}
	if reducePixelSize > 0 {
		doc.Settings["pixel_size"] = strconv.Itoa(reducePixelSize)
	}

	logger.Debug("reduced image", "columns", doc.Columns, "rows", doc.Rows,
		"colours", len(doc.Palette), "seed", doc.Seed)

	outputPath := reduceOutput
	if reduceCompress && outputPath != "" && !pattern.IsCompressed(outputPath) {
		outputPath += pattern.CompressedSuffix
	}

	if reduceFormat == formatJSON {
		if outputPath != "" {
			if err := writePattern(cmd, doc, outputPath); err != nil {
				return err
			}
			if globalQuiet {
				return nil
			}
		}
		return writePattern(cmd, doc, "")
	}

	if outputPath != "" {
		if err := writePattern(cmd, doc, outputPath); err != nil {
			return err
		}
	}
	if globalQuiet {
		return nil
	}

	out := cmd.OutOrStdout()
	fmt.Fprint(out, formatLegend(doc.Palette, legendTotal(doc.Palette), showPreview(reducePreview, out)))
	fmt.Fprintf(out, "\n%dx%d knots, %d colours, seed %d\n", doc.Columns, doc.Rows, len(doc.Palette), doc.Seed)
	return nil
}

// pixelate scales img to the knot grid selected by the size flags.
func pixelate(img stdimage.Image) (stdimage.Image, error) {
	bounds := img.Bounds()
	cols, rows := bounds.Dx(), bounds.Dy()

	switch {
	case reduceColumns > 0 || reduceRows > 0:
		if reduceColumns < 1 || reduceRows < 1 {
			return nil, fmt.Errorf("--columns and --rows must both be at least 1")
		}
		cols, rows = reduceColumns, reduceRows
	case reducePixelSize > 0:
		var err error
		cols, rows, err = image.GridSize(bounds, reducePixelSize, reduceAspect)
		if err != nil {
			return nil, fmt.Errorf("invalid grid size: %w", err)
		}
	case reducePixelSize < 0:
		return nil, fmt.Errorf("--pixel-size must not be negative, got %d", reducePixelSize)
	}

	if cols == bounds.Dx() && rows == bounds.Dy() {
		return img, nil
	}

	kernel, err := image.ParseKernel(reduceKernel)
	if err != nil {
		return nil, err
	}
	logger.Debug("pixelating image", "columns", cols, "rows", rows, "kernel", kernel)
	knots, err := image.Pixelate(img, cols, rows, kernel)
	if err != nil {
		return nil, fmt.Errorf("failed to pixelate image: %w", err)
	}
	return knots, nil
}

// resolveSeed picks the run seed from --seed-mode and --seed.
func resolveSeed(cmd *cobra.Command, img stdimage.Image, imagePath string) (int64, error) {
	mode := seed.Mode(reduceSeedMode)
	cfg := seed.Config{Mode: mode}

	if cmd.Flags().Changed("seed") {
		if cmd.Flags().Changed("seed-mode") && mode != seed.ModeManual {
			return 0, fmt.Errorf("--seed requires --seed-mode manual, got %s", mode)
		}
		cfg.Mode = seed.ModeManual
		cfg.Value = &reduceSeed
	}

	s, err := seed.Calculate(img, imagePath, cfg)
	if err != nil {
		return 0, fmt.Errorf("failed to resolve seed: %w", err)
	}
	return s, nil
}

func seedModeChoices() []string {
	modes := seed.ValidModes()
	out := make([]string, len(modes))
	for i, m := range modes {
		out[i] = string(m)
	}
	return out
}

func identifierChoices() []string {
	modes := quantise.ValidIdentifierModes()
	out := make([]string, len(modes))
	for i, m := range modes {
		out[i] = string(m)
	}
	return out
}
