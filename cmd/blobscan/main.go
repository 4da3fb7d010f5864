package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/ivlev/blobscan/internal/config"
	"github.com/ivlev/blobscan/internal/effects"
	"github.com/ivlev/blobscan/internal/engine"
	"github.com/ivlev/blobscan/internal/raster"
	"github.com/ivlev/blobscan/internal/render"
	"github.com/ivlev/blobscan/internal/report"
	"github.com/ivlev/blobscan/internal/sink"
	"github.com/ivlev/blobscan/internal/source"
	"github.com/ivlev/blobscan/internal/system"
)

const usage = `Usage: blobscan <command> [flags]

Detection:
  blobs       detect blobs and render them (outline, fill, heatmap)
  report      detect blobs and write a JSON report
  histogram   chart the luminance distribution as HTML
  threshold   render the three-tone percentile visualization

Filters:
  view        decode the input and preview or re-encode it
  dotart      halftone dot rendering (raster or JSON dot plan)
  grayscale, invert, sepia, gblur, edge, resize

Run 'blobscan <command> -h' for command flags.
`

func main() {
	system.InitResourceLimits()

	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	cmd, args := os.Args[1], os.Args[2:]
	var err error
	switch cmd {
	case "blobs":
		err = runBlobs(args, "")
	case "report":
		err = runBlobs(args, "report")
	case "histogram":
		err = runHistogram(args)
	case "threshold":
		err = runThreshold(args)
	case "dotart":
		err = runDotart(args)
	case "view":
		err = runEffect(cmd, args)
	case "grayscale", "invert", "sepia", "gblur", "edge", "resize":
		err = runEffect(cmd, args)
	case "-h", "--help", "help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "[-] Unknown command: %s\n\n%s", cmd, usage)
		os.Exit(2)
	}
	if err != nil {
		log.Fatalf("[-] Error: %v", err)
	}
}

// commonFlags registers the flags shared by every detection command.
func commonFlags(fs *flag.FlagSet, cfg *config.Config) {
	fs.StringVar(&cfg.InputPath, "input", "", "Image, directory, PDF, or qr:TEXT pattern")
	fs.StringVar(&cfg.OutputPath, "output", "", "Output path (auto-generated when empty)")
	fs.IntVar(&cfg.DPI, "dpi", 150, "Rasterization DPI for PDF inputs")
	fs.IntVar(&cfg.Workers, "workers", runtime.NumCPU(), "Worker goroutines")
	fs.BoolVar(&cfg.ShowStats, "stats", false, "Print a performance report")
	fs.BoolVar(&cfg.Preview, "preview", false, "Preview the result in the terminal")
}

func runBlobs(args []string, forceMode string) error {
	fs := flag.NewFlagSet("blobs", flag.ExitOnError)
	cfg := &config.Config{}
	commonFlags(fs, cfg)
	fs.Float64Var(&cfg.Percentile, "percentile", 0.5, "Threshold percentile in [0,1]")
	fs.StringVar(&cfg.Direction, "direction", "below", "Threshold side: below (dark) or above (bright)")
	fs.StringVar(&cfg.TargetColor, "color", "", "Target color #RRGGBB; switches to color-proximity masking")
	fs.Float64Var(&cfg.MaxDistance, "distance", 50, "Maximum color distance for -color")
	fs.BoolVar(&cfg.Conn8, "conn8", false, "Use 8-connectivity (diagonals merge)")
	fs.IntVar(&cfg.MinArea, "min-area", 0, "Drop blobs smaller than this many pixels")
	fs.StringVar(&cfg.Mode, "mode", "outline", "Render mode: outline, fill, heatmap, report")
	fs.StringVar(&cfg.Background, "background", "", "Background for fill/heatmap: original, black, transparent")
	fs.StringVar(&cfg.OutlineHex, "outline-color", "", "Outline color #RRGGBB (default green)")
	fs.StringVar(&cfg.FillHex, "fill-color", "", "Fixed fill color #RRGGBB (default per-blob palette)")
	presetPath := fs.String("preset", "", "Load settings from a YAML preset")
	savePreset := fs.String("save-preset", "", "Write the effective settings to a YAML preset")
	svgPath := fs.String("svg", "", "Also write a bounding-box overlay as SVG")
	fs.Parse(args)

	if *presetPath != "" {
		loaded, err := config.ReadPreset(*presetPath)
		if err != nil {
			return err
		}
		// Explicit flags win over preset values.
		merged := *loaded
		fs.Visit(func(f *flag.Flag) { copyFlagInto(f, cfg, &merged) })
		*cfg = merged
		fmt.Printf("[*] Preset loaded: %s\n", *presetPath)
	}
	if forceMode != "" {
		cfg.Mode = forceMode
	}
	if cfg.InputPath == "" {
		return fmt.Errorf("no input given, use -input")
	}
	if cfg.OutputPath == "" {
		cfg.OutputPath = defaultOutput(cfg.InputPath, cfg.Mode)
		fmt.Printf("[*] Output: %s\n", cfg.OutputPath)
	}

	if *savePreset != "" {
		if err := config.WritePreset(cfg, *savePreset); err != nil {
			return err
		}
		fmt.Printf("[*] Preset saved: %s\n", *savePreset)
	}

	src, err := source.Open(cfg.InputPath, cfg.DPI)
	if err != nil {
		return err
	}
	defer src.Close()

	project, err := engine.NewProject(cfg, src)
	if err != nil {
		return err
	}
	if err := project.Run(); err != nil {
		return err
	}

	if *svgPath != "" {
		return writeSVGOverlay(project, *svgPath)
	}
	return nil
}

func writeSVGOverlay(p *engine.Project, path string) error {
	g, err := p.Source.Page(0)
	if err != nil {
		return err
	}
	_, blobs, err := p.Detect(g)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	render.WriteSVG(f, g.W, g.H, blobs)
	fmt.Printf("[*] SVG overlay: %s\n", path)
	return nil
}

func runHistogram(args []string) error {
	fs := flag.NewFlagSet("histogram", flag.ExitOnError)
	cfg := &config.Config{}
	commonFlags(fs, cfg)
	fs.Parse(args)

	if cfg.InputPath == "" {
		return fmt.Errorf("no input given, use -input")
	}
	if cfg.OutputPath == "" {
		cfg.OutputPath = defaultOutput(cfg.InputPath, "histogram")
		cfg.OutputPath = strings.TrimSuffix(cfg.OutputPath, filepath.Ext(cfg.OutputPath)) + ".html"
	}

	src, err := source.Open(cfg.InputPath, cfg.DPI)
	if err != nil {
		return err
	}
	defer src.Close()

	project, err := engine.NewProject(cfg, src)
	if err != nil {
		return err
	}
	h, err := project.Histogram()
	if err != nil {
		return err
	}

	f, err := os.Create(cfg.OutputPath)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := report.WriteHistogramChart(f, h, filepath.Base(cfg.InputPath)); err != nil {
		return err
	}
	fmt.Printf("[+++] Histogram chart: %s\n", cfg.OutputPath)
	return nil
}

func runThreshold(args []string) error {
	fs := flag.NewFlagSet("threshold", flag.ExitOnError)
	cfg := &config.Config{}
	commonFlags(fs, cfg)
	lower := fs.Float64("lower", 0.25, "Lower percentile of the gray band")
	upper := fs.Float64("upper", 0.75, "Upper percentile of the gray band")
	darkHex := fs.String("dark-color", "", "Tone for dark pixels #RRGGBB (default black)")
	midHex := fs.String("mid-color", "", "Tone for midband pixels #RRGGBB (default gray)")
	brightHex := fs.String("bright-color", "", "Tone for bright pixels #RRGGBB (default white)")
	fs.Parse(args)

	eff := effects.ThresholdTone{Lower: *lower, Upper: *upper}
	var err error
	if eff.Dark, err = optionalColor(*darkHex); err != nil {
		return err
	}
	if eff.Mid, err = optionalColor(*midHex); err != nil {
		return err
	}
	if eff.Bright, err = optionalColor(*brightHex); err != nil {
		return err
	}
	return applyEffect(cfg, eff, "threshold")
}

func runDotart(args []string) error {
	fs := flag.NewFlagSet("dotart", flag.ExitOnError)
	cfg := &config.Config{}
	commonFlags(fs, cfg)
	scale := fs.Int("scale", effects.DefaultDotScale, "Pixel area one dot covers")
	lower := fs.Float64("lower", effects.DefaultDotLower, "Lower percentile; cells below stay empty")
	upper := fs.Float64("upper", effects.DefaultDotUpper, "Upper percentile; cells above get opaque dots")
	dotHex := fs.String("dot-color", "", "Dot color #RRGGBB (default preserves source colors)")
	bgHex := fs.String("bg-color", "#000000", "Background color #RRGGBB")
	asJSON := fs.Bool("json", false, "Write the dot plan as JSON instead of rasterizing")
	fs.Parse(args)

	eff := effects.Dotart{Scale: *scale, Lower: *lower, Upper: *upper}
	var err error
	if eff.DotColor, err = optionalColor(*dotHex); err != nil {
		return err
	}
	if eff.Background, err = raster.ParseHex(*bgHex); err != nil {
		return err
	}

	if !*asJSON {
		return applyEffect(cfg, eff, "dotart")
	}

	if cfg.InputPath == "" {
		return fmt.Errorf("no input given, use -input")
	}
	if cfg.OutputPath == "" {
		cfg.OutputPath = defaultOutput(cfg.InputPath, "dotart")
		cfg.OutputPath = strings.TrimSuffix(cfg.OutputPath, filepath.Ext(cfg.OutputPath)) + ".json"
		fmt.Printf("[*] Output: %s\n", cfg.OutputPath)
	}

	src, err := source.Open(cfg.InputPath, cfg.DPI)
	if err != nil {
		return err
	}
	defer src.Close()

	pageCount := src.PageCount()
	for i := 0; i < pageCount; i++ {
		g, err := src.Page(i)
		if err != nil {
			return err
		}
		out := cfg.OutputPath
		if pageCount > 1 {
			ext := filepath.Ext(out)
			out = fmt.Sprintf("%s_p%d%s", strings.TrimSuffix(out, ext), i+1, ext)
		}
		f, err := os.Create(out)
		if err != nil {
			return err
		}
		if err := eff.WriteJSON(f, g); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
		fmt.Printf("[>] Ready: %d/%d -> %s\n", i+1, pageCount, out)
	}
	return nil
}

// optionalColor parses a hex color flag, returning nil when it was not set.
func optionalColor(hex string) (*raster.RGB, error) {
	if hex == "" {
		return nil, nil
	}
	c, err := raster.ParseHex(hex)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func runEffect(name string, args []string) error {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	cfg := &config.Config{}
	commonFlags(fs, cfg)

	sigma := fs.Float64("sigma", effects.DefaultBlurSigma, "Gaussian blur radius")
	edgeThreshold := fs.Float64("threshold", effects.DefaultEdgeThreshold, "Edge gradient threshold")
	target := fs.String("size", "50%", "Resize target: NN%, WxH, autoxH, Wxauto")
	scaler := fs.String("scaler", "bilinear", "Resize scaler: nearest, bilinear, exact-bilinear, catmullrom")
	fs.Parse(args)

	var eff effects.Effect
	switch name {
	case "view":
		eff = nil
	case "gblur":
		eff = effects.GaussianBlur{Sigma: *sigma}
	case "edge":
		eff = effects.EdgeHighlight{Threshold: *edgeThreshold}
	case "resize":
		eff = effects.Resize{Target: *target, Scaler: *scaler}
	default:
		var err error
		if eff, err = effects.New(name); err != nil {
			return err
		}
	}
	return applyEffect(cfg, eff, name)
}

// applyEffect runs a single filter over every page of the input.
func applyEffect(cfg *config.Config, eff effects.Effect, name string) error {
	if cfg.InputPath == "" {
		return fmt.Errorf("no input given, use -input")
	}
	if cfg.OutputPath == "" {
		cfg.OutputPath = defaultOutput(cfg.InputPath, name)
		fmt.Printf("[*] Output: %s\n", cfg.OutputPath)
	}

	src, err := source.Open(cfg.InputPath, cfg.DPI)
	if err != nil {
		return err
	}
	defer src.Close()

	pageCount := src.PageCount()
	for i := 0; i < pageCount; i++ {
		g, err := src.Page(i)
		if err != nil {
			return err
		}
		if eff != nil {
			if g, err = eff.Apply(g); err != nil {
				return err
			}
		}

		out := cfg.OutputPath
		if pageCount > 1 {
			ext := filepath.Ext(out)
			out = fmt.Sprintf("%s_p%d%s", strings.TrimSuffix(out, ext), i+1, ext)
		}
		if err := sink.WriteFile(out, g); err != nil {
			return err
		}
		if cfg.Preview {
			if err := sink.Preview(g); err != nil {
				return err
			}
		}
		fmt.Printf("[>] Ready: %d/%d -> %s\n", i+1, pageCount, out)
	}
	return nil
}

// defaultOutput derives an output file name from the input and command.
func defaultOutput(input, suffix string) string {
	base := filepath.Base(input)
	if strings.HasPrefix(input, "qr:") {
		base = "pattern"
	}
	ext := filepath.Ext(base)
	stem := strings.ReplaceAll(strings.TrimSuffix(base, ext), " ", "_")
	timestamp := time.Now().Format("2006-01-02_15-04-05")

	outExt := ".png"
	if suffix == "report" {
		outExt = ".json"
	}
	return fmt.Sprintf("%s_%s_%s%s", stem, suffix, timestamp, outExt)
}

// copyFlagInto overrides one preset field with its explicitly set flag value.
func copyFlagInto(f *flag.Flag, flags *config.Config, dst *config.Config) {
	switch f.Name {
	case "input":
		dst.InputPath = flags.InputPath
	case "output":
		dst.OutputPath = flags.OutputPath
	case "percentile":
		dst.Percentile = flags.Percentile
	case "direction":
		dst.Direction = flags.Direction
	case "color":
		dst.TargetColor = flags.TargetColor
	case "distance":
		dst.MaxDistance = flags.MaxDistance
	case "conn8":
		dst.Conn8 = flags.Conn8
	case "min-area":
		dst.MinArea = flags.MinArea
	case "mode":
		dst.Mode = flags.Mode
	case "background":
		dst.Background = flags.Background
	case "outline-color":
		dst.OutlineHex = flags.OutlineHex
	case "fill-color":
		dst.FillHex = flags.FillHex
	case "dpi":
		dst.DPI = flags.DPI
	case "workers":
		dst.Workers = flags.Workers
	case "stats":
		dst.ShowStats = flags.ShowStats
	case "preview":
		dst.Preview = flags.Preview
	}
}
