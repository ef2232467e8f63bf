package main

import (
	"cmp"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/disintegration/imaging"

	imgtools "github.com/ironsheep/blob-tools-mcp/internal/imaging"
	"github.com/ironsheep/blob-tools-mcp/lutz"
)

// defaultScanThreshold keeps pixels brighter than 170.
const defaultScanThreshold = 171

type scanConfig struct {
	input     string
	output    string
	threshold uint8
	invert    bool
	conn      lutz.Connectivity
}

func parseScanArgs(args []string) (scanConfig, error) {
	cfg := scanConfig{threshold: defaultScanThreshold, conn: lutz.Conn8}
	var positional []string
	for _, a := range args {
		switch a {
		case "-4":
			cfg.conn = lutz.Conn4
		case "-invert":
			cfg.invert = true
		default:
			if strings.HasPrefix(a, "-") {
				return cfg, fmt.Errorf("unknown option %s", a)
			}
			positional = append(positional, a)
		}
	}

	switch len(positional) {
	case 3:
		cfg.output = positional[2]
		fallthrough
	case 2:
		t, err := strconv.Atoi(positional[1])
		if err != nil || t < 0 || t > 254 {
			return cfg, fmt.Errorf("threshold must be an integer between 0 and 254, got %q", positional[1])
		}
		cfg.threshold = uint8(t + 1)
		fallthrough
	case 1:
		cfg.input = positional[0]
	default:
		return cfg, errors.New("usage: scan [-4] [-invert] <image> [threshold] [out.png]")
	}
	return cfg, nil
}

// runScan labels one image and prints every blob to w.
func runScan(args []string, w io.Writer) error {
	cfg, err := parseScanArgs(args)
	if err != nil {
		return err
	}
	if isPNM(cfg.input) {
		if cfg.output != "" {
			return errors.New("overlay output is not supported for streamed PBM/PGM input")
		}
		return scanStream(cfg, w)
	}
	return scanImage(cfg, w)
}

func isPNM(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pbm", ".pgm", ".pnm":
		return true
	}
	return false
}

func scanStream(cfg scanConfig, w io.Writer) error {
	f, err := os.Open(cfg.input)
	if err != nil {
		return err
	}
	defer f.Close()

	// The threshold is meaningless for PBM; set bits are foreground there.
	stream, err := imgtools.NewPNMStream(f, cfg.threshold, cfg.invert)
	if err != nil {
		return err
	}
	_, err = printRegions(lutz.PixelSource(stream), cfg.conn, w)
	return err
}

func scanImage(cfg scanConfig, w io.Writer) error {
	img, err := imgtools.NewImageCache().Load(cfg.input)
	if err != nil {
		return err
	}
	mask := imgtools.NewThresholdRaster(img, cfg.threshold, imgtools.ThresholdOptions{Invert: cfg.invert})
	bounds, err := printRegions(lutz.PixelSource(mask), cfg.conn, w)
	if err != nil || cfg.output == "" {
		return err
	}

	origin := img.Bounds().Min
	boxes := make([]imgtools.Box, len(bounds))
	for i, b := range bounds {
		boxes[i] = imgtools.Box{Rect: b.Rect().Add(origin), ID: i}
	}
	out := imgtools.DrawBoxes(img, boxes, imgtools.DefaultBoxColor, false)
	if err := imaging.Save(out, cfg.output); err != nil {
		return fmt.Errorf("failed to save overlay: %w", err)
	}
	return nil
}

// printRegions writes "area [pixels]" for every region, pixels sorted by x
// then y, and returns each region's bounds in completion order.
func printRegions(src lutz.Source[lutz.Pixel], conn lutz.Connectivity, w io.Writer) ([]lutz.Bounds, error) {
	var all []lutz.Bounds
	for pixels, err := range lutz.Regions[lutz.Pixel, lutz.List[lutz.Pixel]](src, conn) {
		if err != nil {
			return all, err
		}
		slices.SortFunc(pixels, func(a, b lutz.Pixel) int {
			return cmp.Or(cmp.Compare(a.X, b.X), cmp.Compare(a.Y, b.Y))
		})

		var b lutz.Bounds
		parts := make([]string, len(pixels))
		for i, p := range pixels {
			b.Push(p)
			parts[i] = p.String()
		}
		if _, err := fmt.Fprintf(w, "%d [%s]\n", len(pixels), strings.Join(parts, " ")); err != nil {
			return all, err
		}
		all = append(all, b)
	}
	return all, nil
}
