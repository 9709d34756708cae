package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/gogpu/turing"
	"github.com/gogpu/turing/analysis"
	"github.com/gogpu/turing/frame"
	"github.com/gogpu/turing/snapshot"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze FILE",
	Short: "Report tone statistics and band spacing of a PNG, JPEG or snapshot",
	Args:  cobra.ExactArgs(1),
	RunE:  runAnalyze,
}

func init() {
	analyzeCmd.Flags().Int("rings", 0, "Also print the radial profile around the centre out to this radius")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	rings, _ := cmd.Flags().GetInt("rings")

	buf, err := loadFrame(args[0])
	if err != nil {
		return err
	}

	st := analysis.Measure(buf)
	fmt.Printf("Size:       %dx%d\n", buf.Width(), buf.Height())
	fmt.Printf("Mean:       %.4f\n", st.Mean)
	fmt.Printf("Variance:   %.4f\n", st.Variance)
	fmt.Printf("Range:      %.4f - %.4f\n", st.Min, st.Max)
	fmt.Printf("Dark:       %.1f%%\n", st.DarkFraction*100)
	if wl := analysis.DominantWavelength(buf); wl > 0 {
		fmt.Printf("Wavelength: %.2f texels\n", wl)
	} else {
		fmt.Println("Wavelength: none (no banding)")
	}

	if rings > 0 {
		cx, cy := float64(buf.Width())/2, float64(buf.Height())/2
		for r, v := range analysis.RadialProfile(buf, cx, cy, rings) {
			fmt.Printf("  r=%3d  %.3f\n", r, v)
		}
	}
	return nil
}

// loadFrame reads a snapshot (.trds) or a JPEG/PNG image.
func loadFrame(path string) (*frame.Buffer, error) {
	if filepath.Ext(path) == ".trds" {
		st, err := snapshot.Load(path)
		if err != nil {
			return nil, err
		}
		return st.Buffer, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("reading input: %w", err)
	}
	defer f.Close()
	img, err := turing.DecodeImage(f)
	if err != nil {
		return nil, err
	}
	return frame.FromImage(img), nil
}
