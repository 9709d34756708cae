package main

import (
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/gogpu/turing"
	"github.com/gogpu/turing/frame"
	"github.com/gogpu/turing/snapshot"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Seed a frame, iterate the pipeline and export a PNG",
	RunE:  runRun,
}

func init() {
	runCmd.Flags().Int("size", turing.DefaultResolution, "Frame side in texels (100, 200, ..., 600)")
	runCmd.Flags().IntP("frames", "n", 200, "Number of pipeline iterations")
	runCmd.Flags().String("seed", "disc", "Initial marks (flat, disc, points, text, image)")
	runCmd.Flags().String("image", "", "JPEG or PNG image for --seed image")
	runCmd.Flags().String("text", "", "Text for --seed text; '/' separates lines")
	runCmd.Flags().String("font", "", "TrueType font file for --seed text")
	runCmd.Flags().Uint64("rng", 1, "Random seed for --seed points")
	runCmd.Flags().Float64("blur-spread", turing.DefaultParams().BlurSpread, "Blur tap spacing in texels")
	runCmd.Flags().Float64("unsharp-radius", turing.DefaultParams().UnsharpRadius, "Unsharp local-blur spacing in texels")
	runCmd.Flags().Float64("unsharp-amount", turing.DefaultParams().UnsharpAmount, "Unsharp strength")
	runCmd.Flags().String("precision", "unorm8", "Sample storage (unorm8, float)")
	runCmd.Flags().String("background", "white", "Initial fill (white, black, or a gray level 0-255)")
	runCmd.Flags().String("border", "white", "Border tone drawn every frame (white, black)")
	runCmd.Flags().Bool("transparent", false, "Key light pixels to transparent on export")
	runCmd.Flags().Uint8("threshold", 255, "Transparency threshold (0-255)")
	runCmd.Flags().StringP("output", "o", "", "Output PNG (default: timestamped name in the current directory)")
	runCmd.Flags().String("snapshot", "", "Write the final state to this snapshot file")
	runCmd.Flags().String("resume", "", "Start from a snapshot instead of seeding")
	runCmd.Flags().Int("workers", 0, "Row workers per pass (0 = GOMAXPROCS)")
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	size, _ := cmd.Flags().GetInt("size")
	frames, _ := cmd.Flags().GetInt("frames")
	seed, _ := cmd.Flags().GetString("seed")
	imagePath, _ := cmd.Flags().GetString("image")
	text, _ := cmd.Flags().GetString("text")
	fontPath, _ := cmd.Flags().GetString("font")
	rngSeed, _ := cmd.Flags().GetUint64("rng")
	precisionStr, _ := cmd.Flags().GetString("precision")
	backgroundStr, _ := cmd.Flags().GetString("background")
	borderStr, _ := cmd.Flags().GetString("border")
	transparent, _ := cmd.Flags().GetBool("transparent")
	threshold, _ := cmd.Flags().GetUint8("threshold")
	outputPath, _ := cmd.Flags().GetString("output")
	snapshotPath, _ := cmd.Flags().GetString("snapshot")
	resumePath, _ := cmd.Flags().GetString("resume")
	workers, _ := cmd.Flags().GetInt("workers")

	params := turing.DefaultParams()
	params.BlurSpread, _ = cmd.Flags().GetFloat64("blur-spread")
	params.UnsharpRadius, _ = cmd.Flags().GetFloat64("unsharp-radius")
	params.UnsharpAmount, _ = cmd.Flags().GetFloat64("unsharp-amount")

	precision, err := parsePrecision(precisionStr)
	if err != nil {
		return err
	}
	background, err := parseBackground(backgroundStr)
	if err != nil {
		return err
	}
	border, err := parseTone(borderStr)
	if err != nil {
		return err
	}

	var resumed *snapshot.State
	if resumePath != "" {
		st, err := snapshot.Load(resumePath)
		if err != nil {
			return fmt.Errorf("resuming: %w", err)
		}
		resumed = &st
		size = st.Buffer.Width()
		precision = st.Precision
		if !cmd.Flags().Changed("blur-spread") && !cmd.Flags().Changed("unsharp-radius") && !cmd.Flags().Changed("unsharp-amount") {
			params = st.Params
		}
	}

	opts := []turing.Option{
		turing.WithResolution(size),
		turing.WithParams(params),
		turing.WithPrecision(precision),
		turing.WithWorkers(workers),
		turing.WithBackground(background),
		turing.WithRand(rand.New(rand.NewPCG(rngSeed, rngSeed^0x9e3779b97f4a7c15))),
	}
	if fontPath != "" {
		data, err := os.ReadFile(fontPath)
		if err != nil {
			return fmt.Errorf("reading font: %w", err)
		}
		opts = append(opts, turing.WithFonts(map[turing.FontChoice][]byte{turing.FontRegular: data}))
	}

	s, err := turing.NewSession(opts...)
	if err != nil {
		return err
	}
	defer s.Close()

	ctl := s.Controls()
	ctl.BorderTone = border
	ctl.TransparentBackground = transparent
	ctl.Threshold = threshold
	if text != "" {
		ctl.Text = text
	}
	s.ClampControls()

	if resumed != nil {
		if err := s.Simulation().Load(resumed.Buffer); err != nil {
			return fmt.Errorf("resuming: %w", err)
		}
	} else if err := applySeed(s, seed, imagePath); err != nil {
		return err
	}

	s.Pause()
	start := time.Now()
	if n, err := s.StepForward(frames); err != nil {
		return fmt.Errorf("frame %d: %w", n+1, err)
	}
	elapsed := time.Since(start)

	if outputPath == "" {
		outputPath = turing.Filename(time.Now())
	}
	if err := turing.ExportFile(outputPath, s.Simulation().Current(), ctl.ExportOptions()); err != nil {
		return err
	}

	if snapshotPath != "" {
		sim := s.Simulation()
		st := snapshot.State{Buffer: sim.Current(), Params: sim.Params(), Precision: sim.Precision()}
		if err := snapshot.Save(snapshotPath, st); err != nil {
			return err
		}
	}

	fmt.Printf("Ran %d frames at %dx%d in %v\n", frames, size, size, elapsed.Round(time.Millisecond))
	fmt.Printf("Output: %s\n", outputPath)
	if snapshotPath != "" {
		fmt.Printf("Snapshot: %s\n", snapshotPath)
	}
	return nil
}

// applySeed draws the initial marks named by seed.
func applySeed(s *turing.Session, seed, imagePath string) error {
	side := s.Simulation().Size()
	switch seed {
	case "flat":
		return nil
	case "disc":
		c := float64(side) / 2
		return s.Simulation().Overlay().PaintCircle(c, c, s.Controls().CursorRadius, frame.Black)
	case "points":
		return s.RandomPoints()
	case "text":
		return s.SubmitText()
	case "image":
		if imagePath == "" {
			return fmt.Errorf("--seed image needs --image")
		}
		f, err := os.Open(imagePath)
		if err != nil {
			return fmt.Errorf("reading image: %w", err)
		}
		defer f.Close()
		if err := s.LoadImage(filepath.Base(imagePath), f); err != nil {
			return err
		}
		return s.SubmitImage()
	default:
		return fmt.Errorf("unknown seed %q (flat, disc, points, text, image)", seed)
	}
}
