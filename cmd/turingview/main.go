// Command turingview runs a pattern interactively in a window.
//
// Keys follow the session keymap (space pauses, digits step while paused,
// c clears, r seeds random points, t stamps text, i stamps the dropped
// image, s saves a PNG). '[' and ']' change the resolution. Drag with the
// left mouse button to paint; drop a JPEG or PNG on the window to select
// it as the image.
package main

import (
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/spf13/cobra"

	"github.com/gogpu/turing"
	"github.com/gogpu/turing/settings"
)

// displaySide is the window edge in display pixels, independent of the
// frame resolution.
const displaySide = 600

var rootCmd = &cobra.Command{
	Use:   "turingview",
	Short: "Interactive blur/unsharp pattern viewer",
	RunE:  runView,
}

func init() {
	rootCmd.Flags().String("text", "", "Text stamped by the t key; '/' separates lines")
	rootCmd.Flags().String("font", "", "TrueType font file for text (needed for CJK)")
	rootCmd.Flags().String("save-dir", ".", "Directory for PNGs saved with the s key")
	rootCmd.Flags().Bool("transparent", false, "Key light pixels to transparent when saving")
	rootCmd.Flags().BoolP("verbose", "v", false, "Log session activity to stderr")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}

func runView(cmd *cobra.Command, args []string) error {
	text, _ := cmd.Flags().GetString("text")
	fontPath, _ := cmd.Flags().GetString("font")
	saveDir, _ := cmd.Flags().GetString("save-dir")
	transparent, _ := cmd.Flags().GetBool("transparent")
	verbose, _ := cmd.Flags().GetBool("verbose")

	if verbose {
		turing.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	opts := []turing.Option{turing.WithStore(openStore())}
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

	s.SetSaveDir(saveDir)
	if text != "" {
		s.Controls().Text = text
	}
	s.Controls().TransparentBackground = transparent

	ebiten.SetWindowSize(displaySide, displaySide)
	ebiten.SetWindowTitle("turing")
	return ebiten.RunGame(newGame(s, text, transparent))
}

// openStore opens the per-user settings file, falling back to memory.
func openStore() settings.Store {
	path, err := settings.DefaultPath()
	if err == nil {
		var store *settings.FileStore
		if store, err = settings.OpenFile(path); err == nil {
			return store
		}
	}
	turing.Logger().Warn("turingview: settings not persisted", "err", err)
	return settings.NewMemoryStore()
}
