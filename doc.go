// Package turing grows reaction-diffusion-like patterns by feeding an image
// back through a blur and unsharp-mask pipeline, frame after frame.
//
// # Overview
//
// Every frame applies three full-buffer passes to the previous frame:
//
//  1. a 7-tap binomial blur along x,
//  2. the same blur along y,
//  3. an unsharp mask that adds UnsharpAmount times the difference between
//     the blurred field and its own local blur at UnsharpRadius.
//
// Blurring spreads features out, sharpening pushes them apart again at the
// scale set by UnsharpRadius, and clamping to [0, 1] keeps the result
// bounded. The balance produces stripes, spots and labyrinths.
//
// # Quick Start
//
//	sim, err := turing.New(turing.WithResolution(200))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer sim.Close()
//
//	// Seed a black disc, then iterate
//	sim.Overlay().PaintCircle(100, 100, 10, frame.Black)
//	if err := sim.Run(200); err != nil {
//	    log.Fatal(err)
//	}
//
//	f, _ := os.Create("pattern.png")
//	defer f.Close()
//	turing.Export(f, sim.Current(), turing.ExportOptions{})
//
// # Sessions
//
// A Session adds the interactive layer: a Scheduler with Running and
// Paused states, the Controls of the control surface, pointer painting,
// key bindings (see DefaultKeymap), image import and timestamped export.
// cmd/turingview drives a Session from an Ebitengine window.
//
// # Coordinate System
//
// Frames are square. Positions are in texels with the origin at the
// top-left corner. Overlay drawing treats texel (x, y) as the square
// [x, x+1)×[y, y+1); pipeline sampling addresses it at its centre, so
// pass taps land on integer coordinates. Reads beyond the frame use
// clamp-to-edge addressing.
//
// # Concurrency
//
// Simulation and Session are single-threaded. Within one pass, rows are
// processed in parallel on an internal worker pool (see WithWorkers); the
// result does not depend on the worker count.
package turing
