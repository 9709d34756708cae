package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gogpu/turing/shader"
)

var shadersCmd = &cobra.Command{
	Use:   "shaders",
	Short: "Compile the pipeline passes to SPIR-V",
	RunE:  runShaders,
}

func init() {
	shadersCmd.Flags().StringP("out", "o", "", "Output directory")
	shadersCmd.Flags().Bool("wgsl", false, "Also write the WGSL sources")
	shadersCmd.MarkFlagRequired("out")
	rootCmd.AddCommand(shadersCmd)
}

func runShaders(cmd *cobra.Command, args []string) error {
	out, _ := cmd.Flags().GetString("out")
	wgsl, _ := cmd.Flags().GetBool("wgsl")

	paths, err := shader.WriteAll(out)
	if err != nil {
		return err
	}
	if wgsl {
		written, err := shader.WriteSources(out)
		if err != nil {
			return err
		}
		paths = append(paths, written...)
	}

	for _, p := range paths {
		fmt.Printf("Wrote %s\n", p)
	}
	return nil
}
