package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"bead-pattern/internal/board"
	"bead-pattern/internal/generator"
	"bead-pattern/internal/palette"
	"bead-pattern/internal/pattern"
	"bead-pattern/internal/render"
)

var (
	sizesOutDir  string
	sizesOnly    []string
	sizesPreview bool
)

var sizesCmd = &cobra.Command{
	Use:   "sizes IMAGE",
	Short: "Suggest board layouts for an image and optionally generate them",
	Long: `Print the small, medium and large board layouts that fit an image's
aspect ratio together with the recommended size.

With --out-dir, a pattern is generated for every size in parallel and saved
as <size>.json (and <size>.png with --preview). A failing size is reported
without affecting the others.

Examples:
  beadgen sizes cat.jpg
  beadgen sizes cat.jpg --out-dir patterns --only small,medium --preview`,
	Args: cobra.ExactArgs(1),
	RunE: runSizes,
}

func init() {
	sizesCmd.Flags().StringVar(&sizesOutDir, "out-dir", "", "Generate every size into this directory")
	sizesCmd.Flags().StringSliceVar(&sizesOnly, "only", nil, "Restrict generation to these sizes")
	sizesCmd.Flags().BoolVar(&sizesPreview, "preview", false, "Also write a PNG preview per size")
	rootCmd.AddCommand(sizesCmd)
}

func runSizes(cmd *cobra.Command, args []string) error {
	raw, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read image: %w", err)
	}
	img, _, err := generator.DecodeImage(raw)
	if err != nil {
		return err
	}
	suggestion, err := board.Suggest(img.Bounds().Dx(), img.Bounds().Dy())
	if err != nil {
		return err
	}

	if sizesOutDir == "" {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(suggestion)
	}

	sizes, err := selectSizes(suggestion, sizesOnly)
	if err != nil {
		return err
	}
	opts, pal, err := settings()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(sizesOutDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	var failed []error
	for _, r := range generator.GenerateSizes(cmd.Context(), img, pal, opts, sizes) {
		if r.Err != nil {
			warning(cmd.ErrOrStderr(), "%s: %v", r.Size.Name, r.Err)
			failed = append(failed, fmt.Errorf("%s: %w", r.Size.Name, r.Err))
			continue
		}
		if err := saveSize(cmd, r.Size.Name, r.Data, pal); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%-8s %dx%d boards, %dx%d beads, %s\n",
			r.Size.Name, r.Data.BoardsWidth, r.Data.BoardsHeight, r.Data.Width, r.Data.Height, plural(len(r.Data.Usage), "color"))
	}
	return errors.Join(failed...)
}

func selectSizes(s board.Suggestion, only []string) ([]generator.Size, error) {
	all := generator.SizesFromSuggestion(s)
	if len(only) == 0 {
		return all, nil
	}
	var out []generator.Size
	for _, name := range only {
		n, err := board.ParseSizeName(name)
		if err != nil {
			return nil, err
		}
		for _, size := range all {
			if size.Name == string(n) {
				out = append(out, size)
			}
		}
	}
	return out, nil
}

func saveSize(cmd *cobra.Command, name string, d *pattern.Data, pal *palette.Palette) error {
	js, err := pattern.Encode(d)
	if err != nil {
		return err
	}
	if err := writeOutput(cmd, filepath.Join(sizesOutDir, name+".json"), js); err != nil {
		return err
	}
	if !sizesPreview {
		return nil
	}
	png, err := render.PreviewPNG(d, pal, render.DefaultPreviewOptions())
	if err != nil {
		return fmt.Errorf("rendering preview: %w", err)
	}
	return writeOutput(cmd, filepath.Join(sizesOutDir, name+".png"), png)
}
