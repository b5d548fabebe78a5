package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"bead-pattern/internal/generator"
	"bead-pattern/internal/pattern"
	"bead-pattern/internal/quantize"
)

var (
	genOutput       string
	genBoardsWidth  int
	genBoardsHeight int
	genAdvanced     bool
	genThreshold    float64
	genResampler    string
	genDither       bool
	genOut          outputs
)

var generateCmd = &cobra.Command{
	Use:   "generate IMAGE",
	Short: "Generate a bead pattern from an image",
	Long: `Generate a bead pattern from a PNG, JPEG, GIF, BMP, TIFF or WebP image.

The image is scaled to fit the requested number of boards, mapped to the
nearest palette colors and cleaned of colors that cover too few beads.
Flags override values from --config.

Examples:
  # One board, pattern JSON on stdout
  beadgen generate cat.jpg

  # 2x2 boards with the advanced pipeline and a printable PDF
  beadgen generate cat.jpg -b 2 --boards-height 2 --advanced -o cat.json --print cat.pdf`,
	Args: cobra.ExactArgs(1),
	RunE: runGenerate,
}

func init() {
	def := generator.DefaultOptions()
	generateCmd.Flags().StringVarP(&genOutput, "output", "o", "-", "Pattern JSON file (- for stdout)")
	generateCmd.Flags().IntVarP(&genBoardsWidth, "boards-width", "b", def.BoardsWidth, "Boards across")
	generateCmd.Flags().IntVar(&genBoardsHeight, "boards-height", def.BoardsHeight, "Boards down")
	generateCmd.Flags().BoolVar(&genAdvanced, "advanced", false, "Use the advanced preprocessing pipeline")
	generateCmd.Flags().Float64Var(&genThreshold, "threshold", def.RareColorThreshold, "Minimum share of beads a color must cover")
	generateCmd.Flags().StringVar(&genResampler, "resampler", def.Resampler.String(), "Resize filter: lanczos or nearest")
	generateCmd.Flags().BoolVar(&genDither, "dither", false, "Floyd-Steinberg dithering during palette reduction")
	genOut.bind(generateCmd)
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	opts, pal, err := settings()
	if err != nil {
		return err
	}
	if opts, err = applyGenerateFlags(cmd, opts); err != nil {
		return err
	}

	raw, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read image: %w", err)
	}
	d, err := generator.GenerateFromBytes(cmd.Context(), raw, pal, opts)
	if err != nil {
		return err
	}

	js, err := pattern.Encode(d)
	if err != nil {
		return err
	}
	if err := writeOutput(cmd, genOutput, js); err != nil {
		return err
	}
	return genOut.write(cmd, d, pal)
}

// applyGenerateFlags overrides opts with the flags the user actually set.
func applyGenerateFlags(cmd *cobra.Command, opts generator.Options) (generator.Options, error) {
	f := cmd.Flags()
	if f.Changed("boards-width") {
		opts.BoardsWidth = genBoardsWidth
	}
	if f.Changed("boards-height") {
		opts.BoardsHeight = genBoardsHeight
	}
	if f.Changed("advanced") {
		opts.Advanced = genAdvanced
	}
	if f.Changed("threshold") {
		opts.RareColorThreshold = genThreshold
	}
	if f.Changed("resampler") {
		r, err := quantize.ParseResampler(genResampler)
		if err != nil {
			return opts, err
		}
		opts.Resampler = r
	}
	if f.Changed("dither") {
		opts.Dither = genDither
	}
	return opts, opts.Validate()
}
