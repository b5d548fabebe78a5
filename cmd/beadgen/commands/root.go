package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"bead-pattern/internal/config"
	"bead-pattern/internal/generator"
	"bead-pattern/internal/palette"
	"bead-pattern/internal/version"
)

var (
	paletteFile string
	configFile  string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "beadgen",
	Short: "beadgen - turn images into fuse bead patterns",
	Long: `beadgen converts an image into a bead pattern laid out on 29x29 pegboards.

Each cell of the pattern holds a bead color code from the active palette.
Patterns are saved as JSON and can be rendered to a PNG preview or a
printable PDF with one page per board.`,
	Version: version.String(),
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
	FParseErrWhitelist: cobra.FParseErrWhitelist{},
}

// Execute runs the root command. It is called once by main.main.
func Execute() error {
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&paletteFile, "palette", "", "Palette JSON file (default: built-in palette)")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "YAML settings file")
}

// settings resolves the generation options and palette from --config and
// --palette. An explicit --palette wins over the config file's palette.
func settings() (generator.Options, *palette.Palette, error) {
	opts, palPath, err := resolve()
	if err != nil {
		return opts, nil, err
	}
	pal, err := loadPalette(palPath)
	if err != nil {
		return opts, nil, err
	}
	return opts, pal, nil
}

// resolve returns the options and the palette file path, which is empty for
// the built-in palette. A relative palette path in a config file is relative
// to that file.
func resolve() (generator.Options, string, error) {
	opts := generator.DefaultOptions()
	palPath := paletteFile
	if configFile == "" {
		return opts, palPath, nil
	}

	f, err := config.Load(configFile)
	if err != nil {
		return opts, "", err
	}
	if opts, err = f.Options(); err != nil {
		return opts, "", err
	}
	if palPath == "" && f.Palette != "" {
		palPath = f.Palette
		if !filepath.IsAbs(palPath) {
			palPath = filepath.Join(filepath.Dir(configFile), palPath)
		}
	}
	return opts, palPath, nil
}

func loadPalette(path string) (*palette.Palette, error) {
	if path == "" {
		return palette.Default()
	}
	return palette.NewStore(palette.FileSource(path)).Get()
}

func writeOutput(cmd *cobra.Command, path string, data []byte) error {
	if path == "-" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	success(cmd.ErrOrStderr(), "Wrote %s", path)
	return nil
}
