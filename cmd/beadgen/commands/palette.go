package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"bead-pattern/internal/palette"
)

var (
	paletteJSON     bool
	paletteWatch    bool
	paletteInterval time.Duration
)

var paletteCmd = &cobra.Command{
	Use:   "palette",
	Short: "List the colors of the active palette",
	Long: `List every color of the active palette in palette order.

The built-in palette is used unless --palette or a config file names another.
With --json the records are printed in the same format palette files use.

With --watch the palette file is polled and listed again after every edit
until interrupted. Edits that fail to load are reported and the previous
palette stays active.`,
	Args: cobra.NoArgs,
	RunE: runPalette,
}

func init() {
	paletteCmd.Flags().BoolVar(&paletteJSON, "json", false, "Print palette records as JSON")
	paletteCmd.Flags().BoolVar(&paletteWatch, "watch", false, "Reload and list again when the palette file changes")
	paletteCmd.Flags().DurationVar(&paletteInterval, "interval", time.Second, "Polling interval for --watch")
	rootCmd.AddCommand(paletteCmd)
}

func runPalette(cmd *cobra.Command, args []string) error {
	_, path, err := resolve()
	if err != nil {
		return err
	}
	if paletteWatch && path == "" {
		return fmt.Errorf("--watch needs a palette file (--palette or config palette)")
	}

	var store *palette.Store
	if path == "" {
		store = palette.NewStore(palette.DefaultSource())
	} else {
		store = palette.NewStore(palette.FileSource(path))
	}
	pal, err := store.Get()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if err := listPalette(out, pal); err != nil {
		return err
	}
	if !paletteWatch {
		return nil
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	w := palette.NewWatcher(path, store, paletteInterval)
	w.OnReload(func(p *palette.Palette, err error) {
		if err != nil {
			warning(cmd.ErrOrStderr(), "%s: %v", path, err)
			return
		}
		success(cmd.ErrOrStderr(), "Reloaded %s", path)
		_ = listPalette(out, p)
	})
	w.Run(ctx)
	return nil
}

func listPalette(out io.Writer, pal *palette.Palette) error {
	entries := pal.Entries()

	if paletteJSON {
		records := make([]palette.Record, len(entries))
		for i, e := range entries {
			records[i] = palette.Record{Name: e.Name, Code: e.Code, Hex: e.Hex}
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "CODE\tHEX\t\tNAME")
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", e.Code, e.Hex, swatch(e.RGB), e.Name)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintln(out, plural(len(entries), "color"))
	return nil
}
