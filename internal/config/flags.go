// internal/config/flags.go
package config

import (
	"flag"
	"fmt"

	"github.com/bethropolis/tint/internal/logger"
	"github.com/bethropolis/tint/internal/utils"
)

// Flags holds values parsed from command-line flags.
// Use pointers to distinguish between unset flags and zero-value flags.
type Flags struct {
	fs *flag.FlagSet

	ConfigFilePath *string
	Version        *bool
	LogLevel       *string
	LogFilePath    *string
	EnableTags     *string
	DisableTags    *string
	EnablePkgs     *string
	DisablePkgs    *string
	Format         *string
	Quality        *int
	Theme          *string

	// Batch mode: apply Filter (optionally to Region) and write Output.
	Filter  *string
	Region  *string
	Output  *string
	Sticker *string
}

// DefineFlags sets up the command-line flags on fs.
func (f *Flags) DefineFlags(fs *flag.FlagSet) {
	f.fs = fs
	f.ConfigFilePath = fs.String("config", "", fmt.Sprintf("Path to TOML or YAML configuration file (default ~/.config/%s/%s)", AppName, DefaultConfigFileName))
	f.Version = fs.Bool("version", false, "Show version information and exit")
	f.LogLevel = fs.String("loglevel", "", "Log level (debug, info, warn, error) - Overrides config file")
	f.LogFilePath = fs.String("logfile", "", "Path to write log file (use '-' for stderr) - Overrides config file")
	f.EnableTags = fs.String("log-tags", "", "Comma-separated list of tags to enable - Overrides config file")
	f.DisableTags = fs.String("log-disable-tags", "", "Comma-separated list of tags to disable - Overrides config file")
	f.EnablePkgs = fs.String("log-packages", "", "Comma-separated list of packages to enable - Overrides config file")
	f.DisablePkgs = fs.String("log-disable-packages", "", "Comma-separated list of packages to disable - Overrides config file")
	f.Format = fs.String("format", "", "Export format (png, jpg, tiff, bmp, gif) - Overrides config file")
	f.Quality = fs.Int("quality", 0, "JPEG quality 1-100 - Overrides config file")
	f.Theme = fs.String("theme", "", "Theme name - Overrides config file")
	f.Filter = fs.String("filter", "", "Apply this filter without opening the editor (Sepia, Blur, \"Photo Effect\", Noir)")
	f.Region = fs.String("region", "", "Restrict -filter to the region x,y,w,h")
	f.Output = fs.String("o", "", "Output path for -filter (default: export directory)")
	f.Sticker = fs.String("sticker", "", "Image to place as a sticker at the center before saving")
}

// ParseFlags defines the flags on fs, parses args and returns the remaining
// non-flag arguments (e.g., the image path).
func (f *Flags) ParseFlags(fs *flag.FlagSet, args []string) ([]string, error) {
	f.DefineFlags(fs)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return fs.Args(), nil
}

// BatchMode reports whether a filter or an output file was requested on the
// command line, so no terminal is needed.
func (f *Flags) BatchMode() bool {
	return (f.Filter != nil && *f.Filter != "") || (f.Output != nil && *f.Output != "")
}

// ApplyOverrides updates the Config struct with values from flags *if* they were set.
func (f *Flags) ApplyOverrides(cfg *Config) {
	if f.fs == nil {
		return
	}
	// Visit only processes flags that were actually set
	f.fs.Visit(func(fl *flag.Flag) {
		logger.DebugTagf("config", "Applying flag override: %s", fl.Name)
		switch fl.Name {
		case "loglevel":
			if *f.LogLevel != "" {
				cfg.Logger.LogLevel = *f.LogLevel
			}
		case "logfile":
			cfg.Logger.LogFilePath = *f.LogFilePath
		case "log-tags":
			cfg.Logger.EnabledTags = utils.SplitCommaList(*f.EnableTags)
		case "log-disable-tags":
			cfg.Logger.DisabledTags = utils.SplitCommaList(*f.DisableTags)
		case "log-packages":
			cfg.Logger.EnabledPackages = utils.SplitCommaList(*f.EnablePkgs)
		case "log-disable-packages":
			cfg.Logger.DisabledPackages = utils.SplitCommaList(*f.DisablePkgs)
		case "format":
			if *f.Format != "" {
				cfg.Export.Format = *f.Format
			}
		case "quality":
			if *f.Quality > 0 {
				cfg.Export.Quality = *f.Quality
			}
		case "theme":
			if *f.Theme != "" {
				cfg.TUI.Theme = *f.Theme
			}
		}
	})
}
