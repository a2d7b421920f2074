package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/bethropolis/tint/internal/config"
	"github.com/bethropolis/tint/internal/core"
	"github.com/bethropolis/tint/internal/filter"
	"github.com/bethropolis/tint/internal/imageio"
	"github.com/bethropolis/tint/internal/logger"
	"github.com/bethropolis/tint/internal/sticker"
	"github.com/bethropolis/tint/internal/types"
)

var errNothingToDo = errors.New("batch: no filter or sticker requested")

// BatchOptions describes a non-interactive edit.
type BatchOptions struct {
	Config      *config.Config
	Input       string
	Filter      string // Filter name; empty skips filtering
	Region      string // "x,y,width,height"; empty for the whole image
	StickerPath string // Sticker flattened before the filter, optional
	Output      string // Destination file; empty exports to the configured directory
}

// RunBatch edits one image without a terminal and returns the written path.
func RunBatch(ctx context.Context, opts BatchOptions) (string, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.NewDefaultConfig()
	}
	if opts.Filter == "" && opts.StickerPath == "" {
		return "", errNothingToDo
	}

	var region *types.Region
	if opts.Region != "" {
		r, err := types.ParseRegion(opts.Region)
		if err != nil {
			return "", err
		}
		region = &r
	}

	img, err := imageio.Load(opts.Input)
	if err != nil {
		return "", err
	}

	editor := core.New(core.WithHistoryLimit(cfg.Editor.HistoryLimit))
	defer editor.Close()
	if err := editor.SetImage(img); err != nil {
		return "", fmt.Errorf("%s: %w", opts.Input, err)
	}

	if opts.StickerPath != "" {
		stickerImg, err := loadSticker(opts.StickerPath)
		if err != nil {
			return "", err
		}
		size := editor.CurrentImage().Bounds().Size()
		layer := sticker.NewLayer(size.X, size.Y)
		if _, err := layer.Add(stickerImg); err != nil {
			return "", err
		}
		if err := editor.FlattenStickers(ctx, layer); err != nil {
			return "", err
		}
	}

	if opts.Filter != "" {
		k, err := filter.Lookup(opts.Filter)
		if err != nil {
			return "", err
		}
		if err := editor.SelectFilter(k); err != nil {
			return "", err
		}
		if err := editor.ApplySelectedFilter(ctx, region); err != nil {
			return "", err
		}
	}

	store, err := newStore(cfg)
	if err != nil {
		return "", err
	}
	out := editor.CurrentImage()
	if opts.Output != "" {
		if err := store.SaveAs(out, opts.Output); err != nil {
			return "", err
		}
		logger.Infof("Batch: wrote %s (%d edits)", opts.Output, editor.HistoryLen())
		return opts.Output, nil
	}
	path, err := store.Save(out, editor.SessionID())
	if err != nil {
		return "", err
	}
	logger.Infof("Batch: wrote %s (%d edits)", path, editor.HistoryLen())
	return path, nil
}
