// Package export writes edited images to disk.
package export

import (
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bethropolis/tint/internal/logger"
	"github.com/bethropolis/tint/internal/utils"
	"github.com/disintegration/imaging"
)

const (
	DefaultFormat  = "png"
	DefaultQuality = 95
	filePrefix     = "tint"
	shortIDLen     = 8
)

var (
	// ErrNoImage is returned when asked to save nothing.
	ErrNoImage = errors.New("export: no image to save")
	// ErrUnsupportedFormat is returned for formats imaging cannot encode.
	ErrUnsupportedFormat = errors.New("export: unsupported format")
)

// Store saves images into a directory with generated file names.
type Store struct {
	directory string
	format    imaging.Format
	ext       string
	quality   int
	clipboard Clipboard // Receives the saved path when set

	now func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithClipboard copies every saved path to c.
func WithClipboard(c Clipboard) Option {
	return func(s *Store) { s.clipboard = c }
}

// NewStore creates a store writing format files into directory. A leading ~
// in directory is expanded.
func NewStore(directory, format string, quality int, opts ...Option) (*Store, error) {
	if format == "" {
		format = DefaultFormat
	}
	f, err := imaging.FormatFromExtension(format)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
	if quality <= 0 || quality > 100 {
		quality = DefaultQuality
	}
	s := &Store{
		directory: utils.ExpandHome(directory),
		format:    f,
		ext:       extension(f),
		quality:   quality,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Directory returns where Save writes files.
func (s *Store) Directory() string {
	return s.directory
}

// Save writes img under a timestamped name tagged with the session id and
// returns the file path.
func (s *Store) Save(img image.Image, sessionID string) (string, error) {
	if img == nil {
		return "", ErrNoImage
	}
	if err := os.MkdirAll(s.directory, 0o755); err != nil {
		return "", fmt.Errorf("failed to create directory %s: %w", s.directory, err)
	}

	path := filepath.Join(s.directory, s.fileName(sessionID))
	if err := s.write(img, path, s.format); err != nil {
		return "", err
	}
	s.copyPath(path)
	return path, nil
}

// SaveAs writes img to path, choosing the format from its extension.
func (s *Store) SaveAs(img image.Image, path string) error {
	if img == nil {
		return ErrNoImage
	}
	f, err := imaging.FormatFromFilename(path)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	if err := s.write(img, path, f); err != nil {
		return err
	}
	s.copyPath(path)
	return nil
}

func (s *Store) fileName(sessionID string) string {
	id := strings.ReplaceAll(sessionID, "-", "")
	if len(id) > shortIDLen {
		id = id[:shortIDLen]
	}
	stamp := s.now().Format("20060102_150405")
	if id == "" {
		return fmt.Sprintf("%s_%s.%s", filePrefix, stamp, s.ext)
	}
	return fmt.Sprintf("%s_%s_%s.%s", filePrefix, stamp, id, s.ext)
}

func (s *Store) write(img image.Image, path string, f imaging.Format) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file %s: %w", path, err)
	}
	if err := imaging.Encode(file, img, f, imaging.JPEGQuality(s.quality)); err != nil {
		file.Close()
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	logger.InfoTagf("export", "Saved %s (%v)", path, f)
	return nil
}

func (s *Store) copyPath(path string) {
	if s.clipboard == nil {
		return
	}
	if err := s.clipboard.WriteText(path); err != nil {
		logger.Warnf("Export: could not copy path to clipboard: %v", err)
	}
}

func extension(f imaging.Format) string {
	switch f {
	case imaging.JPEG:
		return "jpg"
	case imaging.TIFF:
		return "tiff"
	default:
		return strings.ToLower(f.String())
	}
}
