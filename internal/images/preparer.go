package images

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"

	"github.com/Hali-creater/AuraPin/internal/logging"
	"github.com/Hali-creater/AuraPin/internal/services"
)

const (
	// FlagLowQualitySource marks artifacts produced from a source below the
	// minimum acceptable resolution that had to be upscaled.
	FlagLowQualitySource = "low_quality_source"
	// FlagImageUnavailable marks candidates whose image could not be
	// downloaded or decoded; the candidate proceeds text-only.
	FlagImageUnavailable = "image_unavailable"
)

// Artifact is a prepared, ready-to-post pin image on local disk.
type Artifact struct {
	Path   string
	Width  int
	Height int
	Flags  []string
}

// Options bounds the output geometry and encoding.
type Options struct {
	TargetWidth  int
	TargetHeight int
	MinWidth     int
	MinHeight    int
	JPEGQuality  int
}

// Preparer downloads product images and reformats them to the 2:3 pin aspect
// ratio using a centered-crop policy.
type Preparer struct {
	dir        string
	opts       Options
	httpClient *http.Client
	logger     *slog.Logger
}

// NewPreparer constructs a preparer writing artifacts into dir.
func NewPreparer(dir string, opts Options, timeout time.Duration, logger *slog.Logger) *Preparer {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Preparer{
		dir:        dir,
		opts:       opts,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger.With(logging.String(logging.FieldComponent, "images")),
	}
}

// WithHTTPClient overrides the download client, for tests.
func (p *Preparer) WithHTTPClient(client *http.Client) *Preparer {
	if client != nil {
		p.httpClient = client
	}
	return p
}

// Prepare fetches the source image and produces a cropped JPEG artifact. A
// download or decode failure returns an error wrapping ErrImageUnavailable;
// the caller keeps the candidate and flags it for operator attention.
func (p *Preparer) Prepare(ctx context.Context, imageURL string) (*Artifact, error) {
	imageURL = strings.TrimSpace(imageURL)
	if imageURL == "" {
		return nil, services.Wrap(services.ErrImageUnavailable, "images", "prepare", "image url is empty", nil)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, services.Wrap(services.ErrImageUnavailable, "images", "download", imageURL, err)
	}
	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, services.Wrap(services.ErrImageUnavailable, "images", "download", imageURL, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, services.Wrap(services.ErrImageUnavailable, "images", "download", fmt.Sprintf("%s: http %d", imageURL, resp.StatusCode), nil)
	}

	source, err := imaging.Decode(resp.Body, imaging.AutoOrientation(true))
	if err != nil {
		return nil, services.Wrap(services.ErrImageUnavailable, "images", "decode", imageURL, err)
	}

	formatted, flags := p.format(source)

	if err := os.MkdirAll(p.dir, 0o755); err != nil {
		return nil, fmt.Errorf("ensure images directory: %w", err)
	}
	path := filepath.Join(p.dir, uuid.NewString()+".jpg")
	if err := imaging.Save(formatted, path, imaging.JPEGQuality(p.opts.JPEGQuality)); err != nil {
		return nil, fmt.Errorf("save artifact: %w", err)
	}

	bounds := formatted.Bounds()
	artifact := &Artifact{
		Path:   path,
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
		Flags:  flags,
	}
	if len(flags) > 0 {
		logging.WithContext(ctx, p.logger).Warn("prepared low quality artifact",
			logging.Args(logging.String("path", path), logging.String("flags", strings.Join(flags, ",")))...)
	}
	return artifact, nil
}

// format applies the centered-crop policy: the longer dimension is trimmed
// symmetrically about the center until the 2:3 ratio holds, then the result
// is scaled down to the target size. Sources below the minimum resolution
// are upscaled only as a last resort and flagged.
func (p *Preparer) format(source image.Image) (image.Image, []string) {
	bounds := source.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	cropWidth := width
	cropHeight := width * p.opts.TargetHeight / p.opts.TargetWidth
	if cropHeight > height {
		cropHeight = height
		cropWidth = height * p.opts.TargetWidth / p.opts.TargetHeight
	}
	cropped := imaging.CropCenter(source, cropWidth, cropHeight)

	var flags []string
	switch {
	case cropWidth < p.opts.MinWidth || cropHeight < p.opts.MinHeight:
		flags = append(flags, FlagLowQualitySource)
		return imaging.Resize(cropped, p.opts.MinWidth, p.opts.MinHeight, imaging.Lanczos), flags
	case cropWidth > p.opts.TargetWidth || cropHeight > p.opts.TargetHeight:
		return imaging.Resize(cropped, p.opts.TargetWidth, p.opts.TargetHeight, imaging.Lanczos), flags
	default:
		return cropped, flags
	}
}
