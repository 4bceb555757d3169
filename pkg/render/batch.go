package render

import (
	"context"
	"errors"
	"fmt"
	"image"
	"time"

	"fortio.org/log"
	"golang.org/x/sync/errgroup"
)

// Resolution is an output size in pixels.
type Resolution struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

func (r Resolution) String() string {
	return fmt.Sprintf("%dx%d", r.Width, r.Height)
}

// ImageEncoder persists a rendered pixel grid under a name.
type ImageEncoder interface {
	Encode(ctx context.Context, name string, img image.Image) error
}

// ArtifactName returns the base name of the image rendered at res.
func ArtifactName(res Resolution) string {
	return "raster_perspective_" + res.String()
}

// RenderResolutions renders objs once per resolution, each into its own
// framebuffer, and hands every result to enc. Resolutions are rendered
// concurrently and independently: a failed encode loses only that image.
// The call returns after all of them finish, joining any errors.
func (r *Renderer) RenderResolutions(ctx context.Context, objs []Object, resolutions []Resolution, enc ImageEncoder) error {
	var g errgroup.Group
	errs := make([]error, len(resolutions))
	for i, res := range resolutions {
		g.Go(func() error {
			start := time.Now()
			fb := r.Render(objs, res.Width, res.Height)
			name := ArtifactName(res)
			if err := enc.Encode(ctx, name, fb.ToImage()); err != nil {
				log.S(log.Error, "Encode failed", log.Str("artifact", name), log.Str("err", err.Error()))
				errs[i] = fmt.Errorf("encode %s: %w", name, err)
				return nil
			}
			log.S(log.Info, "Rendered", log.Str("resolution", res.String()),
				log.Str("artifact", name), log.Str("elapsed", time.Since(start).String()))
			return nil
		})
	}
	_ = g.Wait()
	return errors.Join(errs...)
}
