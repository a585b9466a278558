package storage

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"io"

	"stockroom/internal/model"
)

// EnsureDefaultImage makes sure the placeholder asset exists in the backend
// so product image references always resolve. If it is missing, a plain
// gray square is generated and stored.
func EnsureDefaultImage(ctx context.Context, images *ImageStore) error {
	if rc, err := images.Open(ctx, model.DefaultImage); err == nil {
		// Local backends fail on Open; object stores may fail on Read.
		_, readErr := io.CopyN(io.Discard, rc, 1)
		rc.Close()
		if readErr == nil {
			return nil
		}
	}

	img := image.NewRGBA(image.Rect(0, 0, 256, 256))
	gray := color.RGBA{R: 0xdd, G: 0xdd, B: 0xdd, A: 0xff}
	for y := 0; y < 256; y++ {
		for x := 0; x < 256; x++ {
			img.Set(x, y, gray)
		}
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, nil); err != nil {
		return err
	}
	return images.backend.Put(ctx, model.DefaultImage, &buf, int64(buf.Len()), "image/jpeg")
}
