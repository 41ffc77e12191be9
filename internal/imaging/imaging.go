// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package imaging validates screenshot uploads before they are inlined
// into a model request. Only decode headers are inspected; pixels are
// never decoded in full.
package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"

	_ "image/jpeg" // register decoders for header sniffing
	_ "image/png"

	_ "golang.org/x/image/webp"
)

const (
	// MaxScreenshotBytes caps the decoded screenshot payload. Larger images
	// inflate the model request past practical completion limits.
	MaxScreenshotBytes = 4 << 20

	// maxDimension guards against decompression-bomb style inputs.
	maxDimension = 8192
)

var (
	// ErrTooLarge is returned when the screenshot exceeds MaxScreenshotBytes.
	ErrTooLarge = errors.New("imaging: screenshot exceeds size limit")

	// ErrUnsupportedFormat is returned when the payload is not PNG, JPEG,
	// or WebP.
	ErrUnsupportedFormat = errors.New("imaging: unsupported screenshot format")
)

// mimeTypes maps registered decoder format names to MIME types.
var mimeTypes = map[string]string{
	"png":  "image/png",
	"jpeg": "image/jpeg",
	"webp": "image/webp",
}

// ValidateScreenshot checks a raw screenshot payload and returns its MIME
// type. The format is determined from the image header, never from a
// client-supplied content type.
func ValidateScreenshot(data []byte) (string, error) {
	if len(data) == 0 {
		return "", ErrUnsupportedFormat
	}
	if len(data) > MaxScreenshotBytes {
		return "", fmt.Errorf("%w: %d bytes", ErrTooLarge, len(data))
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnsupportedFormat, err)
	}

	mime, ok := mimeTypes[format]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}

	if cfg.Width <= 0 || cfg.Height <= 0 || cfg.Width > maxDimension || cfg.Height > maxDimension {
		return "", fmt.Errorf("%w: %dx%d", ErrUnsupportedFormat, cfg.Width, cfg.Height)
	}

	return mime, nil
}
