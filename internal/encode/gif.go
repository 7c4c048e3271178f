package encode

import (
	"bytes"
	"fmt"
	"image"
	"image/color/palette"
	"image/draw"
	"image/gif"
	"time"
)

// GIFProvider encodes frames as a looping animated GIF.
//
// Frames are palettized against the standard 256-color Plan9 palette
// with nearest-color mapping, which keeps encoding deterministic for
// identical input frames.
type GIFProvider struct{}

// ContentType implements Provider.
func (GIFProvider) ContentType() string {
	return "image/gif"
}

// Encode implements Provider. The frame duration is rounded down to
// GIF's 10ms tick granularity, with a 10ms floor.
func (GIFProvider) Encode(frames []image.Image, frameDuration time.Duration) ([]byte, error) {
	if len(frames) == 0 {
		return nil, fmt.Errorf("encode: no frames to encode")
	}

	delay := int(frameDuration / (10 * time.Millisecond))
	if delay < 1 {
		delay = 1
	}

	out := &gif.GIF{
		Image:     make([]*image.Paletted, 0, len(frames)),
		Delay:     make([]int, 0, len(frames)),
		LoopCount: 0, // Loop forever
	}

	for _, frame := range frames {
		bounds := frame.Bounds()
		paletted := image.NewPaletted(bounds, palette.Plan9)
		draw.Draw(paletted, bounds, frame, bounds.Min, draw.Src)
		out.Image = append(out.Image, paletted)
		out.Delay = append(out.Delay, delay)
	}

	var buf bytes.Buffer
	if err := gif.EncodeAll(&buf, out); err != nil {
		return nil, fmt.Errorf("encode: gif encoding failed: %w", err)
	}
	return buf.Bytes(), nil
}
