package encode

import (
	"bytes"
	"image"
	"image/color"
	"image/gif"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func solidFrame(w, h int, c color.RGBA) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func TestResolve(t *testing.T) {
	p, err := Resolve("out.gif")
	if err != nil {
		t.Fatalf("Resolve gif: %v", err)
	}
	if p.ContentType() != "image/gif" {
		t.Errorf("unexpected content type %q", p.ContentType())
	}

	if p, err := Resolve("OUT.GIF"); err != nil || p == nil {
		t.Errorf("extension matching must be case-insensitive, got %v", err)
	}

	if _, err := Resolve("out.webp"); err == nil {
		t.Error("expected webp to be rejected")
	}
	if _, err := Resolve("out.mp4"); err == nil {
		t.Error("expected unknown format to be rejected")
	}
	if _, err := Resolve("out"); err == nil {
		t.Error("expected missing extension to be rejected")
	}
}

func TestGIFEncode(t *testing.T) {
	frames := []image.Image{
		solidFrame(32, 16, color.RGBA{0x0d, 0x11, 0x17, 0xff}),
		solidFrame(32, 16, color.RGBA{0x39, 0xd3, 0x53, 0xff}),
		solidFrame(32, 16, color.RGBA{0xff, 0xdf, 0x00, 0xff}),
	}

	data, err := GIFProvider{}.Encode(frames, 25*time.Millisecond)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	decoded, err := gif.DecodeAll(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("DecodeAll: %v", err)
	}
	if len(decoded.Image) != len(frames) {
		t.Errorf("expected %d frames, got %d", len(frames), len(decoded.Image))
	}
	if decoded.LoopCount != 0 {
		t.Errorf("expected infinite loop, got %d", decoded.LoopCount)
	}
	for i, d := range decoded.Delay {
		// 25ms rounds down to 2 hundredths of a second.
		if d != 2 {
			t.Errorf("frame %d: expected delay 2, got %d", i, d)
		}
	}
	if b := decoded.Image[0].Bounds(); b.Dx() != 32 || b.Dy() != 16 {
		t.Errorf("unexpected frame size %v", b)
	}
}

func TestGIFEncodeDelayFloor(t *testing.T) {
	frames := []image.Image{solidFrame(4, 4, color.RGBA{A: 0xff})}
	data, err := GIFProvider{}.Encode(frames, 3*time.Millisecond)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	decoded, err := gif.DecodeAll(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("DecodeAll: %v", err)
	}
	if decoded.Delay[0] != 1 {
		t.Errorf("expected floored delay 1, got %d", decoded.Delay[0])
	}
}

func TestGIFEncodeEmpty(t *testing.T) {
	if _, err := (GIFProvider{}).Encode(nil, time.Second); err == nil {
		t.Fatal("expected error for empty frame sequence")
	}
}

func TestGIFEncodeDeterministic(t *testing.T) {
	frames := []image.Image{
		solidFrame(16, 16, color.RGBA{0x58, 0xa6, 0xff, 0xff}),
		solidFrame(16, 16, color.RGBA{0xff, 0xa6, 0x57, 0xff}),
	}
	a, err := GIFProvider{}.Encode(frames, 25*time.Millisecond)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	b, err := GIFProvider{}.Encode(frames, 25*time.Millisecond)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if !bytes.Equal(a, b) {
		t.Error("identical input must encode to identical bytes")
	}
}

func TestWriteCreatesDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "out.gif")
	if err := Write(path, []byte("GIF89a")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(data) != "GIF89a" {
		t.Errorf("unexpected file contents %q", data)
	}
}
