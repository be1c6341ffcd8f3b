package card

import (
	"bytes"
	"image/png"
	"path/filepath"
	"testing"

	"github.com/yungbote/jumak-backend/internal/taste"
)

func TestRenderProducesPNG(t *testing.T) {
	c := taste.DefaultCatalog()
	info := c.TypeInfo("sweet-fruity")
	v, err := c.ReferenceVector(info.Label)
	if err != nil {
		t.Fatalf("ReferenceVector: %v", err)
	}

	out, err := Render(info, v, Options{Width: 400, Height: 500})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 400 || b.Dy() != 500 {
		t.Fatalf("bounds: %v", b)
	}
}

func TestRenderDefaultsSize(t *testing.T) {
	out, err := Render(taste.DefaultCatalog().TypeInfo("gourmet"), taste.Uniform(0), Options{})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	cfg, err := png.DecodeConfig(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if cfg.Width != DefaultWidth || cfg.Height != DefaultHeight {
		t.Fatalf("size: %dx%d", cfg.Width, cfg.Height)
	}
}

func TestRenderMissingFont(t *testing.T) {
	_, err := Render(taste.TypeInfo{Label: "x"}, taste.Uniform(1), Options{FontPath: filepath.Join(t.TempDir(), "none.ttf")})
	if err == nil {
		t.Fatalf("expected error for missing font")
	}
}
