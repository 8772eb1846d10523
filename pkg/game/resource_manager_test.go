package game

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"testing"
	"testing/fstest"

	"github.com/decker502/duel/pkg/embedded"
	"github.com/hajimehoshi/ebiten/v2/audio"
)

// Global audio context shared by all tests
// Ebitengine only allows one audio context to be created
var testAudioContext *audio.Context

// TestMain sets up the shared audio context before running tests
func TestMain(m *testing.M) {
	testAudioContext = audio.NewContext(48000)
	os.Exit(m.Run())
}

// encodeTestImage creates a simple 10x10 blue PNG.
func encodeTestImage(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 10, 10))
	blue := color.RGBA{R: 0, G: 0, B: 255, A: 255}
	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			img.Set(x, y, blue)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func initTestAssets(t *testing.T, files fstest.MapFS) {
	t.Helper()
	embedded.Init(files, nil)
	t.Cleanup(func() { embedded.Init(nil, nil) })
}

// TestLoadImageCaches tests image loading and caching.
func TestLoadImageCaches(t *testing.T) {
	initTestAssets(t, fstest.MapFS{
		"assets/fighters/knight.png": {Data: encodeTestImage(t)},
	})
	rm := NewResourceManager(testAudioContext)

	img, err := rm.LoadImage("assets/fighters/knight.png")
	if err != nil {
		t.Fatalf("LoadImage: %v", err)
	}
	if w, h := img.Bounds().Dx(), img.Bounds().Dy(); w != 10 || h != 10 {
		t.Errorf("size = %dx%d, want 10x10", w, h)
	}

	again, err := rm.LoadImage("assets/fighters/knight.png")
	if err != nil || again != img {
		t.Error("second load should return the cached image")
	}
	if rm.GetImage("assets/fighters/knight.png") != img {
		t.Error("GetImage should return the cached image")
	}
}

// TestLoadImageErrors tests missing and corrupted images.
func TestLoadImageErrors(t *testing.T) {
	initTestAssets(t, fstest.MapFS{
		"assets/broken.png": {Data: []byte("not a png")},
	})
	rm := NewResourceManager(testAudioContext)

	tests := []struct {
		name string
		path string
	}{
		{"missing", "assets/missing.png"},
		{"corrupted", "assets/broken.png"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := rm.LoadImage(tt.path); err == nil {
				t.Errorf("LoadImage(%s) should fail", tt.path)
			}
			if rm.GetImage(tt.path) != nil {
				t.Error("failed loads must not be cached")
			}
		})
	}
}

// TestLoadSoundDataErrors tests audio loading failures.
func TestLoadSoundDataErrors(t *testing.T) {
	initTestAssets(t, fstest.MapFS{
		"assets/audio/cue.wav":    {Data: []byte("RIFF")},
		"assets/audio/broken.ogg": {Data: []byte("garbage")},
	})

	tests := []struct {
		name string
		ctx  *audio.Context
		path string
	}{
		{"unsupported format", testAudioContext, "assets/audio/cue.wav"},
		{"missing file", testAudioContext, "assets/audio/missing.ogg"},
		{"corrupted ogg", testAudioContext, "assets/audio/broken.ogg"},
		{"no audio context", nil, "assets/audio/broken.ogg"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rm := NewResourceManager(tt.ctx)
			if _, err := rm.LoadSoundData(tt.path); err == nil {
				t.Errorf("LoadSoundData(%s) should fail", tt.path)
			}
		})
	}
}

// TestFontFallback 内置字体兜底
func TestFontFallback(t *testing.T) {
	initTestAssets(t, fstest.MapFS{})
	rm := NewResourceManager(nil)

	if _, err := rm.LoadFont("assets/fonts/missing.ttf", 20); err == nil {
		t.Error("LoadFont of a missing file should fail")
	}

	def := rm.DefaultFont(20)
	if def == nil || def.Source == nil {
		t.Fatal("DefaultFont should always be available")
	}
	if def.Size != 20 {
		t.Errorf("Size = %v, want 20", def.Size)
	}

	for _, path := range []string{"", "assets/fonts/missing.ttf"} {
		face := rm.Font(path, 32)
		if face == nil {
			t.Fatalf("Font(%q) returned nil", path)
		}
		if face.Source != def.Source {
			t.Errorf("Font(%q) should fall back to the built-in source", path)
		}
	}
}

// TestLoadLayersSkipsMissing 缺失或损坏的图层跳过，顺序保持不变
func TestLoadLayersSkipsMissing(t *testing.T) {
	initTestAssets(t, fstest.MapFS{
		"assets/stage/sky.png":    {Data: encodeTestImage(t)},
		"assets/stage/arena.png":  {Data: encodeTestImage(t)},
		"assets/stage/broken.png": {Data: []byte("not a png")},
	})
	rm := NewResourceManager(testAudioContext)

	tests := []struct {
		name  string
		paths []string
		want  int
	}{
		{"no layers", nil, 0},
		{"all present", []string{"assets/stage/sky.png", "assets/stage/arena.png"}, 2},
		{"missing and broken skipped", []string{
			"assets/stage/sky.png", "assets/stage/missing.png", "assets/stage/broken.png", "assets/stage/arena.png",
		}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			layers := rm.LoadLayers(tt.paths)
			if len(layers) != tt.want {
				t.Fatalf("got %d layers, want %d", len(layers), tt.want)
			}
		})
	}

	layers := rm.LoadLayers([]string{"assets/stage/arena.png", "assets/stage/sky.png"})
	if layers[0] != rm.GetImage("assets/stage/arena.png") || layers[1] != rm.GetImage("assets/stage/sky.png") {
		t.Error("layers should keep their configured order")
	}
}
