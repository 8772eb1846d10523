package game

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg" // Register JPEG decoder
	_ "image/png"  // Register PNG decoder
	"io"
	"log"
	"path/filepath"
	"strings"

	"github.com/decker502/duel/pkg/embedded"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/audio/mp3"
	"github.com/hajimehoshi/ebiten/v2/audio/vorbis"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/gofont/goregular"
)

// ResourceManager is responsible for centralized management of game resources.
// It loads images, sound effects, music and fonts through the embedded package
// (so overlays and on-disk asset directories work the same way) and caches
// every decoded resource so that it is loaded only once.
//
// Sound effects are decoded fully into PCM at the audio context's sample rate,
// which lets many overlapping players share the same bytes. Music is decoded
// as a stream and wrapped in an infinite loop.
//
// Thread Safety Note:
// This implementation is NOT thread-safe. All loading happens on the game loop
// goroutine (scene construction or the first Update).
//
// Usage:
//
//	audioContext := audio.NewContext(48000)
//	rm := NewResourceManager(audioContext)
//	img, err := rm.LoadImage("assets/fighters/knight.png")
//	if err != nil {
//	    log.Printf("Failed to load image: %v", err)
//	}
type ResourceManager struct {
	imageCache    map[string]*ebiten.Image          // path -> Image
	soundCache    map[string][]byte                 // path -> decoded PCM
	musicCache    map[string]*audio.Player          // path -> looping player
	fontSources   map[string]*text.GoTextFaceSource // path -> parsed font
	fontFaceCache map[string]*text.GoTextFace       // "path:size" -> face
	audioContext  *audio.Context                    // may be nil in headless tools
	defaultSource *text.GoTextFaceSource            // Go Regular, parsed lazily
}

// NewResourceManager creates and initializes a new ResourceManager instance.
// audioContext may be nil; audio loading then fails with an error and callers
// fall back to silence.
func NewResourceManager(audioContext *audio.Context) *ResourceManager {
	return &ResourceManager{
		imageCache:    make(map[string]*ebiten.Image),
		soundCache:    make(map[string][]byte),
		musicCache:    make(map[string]*audio.Player),
		fontSources:   make(map[string]*text.GoTextFaceSource),
		fontFaceCache: make(map[string]*text.GoTextFace),
		audioContext:  audioContext,
	}
}

// AudioContext returns the audio context used for decoding and playback.
func (rm *ResourceManager) AudioContext() *audio.Context {
	return rm.audioContext
}

// LoadImage loads an image (PNG/JPEG) and caches it.
//
// Error handling:
//   - Returns an error if the file does not exist or cannot be opened.
//   - Returns an error if the image format is not supported or the file is corrupted.
//   - Does not panic - all errors are returned to the caller for handling.
func (rm *ResourceManager) LoadImage(path string) (*ebiten.Image, error) {
	if cachedImage, exists := rm.imageCache[path]; exists {
		return cachedImage, nil
	}

	file, err := embedded.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image file %s: %w", path, err)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %s: %w", path, err)
	}

	ebitenImg := ebiten.NewImageFromImage(img)
	rm.imageCache[path] = ebitenImg
	return ebitenImg, nil
}

// LoadLayers loads a stack of images in order, skipping (and logging) any
// layer that cannot be loaded. The result may be empty.
func (rm *ResourceManager) LoadLayers(paths []string) []*ebiten.Image {
	layers := make([]*ebiten.Image, 0, len(paths))
	for _, path := range paths {
		img, err := rm.LoadImage(path)
		if err != nil {
			log.Printf("[ResourceManager] Warning: skipping layer: %v", err)
			continue
		}
		layers = append(layers, img)
	}
	return layers
}

// GetImage retrieves a previously loaded image from the cache, or nil.
func (rm *ResourceManager) GetImage(path string) *ebiten.Image {
	return rm.imageCache[path]
}

// LoadSoundData decodes a sound effect (.ogg/.mp3) into PCM bytes suitable
// for audio.Context.NewPlayerFromBytes. The result is cached.
func (rm *ResourceManager) LoadSoundData(path string) ([]byte, error) {
	if data, exists := rm.soundCache[path]; exists {
		return data, nil
	}

	stream, err := rm.decodeAudio(path)
	if err != nil {
		return nil, err
	}
	pcm, err := io.ReadAll(stream)
	if err != nil {
		return nil, fmt.Errorf("failed to read decoded audio %s: %w", path, err)
	}

	rm.soundCache[path] = pcm
	return pcm, nil
}

// LoadMusic loads a music track wrapped in an infinite loop.
// The player is cached; it is returned ready to play but not started.
func (rm *ResourceManager) LoadMusic(path string) (*audio.Player, error) {
	if cachedPlayer, exists := rm.musicCache[path]; exists {
		return cachedPlayer, nil
	}

	stream, err := rm.decodeAudio(path)
	if err != nil {
		return nil, err
	}

	loopStream := audio.NewInfiniteLoop(stream, stream.Length())
	player, err := rm.audioContext.NewPlayer(loopStream)
	if err != nil {
		return nil, fmt.Errorf("failed to create audio player for %s: %w", path, err)
	}

	rm.musicCache[path] = player
	return player, nil
}

// decodedStream is the common shape of the vorbis and mp3 streams.
type decodedStream interface {
	io.ReadSeeker
	Length() int64
}

// decodeAudio reads the whole file into memory and decodes it according to
// its extension, resampled to the audio context's rate.
func (rm *ResourceManager) decodeAudio(path string) (decodedStream, error) {
	if rm.audioContext == nil {
		return nil, fmt.Errorf("no audio context available for %s", path)
	}

	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".ogg" && ext != ".mp3" {
		return nil, fmt.Errorf("unsupported audio format: %s (supported: .mp3, .ogg)", ext)
	}

	audioData, err := embedded.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read audio file %s: %w", path, err)
	}
	reader := bytes.NewReader(audioData)
	sampleRate := rm.audioContext.SampleRate()

	switch ext {
	case ".mp3":
		stream, err := mp3.DecodeWithSampleRate(sampleRate, reader)
		if err != nil {
			return nil, fmt.Errorf("failed to decode MP3 audio %s: %w", path, err)
		}
		return stream, nil
	default:
		stream, err := vorbis.DecodeWithSampleRate(sampleRate, reader)
		if err != nil {
			return nil, fmt.Errorf("failed to decode OGG audio %s: %w", path, err)
		}
		return stream, nil
	}
}

// LoadFont loads a TrueType/OpenType font and creates a face of the given size.
// Faces are cached per (path, size); parsed sources are shared across sizes.
func (rm *ResourceManager) LoadFont(path string, size float64) (*text.GoTextFace, error) {
	cacheKey := fmt.Sprintf("%s:%.1f", path, size)
	if cachedFace, exists := rm.fontFaceCache[cacheKey]; exists {
		return cachedFace, nil
	}

	source, exists := rm.fontSources[path]
	if !exists {
		fontData, err := embedded.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read font file %s: %w", path, err)
		}
		source, err = text.NewGoTextFaceSource(bytes.NewReader(fontData))
		if err != nil {
			return nil, fmt.Errorf("failed to create font source for %s: %w", path, err)
		}
		rm.fontSources[path] = source
	}

	face := &text.GoTextFace{
		Source:    source,
		Size:      size,
		Direction: text.DirectionLeftToRight,
	}
	rm.fontFaceCache[cacheKey] = face
	return face, nil
}

// DefaultFont returns a face of the built-in Go Regular font.
// Returns nil only if the built-in font itself cannot be parsed.
func (rm *ResourceManager) DefaultFont(size float64) *text.GoTextFace {
	if rm.defaultSource == nil {
		source, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
		if err != nil {
			log.Printf("[ResourceManager] 错误: 内置字体解析失败: %v", err)
			return nil
		}
		rm.defaultSource = source
	}
	return &text.GoTextFace{
		Source:    rm.defaultSource,
		Size:      size,
		Direction: text.DirectionLeftToRight,
	}
}

// Font loads path when given, falling back to the built-in font with a warning.
func (rm *ResourceManager) Font(path string, size float64) *text.GoTextFace {
	if path != "" {
		face, err := rm.LoadFont(path, size)
		if err == nil {
			return face
		}
		log.Printf("[ResourceManager] Warning: 字体 %s 加载失败，使用内置字体: %v", path, err)
	}
	return rm.DefaultFont(size)
}
