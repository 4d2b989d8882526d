package renderer

import (
	"LotusPond/internal/logger"
	"image"
	"image/draw"
	"sync"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"
)

// GPU hooks, swapped out in tests.
var (
	uploadTexture = glUploadTexture
	deleteTexture = glDeleteTexture
)

type TextureStats struct {
	TotalTextures  int
	CacheHits      int
	CacheMisses    int
	ActiveTextures int
}

// TextureManager shares GPU textures between nodes by name and frees them
// once the last reference is released.
type TextureManager struct {
	textureCache    map[string]uint32 // name -> texture ID
	textureRefCount map[uint32]int
	textureNames    map[uint32]string
	mu              sync.Mutex
	stats           TextureStats
}

func NewTextureManager() *TextureManager {
	return &TextureManager{
		textureCache:    make(map[string]uint32),
		textureRefCount: make(map[uint32]int),
		textureNames:    make(map[uint32]string),
	}
}

// Acquire returns the texture cached under name, uploading img on a miss.
// Every call must be paired with a Release.
func (tm *TextureManager) Acquire(name string, img image.Image) uint32 {
	tm.mu.Lock()
	defer tm.mu.Unlock()

	if id, ok := tm.textureCache[name]; ok {
		tm.textureRefCount[id]++
		tm.stats.CacheHits++
		return id
	}
	tm.stats.CacheMisses++

	id := uploadTexture(toRGBA(img))
	tm.textureCache[name] = id
	tm.textureRefCount[id] = 1
	tm.textureNames[id] = name
	tm.stats.TotalTextures++

	logger.Log.Debug("Texture uploaded",
		zap.String("name", name),
		zap.Uint32("textureID", id))
	return id
}

func (tm *TextureManager) Release(id uint32) {
	tm.mu.Lock()
	defer tm.mu.Unlock()

	refCount, ok := tm.textureRefCount[id]
	if !ok {
		logger.Log.Warn("Attempted to release unknown texture", zap.Uint32("textureID", id))
		return
	}
	refCount--
	if refCount > 0 {
		tm.textureRefCount[id] = refCount
		return
	}

	deleteTexture(id)
	name := tm.textureNames[id]
	delete(tm.textureCache, name)
	delete(tm.textureRefCount, id)
	delete(tm.textureNames, id)

	logger.Log.Debug("Texture freed",
		zap.Uint32("textureID", id),
		zap.String("name", name))
}

func (tm *TextureManager) GetStats() TextureStats {
	tm.mu.Lock()
	defer tm.mu.Unlock()

	stats := tm.stats
	stats.ActiveTextures = len(tm.textureRefCount)
	return stats
}

// Clear frees every texture regardless of references.
func (tm *TextureManager) Clear() {
	tm.mu.Lock()
	defer tm.mu.Unlock()

	for id := range tm.textureRefCount {
		deleteTexture(id)
	}
	tm.textureCache = make(map[string]uint32)
	tm.textureRefCount = make(map[uint32]int)
	tm.textureNames = make(map[uint32]string)
}

func toRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok {
		return rgba
	}
	b := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	return rgba
}

func glUploadTexture(rgba *image.RGBA) uint32 {
	var id uint32
	gl.GenTextures(1, &id)
	gl.BindTexture(gl.TEXTURE_2D, id)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA,
		int32(rgba.Rect.Size().X), int32(rgba.Rect.Size().Y),
		0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(rgba.Pix))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	return id
}

func glDeleteTexture(id uint32) {
	gl.DeleteTextures(1, &id)
}
