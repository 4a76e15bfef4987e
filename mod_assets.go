package sylva

import (
	"context"
	"encoding/json"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io/fs"
	"sync"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

type AssetId string

func makeAssetId() AssetId {
	return AssetId(uuid.NewString())
}

// ImageAsset is a decoded image ready for texture upload.
type ImageAsset struct {
	Id     AssetId
	Path   string
	Format string
	RGBA   *image.RGBA
}

// AssetServer reads scene assets from a file system. Decoded images are
// cached by path and shared between modules. Safe for concurrent use.
type AssetServer struct {
	fsys           fs.FS
	maxTextureSize int

	mu     sync.Mutex
	images map[string]*ImageAsset
}

func NewAssetServer(fsys fs.FS) *AssetServer {
	return &AssetServer{
		fsys:   fsys,
		images: make(map[string]*ImageAsset),
	}
}

// SetMaxTextureSize makes LoadImage downscale images whose larger side
// exceeds n pixels. Zero disables scaling.
func (s *AssetServer) SetMaxTextureSize(n int) {
	s.mu.Lock()
	s.maxTextureSize = n
	s.mu.Unlock()
}

// LoadImage decodes a png, jpeg, webp or bmp file into RGBA.
func (s *AssetServer) LoadImage(ctx context.Context, path string) (*ImageAsset, error) {
	s.mu.Lock()
	cached, ok := s.images[path]
	limit := s.maxTextureSize
	s.mu.Unlock()
	if ok {
		return cached, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := s.fsys.Open(path)
	if err != nil {
		return nil, fmt.Errorf("image %s: %w", path, err)
	}
	defer f.Close()
	img, format, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("image %s: %w", path, err)
	}

	asset := &ImageAsset{
		Id:     makeAssetId(),
		Path:   path,
		Format: format,
		RGBA:   toRGBA(img, limit),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if cached, ok := s.images[path]; ok {
		return cached, nil
	}
	s.images[path] = asset
	return asset, nil
}

// toRGBA converts img to RGBA with its origin at (0,0), scaling it down to
// fit limit when limit > 0.
func toRGBA(img image.Image, limit int) *image.RGBA {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if limit > 0 && (w > limit || h > limit) {
		if w >= h {
			w, h = limit, max(1, h*limit/w)
		} else {
			w, h = max(1, w*limit/h), limit
		}
		dst := image.NewRGBA(image.Rect(0, 0, w, h))
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
		return dst
	}
	if rgba, ok := img.(*image.RGBA); ok && b.Min == (image.Point{}) {
		return rgba
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}

// LoadJSON decodes the JSON file at path into v.
func (s *AssetServer) LoadJSON(ctx context.Context, path string, v any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := fs.ReadFile(s.fsys, path)
	if err != nil {
		return fmt.Errorf("json %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("json %s: %w", path, err)
	}
	return nil
}

// LoadTreePositions reads a list of [x, y] absolute coordinates.
func (s *AssetServer) LoadTreePositions(ctx context.Context, path string) ([]mgl64.Vec2, error) {
	var raw [][]float64
	if err := s.LoadJSON(ctx, path, &raw); err != nil {
		return nil, err
	}
	trees := make([]mgl64.Vec2, 0, len(raw))
	for i, p := range raw {
		if len(p) < 2 {
			return nil, fmt.Errorf("trees %s: entry %d has %d coordinates", path, i, len(p))
		}
		trees = append(trees, mgl64.Vec2{p[0], p[1]})
	}
	return trees, nil
}

type ringsDocument struct {
	Feature struct {
		Geometry struct {
			Rings [][][]float64 `json:"rings"`
		} `json:"geometry"`
	} `json:"feature"`
}

// LoadRings reads a polygon-with-holes document of the form
// {"feature": {"geometry": {"rings": [[[x, y], ...], ...]}}}. The first ring
// is the outer boundary.
func (s *AssetServer) LoadRings(ctx context.Context, path string) ([][]mgl64.Vec2, error) {
	var doc ringsDocument
	if err := s.LoadJSON(ctx, path, &doc); err != nil {
		return nil, err
	}
	raw := doc.Feature.Geometry.Rings
	if len(raw) == 0 {
		return nil, fmt.Errorf("rings %s: no rings", path)
	}
	rings := make([][]mgl64.Vec2, len(raw))
	for r, ring := range raw {
		rings[r] = make([]mgl64.Vec2, 0, len(ring))
		for i, p := range ring {
			if len(p) < 2 {
				return nil, fmt.Errorf("rings %s: ring %d point %d has %d coordinates", path, r, i, len(p))
			}
			rings[r] = append(rings[r], mgl64.Vec2{p[0], p[1]})
		}
	}
	return rings, nil
}

// Purge drops every cached image.
func (s *AssetServer) Purge() {
	s.mu.Lock()
	clear(s.images)
	s.mu.Unlock()
}

// Cached reports how many images are held.
func (s *AssetServer) Cached() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.images)
}
