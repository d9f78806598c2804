// Package tilecache implements an on-disk, content-addressed store for
// eroded heightmaps, keyed by (world_seed, tile coordinate), plus stats and
// clear operations over a seed's directory.
package tilecache

import (
	"encoding/binary"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/pthm-cable/heightstream/tile"
)

// ErrCorruptRecord is returned internally (and logged, never surfaced to
// callers of Load, which treats corruption as a plain cache miss).
var ErrCorruptRecord = errors.New("tilecache: corrupt record")

// magic identifies this package's heightmap raster format: a flat
// single-channel float32 raster, named with the conventional .exr
// extension even though it isn't actual OpenEXR, to keep the directory
// layout recognizable to anything expecting one file per tile.
const magic = "HSEXR001"

// Cache is a disk-backed heightmap store rooted at a configurable path,
// one subdirectory per world seed, one file per tile.
type Cache struct {
	root string
}

// New creates (or reuses) the cache root directory. Failure to create it
// is surfaced here rather than deferred to the first Save.
func New(root string) (*Cache, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("tilecache: create root %q: %w", root, err)
	}
	return &Cache{root: root}, nil
}

func (c *Cache) seedDir(seed uint32) string {
	return filepath.Join(c.root, fmt.Sprintf("seed_%d", seed))
}

func (c *Cache) tilePath(seed uint32, tc tile.Coord) string {
	return filepath.Join(c.seedDir(seed), fmt.Sprintf("tile_%d_%d.exr", tc.TX, tc.TY))
}

// Has is a pure read with no side effects.
func (c *Cache) Has(seed uint32, tc tile.Coord) bool {
	info, err := os.Stat(c.tilePath(seed, tc))
	return err == nil && info.Size() >= headerSize
}

const headerSize = int64(len(magic) + 4) // magic + uint32 size

// Load deserializes the heightmap for (seed, tc). A missing file, a
// truncated file, or a parse failure are all treated as a cache miss;
// parse failures are logged but never returned as an error to the caller.
func (c *Cache) Load(seed uint32, tc tile.Coord) (tile.Heightmap, bool) {
	path := c.tilePath(seed, tc)
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			slog.Warn("tilecache: read failed", "path", path, "err", err)
		}
		return tile.Heightmap{}, false
	}
	h, err := decode(data)
	if err != nil {
		slog.Warn("tilecache: corrupt record treated as cache miss", "path", path, "err", err)
		return tile.Heightmap{}, false
	}
	return h, true
}

// Save atomically persists h for (seed, tc): write-to-temp, rename-into-
// place, so a crash mid-write never leaves a file Has reports as present
// with partial content.
func (c *Cache) Save(seed uint32, tc tile.Coord, h tile.Heightmap) error {
	dir := c.seedDir(seed)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("tilecache: create seed dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "tile_*.tmp")
	if err != nil {
		return fmt.Errorf("tilecache: create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath) // no-op once renamed

	if _, err := tmp.Write(encode(h)); err != nil {
		tmp.Close()
		return fmt.Errorf("tilecache: write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("tilecache: sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("tilecache: close temp file: %w", err)
	}

	if err := os.Rename(tmpPath, c.tilePath(seed, tc)); err != nil {
		return fmt.Errorf("tilecache: rename into place: %w", err)
	}
	return nil
}

// Stats reports tile count and total bytes under a seed's directory.
type Stats struct {
	TileCount int
	Bytes     int64
}

// Stats scans the seed directory; a missing directory reports zero stats
// rather than an error (an unstarted world has no cache yet).
func (c *Cache) Stats(seed uint32) (Stats, error) {
	entries, err := os.ReadDir(c.seedDir(seed))
	if errors.Is(err, os.ErrNotExist) {
		return Stats{}, nil
	}
	if err != nil {
		return Stats{}, fmt.Errorf("tilecache: stats: %w", err)
	}
	var s Stats
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".exr") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		s.TileCount++
		s.Bytes += info.Size()
	}
	return s, nil
}

// Clear deletes every record under the seed root.
func (c *Cache) Clear(seed uint32) error {
	if err := os.RemoveAll(c.seedDir(seed)); err != nil {
		return fmt.Errorf("tilecache: clear: %w", err)
	}
	return nil
}

func encode(h tile.Heightmap) []byte {
	buf := make([]byte, headerSize+int64(len(h.Data))*4)
	copy(buf, magic)
	binary.LittleEndian.PutUint32(buf[len(magic):], uint32(h.Size))
	off := headerSize
	for _, v := range h.Data {
		binary.LittleEndian.PutUint32(buf[off:], math.Float32bits(v))
		off += 4
	}
	return buf
}

func decode(data []byte) (tile.Heightmap, error) {
	if int64(len(data)) < headerSize {
		return tile.Heightmap{}, ErrCorruptRecord
	}
	if string(data[:len(magic)]) != magic {
		return tile.Heightmap{}, ErrCorruptRecord
	}
	size := int(binary.LittleEndian.Uint32(data[len(magic):headerSize]))
	want := headerSize + int64(size)*int64(size)*4
	if int64(len(data)) != want {
		return tile.Heightmap{}, ErrCorruptRecord
	}
	h := tile.NewHeightmap(size)
	off := headerSize
	for i := range h.Data {
		h.Data[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[off:]))
		off += 4
	}
	return h, nil
}
