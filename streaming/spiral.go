package streaming

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/heightstream/tile"
)

// spiralOrder returns rect's tiles sorted ascending by squared distance to
// the rect's (possibly fractional) center, so tiles near the consumer
// finish first. Ties are broken by row then column so the order is fully
// deterministic.
func spiralOrder(rect tile.Rect) []tile.Coord {
	tiles := rect.Tiles()
	cx, cy := rect.Center()

	sqDist := make([]float64, len(tiles))
	for i, tc := range tiles {
		dx := float64(tc.TX) + 0.5 - cx
		dy := float64(tc.TY) + 0.5 - cy
		sqDist[i] = dx*dx + dy*dy
	}

	sort.SliceStable(tiles, func(i, j int) bool {
		if sqDist[i] != sqDist[j] {
			return sqDist[i] < sqDist[j]
		}
		if tiles[i].TY != tiles[j].TY {
			return tiles[i].TY < tiles[j].TY
		}
		return tiles[i].TX < tiles[j].TX
	})
	return tiles
}

// predictNext returns a batch_size square centered on pos, or offset half a
// batch along the consumer's velocity direction if it is moving fast enough
// for direction to be meaningful.
func predictNext(pos tile.Coord, vel r2.Vec, batchSize int32) tile.Rect {
	center := pos
	if speed := r2.Norm(vel); speed >= 0.1 {
		half := float64(batchSize) / 2
		dir := r2.Scale(1/speed, vel)
		center = tile.Coord{
			TX: pos.TX + int32(math.Round(dir.X*half)),
			TY: pos.TY + int32(math.Round(dir.Y*half)),
		}
	}
	return tile.Rect{
		Origin: tile.Coord{TX: center.TX - batchSize/2, TY: center.TY - batchSize/2},
		W:      batchSize,
		H:      batchSize,
	}
}
