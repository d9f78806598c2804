package streaming

import "github.com/pthm-cable/heightstream/tile"

// state is the supervisor's entire mutable world view, published atomically
// so the consumer's Tick never observes a torn read: build the next version
// off the current one, then swap it in with a single atomic store. Only the
// worker goroutine ever constructs a new state value; Tick only ever loads
// and reads one.
type state struct {
	index            map[tile.Coord]tile.Heightmap
	completedRegions []tile.Rect
	activeRegion     tile.Rect
}

func newState() *state {
	return &state{index: make(map[tile.Coord]tile.Heightmap)}
}

// withTile returns a new state with tc installed, leaving s unmodified.
func (s *state) withTile(tc tile.Coord, h tile.Heightmap) *state {
	next := make(map[tile.Coord]tile.Heightmap, len(s.index)+1)
	for k, v := range s.index {
		next[k] = v
	}
	next[tc] = h
	return &state{index: next, completedRegions: s.completedRegions, activeRegion: s.activeRegion}
}

// withBatchCompleted appends rect to completedRegions, makes it the active
// region, and evicts the oldest regions (and their exclusively-owned tiles)
// while the completed-region count exceeds maxCached, all in one atomic
// transition.
func (s *state) withBatchCompleted(rect tile.Rect, maxCached int) *state {
	regions := append(append([]tile.Rect{}, s.completedRegions...), rect)
	index := s.index

	for len(regions) > maxCached {
		oldest := regions[0]
		regions = regions[1:]

		trimmed := make(map[tile.Coord]tile.Heightmap, len(index))
		for tc, h := range index {
			if !oldest.Contains(tc) || containedInAny(tc, regions) {
				trimmed[tc] = h
			}
		}
		index = trimmed
	}

	return &state{index: index, completedRegions: regions, activeRegion: rect}
}

func containedInAny(tc tile.Coord, regions []tile.Rect) bool {
	for _, r := range regions {
		if r.Contains(tc) {
			return true
		}
	}
	return false
}

func containsRegion(regions []tile.Rect, rect tile.Rect) bool {
	for _, r := range regions {
		if r.Equal(rect) {
			return true
		}
	}
	return false
}
