// Package telemetry carries the streaming supervisor's progress events and
// the tile-generation timing log.
package telemetry

import "github.com/pthm-cable/heightstream/tile"

// EventType identifies the kind of progress event a batch generation pass
// emits.
type EventType uint8

const (
	EventBatchStarted EventType = iota
	EventTileCompleted
	EventBatchCompleted
)

// Event is a single progress event. Only the fields relevant to Type are
// populated; the rest are left at their zero value.
type Event struct {
	Type EventType

	Total int // BatchStarted: number of tiles in the batch

	Coord     tile.Coord // TileCompleted
	FromCache bool       // TileCompleted

	Rect tile.Rect // BatchCompleted
}
