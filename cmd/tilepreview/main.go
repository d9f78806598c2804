// Tile streaming preview tool - drives a heightstream.World with a
// keyboard-controlled consumer and renders its rendering snapshot live.
//
// Usage: go run ./cmd/tilepreview [-config path.yaml]
package main

import (
	"flag"
	"fmt"
	"image/color"
	"log/slog"
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
	gui "github.com/gen2brain/raylib-go/raygui"
	opensimplex "github.com/ojrac/opensimplex-go"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/heightstream/config"
	"github.com/pthm-cable/heightstream/heightstream"
	"github.com/pthm-cable/heightstream/telemetry"
	"github.com/pthm-cable/heightstream/tile"
)

const (
	windowWidth  = 1040
	windowHeight = 760
	previewSize  = 720
	panelWidth   = windowWidth - previewSize - 30
	tilePixels   = 96 // on-screen size of one tile's thumbnail
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config overlay (defaults used if empty)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("tilepreview: loading config", "err", err)
		return
	}

	world, err := heightstream.Configure(cfg)
	if err != nil {
		slog.Error("tilepreview: configure", "err", err)
		return
	}
	defer world.Shutdown()

	world.Start(tile.Coord{})

	rl.InitWindow(windowWidth, windowHeight, "Tile Streaming Preview")
	defer rl.CloseWindow()
	rl.SetTargetFPS(60)

	textures := make(map[tile.Coord]rl.Texture2D)
	defer func() {
		for _, t := range textures {
			rl.UnloadTexture(t)
		}
	}()

	consumerPos := r2.Vec{X: 0, Y: 0}
	var consumerVel r2.Vec
	showReferenceNoise := false
	refNoise := opensimplex.New(int64(cfg.World.Seed))

	recentEvents := make([]string, 0, 8)
	pushEvent := func(s string) {
		recentEvents = append(recentEvents, s)
		if len(recentEvents) > 8 {
			recentEvents = recentEvents[1:]
		}
	}

	moveSpeed := float32(cfg.World.TileSize) * 2

	for !rl.WindowShouldClose() {
		dt := rl.GetFrameTime()

		consumerVel = r2.Vec{}
		if rl.IsKeyDown(rl.KeyW) {
			consumerVel.Y -= float64(moveSpeed)
		}
		if rl.IsKeyDown(rl.KeyS) {
			consumerVel.Y += float64(moveSpeed)
		}
		if rl.IsKeyDown(rl.KeyA) {
			consumerVel.X -= float64(moveSpeed)
		}
		if rl.IsKeyDown(rl.KeyD) {
			consumerVel.X += float64(moveSpeed)
		}
		consumerPos.X += consumerVel.X * float64(dt)
		consumerPos.Y += consumerVel.Y * float64(dt)

		if rl.IsKeyPressed(rl.KeyN) {
			showReferenceNoise = !showReferenceNoise
		}

		snap := world.Tick(consumerPos, consumerVel)

		drainEvents(world, pushEvent)
		seen := make(map[tile.Coord]bool, len(snap.Tiles))
		for _, te := range snap.Tiles {
			seen[te.Coord] = true
			tex, ok := textures[te.Coord]
			if !ok {
				img := rl.GenImageColor(te.Heightmap.Size, te.Heightmap.Size, rl.Black)
				tex = rl.LoadTextureFromImage(img)
				rl.UnloadImage(img)
				textures[te.Coord] = tex
			}
			updateHeightmapTexture(tex, te.Heightmap)
		}
		for tc, tex := range textures {
			if !seen[tc] {
				rl.UnloadTexture(tex)
				delete(textures, tc)
			}
		}

		rl.BeginDrawing()
		rl.ClearBackground(rl.RayWhite)

		consumerTile := tile.Coord{
			TX: floorDivI(consumerPos.X, float64(cfg.World.TileSize)),
			TY: floorDivI(consumerPos.Y, float64(cfg.World.TileSize)),
		}
		originX := float32(previewSize/2 - tilePixels/2)
		originY := float32(previewSize/2 - tilePixels/2)
		for _, te := range snap.Tiles {
			dx := float32(te.Coord.TX-consumerTile.TX) * tilePixels
			dy := float32(te.Coord.TY-consumerTile.TY) * tilePixels
			tex := textures[te.Coord]
			rl.DrawTexturePro(
				tex,
				rl.Rectangle{X: 0, Y: 0, Width: float32(tex.Width), Height: float32(tex.Height)},
				rl.Rectangle{X: 10 + originX + dx, Y: 10 + originY + dy, Width: tilePixels, Height: tilePixels},
				rl.Vector2{}, 0, rl.White,
			)
			rl.DrawRectangleLines(int32(10+originX+dx), int32(10+originY+dy), tilePixels, tilePixels, rl.DarkGray)
		}
		rl.DrawRectangleLines(10, 10, previewSize, previewSize, rl.Black)
		rl.DrawText(fmt.Sprintf("consumer tile (%d,%d)", consumerTile.TX, consumerTile.TY), 15, int32(previewSize+15), 16, rl.DarkGray)

		if showReferenceNoise {
			drawReferenceStrip(refNoise, 15, int32(previewSize+40))
		}

		drawPanel(world, panelWidth, recentEvents)

		rl.EndDrawing()
	}
}

// drainEvents consumes every currently-buffered event without blocking, so
// the preview's render loop never waits on the supervisor.
func drainEvents(w *heightstream.World, push func(string)) {
	for {
		select {
		case e := <-w.Events():
			switch e.Type {
			case telemetry.EventBatchStarted:
				push(fmt.Sprintf("batch started (%d tiles)", e.Total))
			case telemetry.EventTileCompleted:
				push(fmt.Sprintf("tile (%d,%d) done, cache=%v", e.Coord.TX, e.Coord.TY, e.FromCache))
			case telemetry.EventBatchCompleted:
				push(fmt.Sprintf("batch completed: rect %v", e.Rect))
			}
		default:
			return
		}
	}
}

func drawPanel(w *heightstream.World, width int, events []string) {
	panelX := int32(previewSize + 20)
	panelY := int32(10)

	rl.DrawText("Streaming stats", panelX, panelY, 20, rl.DarkGray)
	panelY += 30

	stats := w.TimingStats()
	rl.DrawText(fmt.Sprintf("avg tile: %v", stats.AvgTileDuration), panelX, panelY, 14, rl.Gray)
	panelY += 18
	rl.DrawText(fmt.Sprintf("p50/p90/p99: %v / %v / %v", stats.P50, stats.P90, stats.P99), panelX, panelY, 14, rl.Gray)
	panelY += 18
	rl.DrawText(fmt.Sprintf("cache hit rate: %.2f", stats.CacheHitRate), panelX, panelY, 14, rl.Gray)
	panelY += 18
	rl.DrawText(fmt.Sprintf("tiles/sec: %.1f", stats.TilesPerSecond), panelX, panelY, 14, rl.Gray)
	panelY += 30

	rl.DrawText("Recent events", panelX, panelY, 18, rl.DarkGray)
	panelY += 22
	for _, e := range events {
		rl.DrawText(e, panelX, panelY, 12, rl.Gray)
		panelY += 16
	}

	panelY += 10
	rl.DrawText("WASD moves, N toggles reference noise", panelX, panelY, 12, rl.LightGray)

	if gui.Button(rl.Rectangle{X: float32(panelX), Y: float32(windowHeight - 40), Width: float32(width - 20), Height: 30}, "Close") {
		rl.CloseWindow()
	}
}

// drawReferenceStrip renders a small strip of plain 2D OpenSimplex noise
// alongside the generated heightmaps, purely as a visual sanity check that
// the pipeline's output looks like "terrain" rather than a raw noise field.
func drawReferenceStrip(n opensimplex.Noise, x, y int32) {
	const w, h = 128, 48
	for py := 0; py < h; py++ {
		for px := 0; px < w; px++ {
			v := (n.Eval2(float64(px)*0.08, float64(py)*0.08) + 1) * 0.5
			c := grayscale(float32(v))
			rl.DrawPixel(x+int32(px), y+int32(py), c)
		}
	}
	rl.DrawRectangleLines(x, y, w, h, rl.Gray)
}

// floorDivI matches the streaming supervisor's own world-pixel-to-tile
// conversion so the preview's displayed consumer tile never disagrees with
// the one the supervisor is actually streaming around.
func floorDivI(v, size float64) int32 {
	return int32(math.Floor(v / size))
}

func grayscale(v float32) color.RGBA {
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	c := uint8(v * 255)
	return color.RGBA{R: c, G: c, B: c, A: 255}
}

// updateHeightmapTexture maps a heightmap's [0,1]-ish float values onto a
// dark-blue -> cyan -> yellow -> white gradient, so low ground reads as
// water and high ground as peaks.
func updateHeightmapTexture(texture rl.Texture2D, h tile.Heightmap) {
	pixels := make([]color.RGBA, h.Size*h.Size)
	for i, v := range h.Data {
		pixels[i] = terrainColor(v)
	}
	rl.UpdateTexture(texture, pixels)
}

func terrainColor(v float32) color.RGBA {
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	var r, g, b uint8
	switch {
	case v < 0.25:
		t := v / 0.25
		r = uint8(10 + t*30)
		g = uint8(20 + t*60)
		b = uint8(60 + t*100)
	case v < 0.5:
		t := (v - 0.25) / 0.25
		r = uint8(40 + t*20)
		g = uint8(80 + t*120)
		b = uint8(160 + t*40)
	case v < 0.75:
		t := (v - 0.5) / 0.25
		r = uint8(60 + t*140)
		g = uint8(200 - t*40)
		b = uint8(200 - t*150)
	default:
		t := (v - 0.75) / 0.25
		r = uint8(200 + t*55)
		g = uint8(160 + t*95)
		b = uint8(50 + t*205)
	}
	return color.RGBA{R: r, G: g, B: b, A: 255}
}
