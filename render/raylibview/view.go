// Package raylibview implements render.Viewport using
// github.com/gen2brain/raylib-go/raylib, translating world positions
// through a camera.Camera for pan/zoom and toroidal wrap-around, the way
// the teacher's game.Game owns its window and camera directly.
package raylibview

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/geneticsim/camera"
	"github.com/pthm-cable/geneticsim/render"
)

// View is a raylib-backed render.Viewport.
type View struct {
	cam   *camera.Camera
	title string

	panSpeed float32
	zoomStep float32
}

// New opens a window of the given size and returns a View whose camera
// is centered on a worldW x worldH toroidal world.
func New(title string, viewportW, viewportH, worldW, worldH int32) *View {
	rl.InitWindow(viewportW, viewportH, title)

	return &View{
		cam:      camera.New(float32(viewportW), float32(viewportH), float32(worldW), float32(worldH)),
		title:    title,
		panSpeed: 300,
		zoomStep: 1.05,
	}
}

// SetTargetFPS sets raylib's frame rate cap.
func (v *View) SetTargetFPS(fps int32) {
	rl.SetTargetFPS(fps)
}

// DisableFrameLimit removes raylib's frame rate cap, used during
// benchmark runs so per-frame timing reflects unthrottled throughput.
func (v *View) DisableFrameLimit() {
	rl.SetTargetFPS(0)
}

// Close shuts down the window. Callers should defer this after New.
func (v *View) Close() {
	rl.CloseWindow()
}

func toRaylibColor(c render.Color) rl.Color {
	return rl.Color{R: c.R, G: c.G, B: c.B, A: c.A}
}

// Clear begins the frame and paints the background.
func (v *View) Clear(background render.Color) {
	rl.BeginDrawing()
	rl.ClearBackground(toRaylibColor(background))
}

// DrawResource draws a single food/water item as a filled circle.
func (v *View) DrawResource(pos [2]float32, size float32, fill render.Color) {
	sx, sy := v.cam.WorldToScreen(pos[0], pos[1])
	rl.DrawCircle(int32(sx), int32(sy), size*v.cam.Zoom, toRaylibColor(fill))
}

// DrawOrganism draws an organism as a filled, outlined circle, plus its
// wrapped ghost position (if any) for seamless toroidal edge crossing.
func (v *View) DrawOrganism(pos [2]float32, size float32, fill, outline render.Color, wrapped *[2]float32) {
	v.drawOrganismAt(pos, size, fill, outline)
	if wrapped != nil {
		v.drawOrganismAt(*wrapped, size, fill, outline)
	}
}

func (v *View) drawOrganismAt(pos [2]float32, size float32, fill, outline render.Color) {
	sx, sy := v.cam.WorldToScreen(pos[0], pos[1])
	radius := size * v.cam.Zoom
	rl.DrawCircle(int32(sx), int32(sy), radius, toRaylibColor(fill))
	rl.DrawCircleLines(int32(sx), int32(sy), radius, toRaylibColor(outline))
}

// DrawAnnotations overlays the current tick and the temperature range
// currently visible on screen.
func (v *View) DrawAnnotations(tick uint64, upperTemp, lowerTemp float32) {
	text := fmt.Sprintf("tick %d  temp %.1fK - %.1fK", tick, lowerTemp, upperTemp)
	rl.DrawText(text, 10, 10, 18, rl.RayWhite)
}

// Display ends and presents the frame.
func (v *View) Display() {
	rl.EndDrawing()
}

// VisibleLatitudeRows returns the world-space row at the top and bottom
// edge of the camera's current view, clamped to the world height.
func (v *View) VisibleLatitudeRows() (top, bottom uint32) {
	_, minY, _, maxY := v.cam.VisibleWorldBounds()
	if minY < 0 {
		minY = 0
	}
	if maxY >= v.cam.WorldH {
		maxY = v.cam.WorldH - 1
	}
	if maxY < 0 {
		maxY = 0
	}
	return uint32(minY), uint32(maxY)
}

// PollInput processes window/keyboard events for this frame: arrow keys
// pan the camera, W/S zoom, F toggles the framerate cap, and a window
// close request is reported via InputState.Closed.
func (v *View) PollInput() render.InputState {
	var state render.InputState

	if rl.IsWindowResized() {
		v.cam.Resize(float32(rl.GetScreenWidth()), float32(rl.GetScreenHeight()))
	}

	dt := rl.GetFrameTime()
	if rl.IsKeyDown(rl.KeyLeft) {
		v.cam.Pan(-v.panSpeed*dt, 0)
	}
	if rl.IsKeyDown(rl.KeyRight) {
		v.cam.Pan(v.panSpeed*dt, 0)
	}
	if rl.IsKeyDown(rl.KeyUp) {
		v.cam.Pan(0, -v.panSpeed*dt)
	}
	if rl.IsKeyDown(rl.KeyDown) {
		v.cam.Pan(0, v.panSpeed*dt)
	}
	if rl.IsKeyDown(rl.KeyW) {
		v.cam.ZoomBy(v.zoomStep)
	}
	if rl.IsKeyDown(rl.KeyS) {
		v.cam.ZoomBy(1 / v.zoomStep)
	}
	if rl.IsKeyPressed(rl.KeyF) {
		state.ToggleFramerateCap = true
	}

	state.Closed = rl.WindowShouldClose()
	return state
}
