// Package render declares the narrow viewport surface the simulation
// core draws through. The core never imports a graphics library
// directly; only a render/* implementation package does that.
package render

import "strconv"

// Color is a plain RGBA color, independent of any graphics backend.
type Color struct {
	R, G, B, A uint8
}

// Viewport is the sole interface the simulation driver touches from the
// render goroutine. Implementations (e.g. render/raylibview) own the
// window, camera and font.
type Viewport interface {
	// Clear prepares the frame for drawing.
	Clear(background Color)
	// DrawResource draws a single food/water item.
	DrawResource(pos [2]float32, size float32, fill Color)
	// DrawOrganism draws a single organism, including its wrapped ghost
	// position if wrapped is non-nil (toroidal edge crossing).
	DrawOrganism(pos [2]float32, size float32, fill, outline Color, wrapped *[2]float32)
	// DrawAnnotations overlays the current tick and the temperature range
	// visible in the viewport.
	DrawAnnotations(tick uint64, upperTemp, lowerTemp float32)
	// Display presents the completed frame.
	Display()
	// PollInput processes window/input events for this frame.
	PollInput() InputState
	// VisibleLatitudeRows returns the world-space row (y coordinate) at
	// the top and bottom edge of the current view, so the driver can look
	// up the temperature range spanning what's on screen.
	VisibleLatitudeRows() (top, bottom uint32)
}

// InputState is the subset of input the driver's render loop reacts to:
// closing the window ends the run; the framerate toggle is read by the
// benchmark/run-mode dispatch.
type InputState struct {
	Closed             bool
	ToggleFramerateCap bool
}

// ParseHexColor parses a "#rrggbb" or "#rrggbbaa" string (the '#' is
// optional) into a Color. Input of the wrong length yields opaque black,
// and a byte pair that is not valid hex reads as 0, so a bad config
// value never crashes the render loop.
func ParseHexColor(s string) Color {
	if len(s) > 0 && s[0] == '#' {
		s = s[1:]
	}
	if len(s) != 6 && len(s) != 8 {
		return Color{A: 255}
	}
	hexByte := func(h string) uint8 {
		v, err := strconv.ParseUint(h, 16, 8)
		if err != nil {
			return 0
		}
		return uint8(v)
	}
	c := Color{R: hexByte(s[0:2]), G: hexByte(s[2:4]), B: hexByte(s[4:6]), A: 255}
	if len(s) == 8 {
		c.A = hexByte(s[6:8])
	}
	return c
}
