package tui

import (
	"fmt"

	"github.com/vovakirdan/snek/internal/config"
	"github.com/vovakirdan/snek/internal/core"
	"github.com/vovakirdan/snek/internal/game"
)

// hudRows is the HUD line plus its separator.
const hudRows = 2

// Camera is the window of grid cells visible in the terminal.
type Camera struct {
	Origin core.Vec // Top-left visible cell
	Cols   int
	Rows   int
}

// followCamera centers the view on focus, a cell coordinate, without
// scrolling past the grid edges.
func followCamera(focus core.Vec, gridCols, gridRows, viewCols, viewRows int) Camera {
	cols := core.Min(gridCols, viewCols)
	rows := core.Min(gridRows, viewRows)
	return Camera{
		Origin: core.V(
			core.Clamp(focus.X-cols/2, 0, gridCols-cols),
			core.Clamp(focus.Y-rows/2, 0, gridRows-rows),
		),
		Cols: cols,
		Rows: rows,
	}
}

// project maps a cell to screen coordinates inside the playfield border.
func (c Camera) project(cell core.Vec) (x, y int, ok bool) {
	x = cell.X - c.Origin.X
	y = cell.Y - c.Origin.Y
	if x < 0 || y < 0 || x >= c.Cols || y >= c.Rows {
		return 0, 0, false
	}
	return x + 1, y + hudRows + 1, true
}

// cellOf converts a pixel-unit position into a cell coordinate.
func cellOf(v core.Vec, square int) core.Vec {
	return core.V(floorDiv(v.X, square), floorDiv(v.Y, square))
}

func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

// DrawSnapshot renders s into dst: HUD, bordered playfield and any overlay.
func DrawSnapshot(dst *core.Screen, s game.Snapshot, grid config.GridConfig) {
	dst.Clear()

	dst.DrawText(1, 0, s.HUD(), core.ColorWhite)
	for x := range dst.Width() {
		dst.SetCell(x, 1, '─', core.ColorGray)
	}

	viewCols := dst.Width() - 2
	viewRows := dst.Height() - hudRows - 2
	if viewCols < 8 || viewRows < 4 {
		drawOverlay(dst, "Window too small", "Resize to continue")
		return
	}

	sq := grid.SquareSize
	focus := core.V(grid.Columns()/2, grid.Rows()/2)
	if head, ok := s.Head(); ok {
		focus = cellOf(head.Pos, sq)
	}
	cam := followCamera(focus, grid.Columns(), grid.Rows(), viewCols, viewRows)

	dst.DrawBox(core.NewRect(0, hudRows, cam.Cols+2, cam.Rows+2), core.ColorGray)

	put := func(pos core.Vec, r rune, c core.Color) {
		if x, y, ok := cam.project(cellOf(pos, sq)); ok {
			dst.SetCell(x, y, r, c)
		}
	}

	for _, f := range s.Foods {
		put(f.Pos, '●', core.ColorRed)
	}
	for _, h := range s.Hazards {
		if h.Detonated {
			put(h.Pos, '✹', core.ColorYellow)
		} else {
			put(h.Pos, '✕', core.ColorMagenta)
		}
	}
	for _, seg := range s.Segments {
		if seg.Head {
			put(seg.Pos, '@', core.ColorBrightGreen)
		} else {
			put(seg.Pos, 'o', core.ColorGreen)
		}
	}

	switch s.Status {
	case game.StatusPaused:
		drawOverlay(dst, "Paused", "Press esc to continue")
	case game.StatusTerminated:
		title, score := "Game Over", s.Score
		if s.Termination != nil {
			title = s.Termination.Cause.Title()
			score = s.Termination.FinalScore
		}
		drawOverlay(dst, title, fmt.Sprintf("Your score is: %d", score), "Try again? (y/n)")
	}
}

// drawOverlay draws a centered dialog with a title and message lines.
func drawOverlay(dst *core.Screen, title string, lines ...string) {
	width := len([]rune(title))
	for _, l := range lines {
		width = core.Max(width, len([]rune(l)))
	}
	boxW := width + 6
	boxH := len(lines) + 4
	box := core.NewRect((dst.Width()-boxW)/2, (dst.Height()-boxH)/2, boxW, boxH)

	dst.DrawBox(box, core.ColorWhite)
	dst.DrawTextCentered(box.Y+1, title, core.ColorYellow)
	for i, l := range lines {
		dst.DrawTextCentered(box.Y+2+i, l, core.ColorWhite)
	}
}
