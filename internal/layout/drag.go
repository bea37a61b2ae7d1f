package layout

import "math"

// DragThreshold is the pointer travel, in screen pixels, past which a
// pointer-down stops being a click and becomes a drag.
const DragThreshold = 5.0

// DragPhase enumerates the states of the drag controller.
type DragPhase int

const (
	DragIdle     DragPhase = iota // no gesture in progress
	DragPending                   // pointer down, movement under threshold
	DragDragging                  // table follows the pointer
)

// Drag translates pointer gestures into table moves. Pointer coordinates
// arrive in screen pixels; table coordinates live in canvas units, so every
// pointer delta is divided by the active zoom factor. A Drag tracks at most
// one gesture at a time.
type Drag struct {
	phase  DragPhase
	table  int     // display number of the grabbed table
	zoom   float64 // zoom factor captured at pointer-down
	startX float64 // pointer-down position, screen px
	startY float64
	grabX  float64 // pointer offset from the table position, screen px
	grabY  float64
	origX  float64 // table position at pointer-down, for cancel snap-back
	origY  float64
}

// Phase returns the current controller state.
func (d *Drag) Phase() DragPhase { return d.phase }

// TableNumber returns the table grabbed by the active gesture, or 0.
func (d *Drag) TableNumber() int {
	if d.phase == DragIdle {
		return 0
	}
	return d.table
}

// Down starts a gesture on the given table. Nothing moves yet; the
// controller waits for the threshold so micro-moves still count as clicks.
func (d *Drag) Down(t *Table, px, py, zoom float64) {
	if zoom <= 0 {
		zoom = 1
	}
	d.phase = DragPending
	d.table = t.Number
	d.zoom = zoom
	d.startX, d.startY = px, py
	d.grabX = px - t.X*zoom
	d.grabY = py - t.Y*zoom
	d.origX, d.origY = t.X, t.Y
}

// Move feeds a pointer position into the gesture. Once travel from the
// start exceeds DragThreshold the controller enters dragging and returns
// the new canvas position on every call; the caller clamps it via
// Table.SetPosition. Before the threshold (and outside a gesture) moved is
// false.
func (d *Drag) Move(px, py float64) (x, y float64, moved bool) {
	switch d.phase {
	case DragPending:
		if math.Hypot(px-d.startX, py-d.startY) < DragThreshold {
			return 0, 0, false
		}
		d.phase = DragDragging
	case DragDragging:
	default:
		return 0, 0, false
	}
	return (px - d.grabX) / d.zoom, (py - d.grabY) / d.zoom, true
}

// Up ends the gesture. A pending gesture resolves as a click (selection);
// a dragging gesture commits the move and should trigger a debounced
// persist. Either way the controller returns to idle.
func (d *Drag) Up() (table int, clicked, dragged bool) {
	table = d.table
	switch d.phase {
	case DragPending:
		clicked = true
	case DragDragging:
		dragged = true
	default:
		table = 0
	}
	d.reset()
	return table, clicked, dragged
}

// Cancel aborts the gesture, reporting where the table should snap back
// to. snap is false when there was nothing to undo.
func (d *Drag) Cancel() (table int, x, y float64, snap bool) {
	table = d.table
	snap = d.phase == DragDragging
	x, y = d.origX, d.origY
	if d.phase == DragIdle {
		table = 0
	}
	d.reset()
	return table, x, y, snap
}

func (d *Drag) reset() {
	*d = Drag{}
}
