package layout

import "testing"

func TestClickWithoutThresholdSelects(t *testing.T) {
	tb := &Table{Number: 7, X: 400, Y: 300, Seats: newSeats(4)}
	var d Drag
	d.Down(tb, 410, 310, 1)

	// jitter under the threshold must not move anything
	if _, _, moved := d.Move(412, 311); moved {
		t.Fatal("moved before threshold")
	}
	if d.Phase() != DragPending {
		t.Fatalf("phase = %v", d.Phase())
	}

	table, clicked, dragged := d.Up()
	if table != 7 || !clicked || dragged {
		t.Fatalf("Up() = (%d,%v,%v)", table, clicked, dragged)
	}
	if d.Phase() != DragIdle {
		t.Fatalf("phase after up = %v", d.Phase())
	}
	if tb.X != 400 || tb.Y != 300 {
		t.Fatalf("table moved to (%v,%v)", tb.X, tb.Y)
	}
}

func TestDragFollowsPointerWithGrabOffset(t *testing.T) {
	tb := &Table{Number: 2, X: 100, Y: 100, Seats: newSeats(4)}
	var d Drag
	// grab 10px right and 5px below the table position
	d.Down(tb, 110, 105, 1)

	x, y, moved := d.Move(160, 125)
	if !moved {
		t.Fatal("threshold crossing not detected")
	}
	if x != 150 || y != 120 {
		t.Fatalf("got (%v,%v), want (150,120)", x, y)
	}
	tb.SetPosition(x, y)

	table, clicked, dragged := d.Up()
	if table != 2 || clicked || !dragged {
		t.Fatalf("Up() = (%d,%v,%v)", table, clicked, dragged)
	}
}

func TestDragDividesByZoom(t *testing.T) {
	tb := &Table{Number: 3, X: 100, Y: 100, Seats: newSeats(4)}
	var d Drag
	d.Down(tb, 200, 200, 2) // table drawn at screen (200,200) under zoom 2

	x, y, moved := d.Move(260, 240)
	if !moved {
		t.Fatal("expected drag")
	}
	if x != 130 || y != 120 {
		t.Fatalf("got (%v,%v), want (130,120)", x, y)
	}
}

func TestDragClampsThroughSetPosition(t *testing.T) {
	tb := &Table{Number: 4, X: 10, Y: 10, Seats: newSeats(4)}
	var d Drag
	d.Down(tb, 10, 10, 1)
	x, y, moved := d.Move(-500, -500)
	if !moved {
		t.Fatal("expected drag")
	}
	tb.SetPosition(x, y)
	if tb.X != 0 || tb.Y != 0 {
		t.Fatalf("clamped to (%v,%v)", tb.X, tb.Y)
	}
}

func TestCancelSnapsBack(t *testing.T) {
	tb := &Table{Number: 5, X: 300, Y: 300, Seats: newSeats(4)}
	var d Drag
	d.Down(tb, 300, 300, 1)
	if x, y, moved := d.Move(500, 500); moved {
		tb.SetPosition(x, y)
	}
	table, x, y, snap := d.Cancel()
	if table != 5 || !snap {
		t.Fatalf("Cancel() = (%d,snap=%v)", table, snap)
	}
	tb.SetPosition(x, y)
	if tb.X != 300 || tb.Y != 300 {
		t.Fatalf("snap-back landed at (%v,%v)", tb.X, tb.Y)
	}

	// cancel with no gesture is a no-op
	if table, _, _, snap := d.Cancel(); table != 0 || snap {
		t.Fatalf("idle Cancel() = (%d,%v)", table, snap)
	}
}

func TestMoveWithoutGestureIsIgnored(t *testing.T) {
	var d Drag
	if _, _, moved := d.Move(50, 50); moved {
		t.Fatal("idle controller accepted a move")
	}
	if _, clicked, dragged := d.Up(); clicked || dragged {
		t.Fatal("idle controller resolved a gesture")
	}
}
