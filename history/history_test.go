package history

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/gogpu/graffiti/style"
)

func newTestManager(opts ...Option) *Manager {
	return NewManager("WILD", style.Default(), opts...)
}

func TestNewManager(t *testing.T) {
	m := newTestManager()
	if m.Len() != 1 || m.Index() != 0 {
		t.Errorf("Len/Index = %d/%d, want 1/0", m.Len(), m.Index())
	}
	if m.State() != StateIdle {
		t.Errorf("State() = %v, want idle", m.State())
	}
	if m.CanUndo() || m.CanRedo() {
		t.Error("fresh manager can undo or redo")
	}
}

func TestCommitDiscrete(t *testing.T) {
	m := newTestManager()
	if err := m.CommitDiscrete(style.Patch{ShadowEnabled: style.Ptr(true)}); err != nil {
		t.Fatalf("CommitDiscrete() error = %v", err)
	}
	if m.Len() != 2 || m.Index() != 1 {
		t.Errorf("Len/Index = %d/%d, want 2/1", m.Len(), m.Index())
	}
	if !m.Options().ShadowEnabled {
		t.Error("ShadowEnabled not applied")
	}
}

func TestCommitDiscreteClampsAndClearsPreset(t *testing.T) {
	m := newTestManager()
	if err := m.SelectPreset(style.DefaultPresets()[0]); err != nil {
		t.Fatal(err)
	}
	if m.Options().PresetID == "" {
		t.Fatal("SelectPreset did not record the preset id")
	}
	if err := m.CommitDiscrete(style.Patch{StampWidth: style.Ptr(9999.0)}); err != nil {
		t.Fatal(err)
	}
	got := m.Options()
	if got.StampWidth != style.StampWidthRange.Max {
		t.Errorf("StampWidth = %v, want clamped %v", got.StampWidth, style.StampWidthRange.Max)
	}
	if got.PresetID != "" {
		t.Errorf("PresetID = %q after a manual edit, want empty", got.PresetID)
	}
}

func TestCommitDiscreteBadColor(t *testing.T) {
	m := newTestManager()
	err := m.CommitDiscrete(style.Patch{FillColor: style.Ptr("nope")})
	if !errors.Is(err, style.ErrBadColor) {
		t.Fatalf("CommitDiscrete() error = %v, want ErrBadColor", err)
	}
	if m.Len() != 1 {
		t.Errorf("Len() = %d, want 1: a fully rejected edit is not recorded", m.Len())
	}

	err = m.CommitDiscrete(style.Patch{FillColor: style.Ptr("nope"), StampWidth: style.Ptr(3.0)})
	if !errors.Is(err, style.ErrBadColor) {
		t.Fatalf("CommitDiscrete() error = %v, want ErrBadColor", err)
	}
	if m.Len() != 2 || m.Options().StampWidth != 3 {
		t.Errorf("Len/StampWidth = %d/%v, want 2/3", m.Len(), m.Options().StampWidth)
	}
}

func TestDragProducesExactlyOneEntry(t *testing.T) {
	for _, n := range []int{0, 1, 50} {
		t.Run(fmt.Sprintf("N=%d", n), func(t *testing.T) {
			m := newTestManager()
			before := m.Len()

			m.BeginDrag()
			for i := 0; i < n; i++ {
				if err := m.UpdateDrag(style.Patch{StampWidth: style.Ptr(float64(i))}); err != nil {
					t.Fatal(err)
				}
				if m.Len() != before {
					t.Fatalf("frame %d recorded an entry", i)
				}
			}
			m.EndDrag()

			if got := m.Len() - before; got != 1 {
				t.Errorf("drag of %d frames added %d entries, want 1", n, got)
			}
			if m.State() != StateIdle {
				t.Errorf("State() = %v, want idle", m.State())
			}
			if n > 0 {
				if got, want := m.Options().StampWidth, float64(n-1); got != want {
					t.Errorf("StampWidth = %v, want last frame %v", got, want)
				}
			}
		})
	}
}

func TestDragTransientEvents(t *testing.T) {
	m := newTestManager()
	var events []Event
	m.Subscribe(func(e Event) { events = append(events, e) })

	for i := 1; i <= 3; i++ {
		m.UpdateDrag(style.Patch{ShieldWidth: style.Ptr(float64(i * 10))})
	}
	if m.State() != StateDragging {
		t.Fatalf("State() = %v, want dragging after implicit begin", m.State())
	}
	if got := m.Options().ShieldWidth; got != 30 {
		t.Errorf("Options().ShieldWidth during drag = %v, want 30", got)
	}
	m.Apply(CommitDrag{})

	if len(events) != 4 {
		t.Fatalf("got %d events, want 4", len(events))
	}
	for i, e := range events[:3] {
		if !e.Transient {
			t.Errorf("event %d not transient", i)
		}
		if e.Options.ShieldWidth != float64((i+1)*10) {
			t.Errorf("event %d ShieldWidth = %v", i, e.Options.ShieldWidth)
		}
	}
	if last := events[3]; last.Transient || last.Len != 2 || last.Options.ShieldWidth != 30 {
		t.Errorf("commit event = %+v, want recorded entry 2 with width 30", last)
	}
}

func TestCancelDragCommits(t *testing.T) {
	m := newTestManager()
	m.UpdateDrag(style.Patch{ShadowOffsetX: style.Ptr(-40.0)})
	m.CancelDrag()
	if m.State() != StateIdle || m.Len() != 2 {
		t.Errorf("State/Len = %v/%d, want idle/2", m.State(), m.Len())
	}
	if m.Options().ShadowOffsetX != -40 {
		t.Errorf("ShadowOffsetX = %v, want -40", m.Options().ShadowOffsetX)
	}
}

func TestEndDragWithoutDragIsNoop(t *testing.T) {
	m := newTestManager()
	m.EndDrag()
	m.CancelDrag()
	if m.Len() != 1 {
		t.Errorf("Len() = %d, want 1", m.Len())
	}
}

func TestDiscreteEditDuringDrag(t *testing.T) {
	m := newTestManager()
	m.BeginDrag()
	m.UpdateDrag(style.Patch{StampWidth: style.Ptr(50.0)})
	m.CommitDiscrete(style.Patch{ShineEnabled: style.Ptr(true)})

	if m.Len() != 3 {
		t.Fatalf("Len() = %d, want 3 (drag + discrete)", m.Len())
	}
	got := m.Options()
	if got.StampWidth != 50 || !got.ShineEnabled {
		t.Errorf("options = %+v, want stamp 50 and shine on", got)
	}
}

func TestUndoRedoBitIdentical(t *testing.T) {
	m := newTestManager()
	m.CommitDiscrete(style.Patch{FillColor: style.Ptr("#00ff00")})
	m.SetText("WALL")
	m.UpdateDrag(style.Patch{ShineOpacity: style.Ptr(0.25)})
	m.EndDrag()

	wantOpts, wantText := m.Options(), m.Text()

	if !m.Undo() {
		t.Fatal("Undo() = false")
	}
	if m.Options().ShineOpacity == 0.25 {
		t.Error("Undo() did not restore the previous options")
	}
	if !m.Redo() {
		t.Fatal("Redo() = false")
	}
	if diff := cmp.Diff(wantOpts, m.Options()); diff != "" {
		t.Errorf("options after undo/redo (-want +got):\n%s", diff)
	}
	if m.Text() != wantText {
		t.Errorf("Text() = %q, want %q", m.Text(), wantText)
	}
}

func TestUndoRestoresText(t *testing.T) {
	m := newTestManager()
	m.SetText("WALL")
	m.SetText("WALL")
	if m.Len() != 2 {
		t.Errorf("Len() = %d, want 2: setting the same text is a no-op", m.Len())
	}
	m.Undo()
	if m.Text() != "WILD" {
		t.Errorf("Text() = %q, want WILD", m.Text())
	}
}

func TestGotoInvalidIsNoop(t *testing.T) {
	m := newTestManager()
	m.CommitDiscrete(style.Patch{StrokeEnabled: style.Ptr(true)})
	before := m.Options()

	for _, i := range []int{-1, 1, 2, 100} {
		if m.Goto(i) {
			t.Errorf("Goto(%d) = true, want false", i)
		}
	}
	if m.Index() != 1 {
		t.Errorf("Index() = %d, want 1", m.Index())
	}
	if diff := cmp.Diff(before, m.Options()); diff != "" {
		t.Errorf("options changed (-want +got):\n%s", diff)
	}
	if m.Redo() {
		t.Error("Redo() at the end = true")
	}
	m.Goto(0)
	if m.Undo() {
		t.Error("Undo() at the start = true")
	}
}

func TestCommitTruncatesRedo(t *testing.T) {
	m := newTestManager()
	for i := 1; i <= 3; i++ {
		m.CommitDiscrete(style.Patch{StampWidth: style.Ptr(float64(i))})
	}
	m.Goto(1)
	m.CommitDiscrete(style.Patch{ShadowEnabled: style.Ptr(true)})

	if m.Len() != 3 || m.Index() != 2 {
		t.Errorf("Len/Index = %d/%d, want 3/2", m.Len(), m.Index())
	}
	if m.CanRedo() {
		t.Error("CanRedo() = true after a new commit")
	}
	if got := m.Options().StampWidth; got != 1 {
		t.Errorf("StampWidth = %v, want 1 from the restored entry", got)
	}
}

func TestRestoreIsNotRecorded(t *testing.T) {
	m := newTestManager()
	m.CommitDiscrete(style.Patch{ShieldEnabled: style.Ptr(true)})

	// A subscriber that echoes every change back as an edit, like a
	// control bound to the options would.
	var states []State
	m.Subscribe(func(e Event) {
		states = append(states, m.State())
		m.CommitDiscrete(style.Patch{ShieldEnabled: style.Ptr(e.Options.ShieldEnabled)})
		m.UpdateDrag(style.Patch{StampWidth: style.Ptr(1.0)})
		m.SetText("ECHO")
		m.Goto(0)
	})

	if !m.Undo() {
		t.Fatal("Undo() = false")
	}
	if m.Len() != 2 || m.Index() != 0 {
		t.Errorf("Len/Index = %d/%d, want 2/0", m.Len(), m.Index())
	}
	if m.State() != StateIdle {
		t.Errorf("State() = %v, want idle", m.State())
	}
	if len(states) != 1 || states[0] != StateRestoring {
		t.Errorf("subscriber saw states %v, want [restoring]", states)
	}
	if m.Text() != "WILD" {
		t.Errorf("Text() = %q, want WILD", m.Text())
	}
}

func TestEntriesAreSnapshots(t *testing.T) {
	m := newTestManager()
	m.CommitDiscrete(style.Patch{FillColor: style.Ptr("#abcdef")})

	entries := m.Entries()
	entries[1].Options.FillColor = "#000000"
	if got := m.Entries()[1].Options.FillColor; got != "#abcdef" {
		t.Errorf("entry aliased: FillColor = %q", got)
	}
}

func TestWithLimit(t *testing.T) {
	m := newTestManager(WithLimit(3))
	for i := 1; i <= 5; i++ {
		m.CommitDiscrete(style.Patch{StampWidth: style.Ptr(float64(i))})
	}
	if m.Len() != 3 || m.Index() != 2 {
		t.Errorf("Len/Index = %d/%d, want 3/2", m.Len(), m.Index())
	}
	m.Goto(0)
	if got := m.Options().StampWidth; got != 3 {
		t.Errorf("oldest kept StampWidth = %v, want 3", got)
	}
}

func TestUndoDuringDragLandsOnPreDragEntry(t *testing.T) {
	m := newTestManager()
	m.CommitDiscrete(style.Patch{ShineEnabled: style.Ptr(true)})

	m.BeginDrag()
	m.UpdateDrag(style.Patch{StampWidth: style.Ptr(99.0)})
	if !m.Undo() {
		t.Fatal("Undo() = false during drag")
	}

	if m.Len() != 3 || m.Index() != 1 {
		t.Errorf("Len/Index = %d/%d, want 3/1", m.Len(), m.Index())
	}
	if o := m.Options(); !o.ShineEnabled || o.StampWidth != style.Default().StampWidth {
		t.Errorf("Options() = shine %v stamp %v, want the pre-drag entry", o.ShineEnabled, o.StampWidth)
	}
	if m.State() != StateIdle {
		t.Errorf("State() = %v, want idle", m.State())
	}
	if !m.Redo() || m.Options().StampWidth != 99 {
		t.Errorf("Redo() did not return to the committed drag")
	}
}

func TestRedoDuringDragDiscardsTail(t *testing.T) {
	m := newTestManager()
	m.CommitDiscrete(style.Patch{ShineEnabled: style.Ptr(true)})
	m.CommitDiscrete(style.Patch{ShadowEnabled: style.Ptr(true)})
	m.Undo()
	m.Undo()

	m.BeginDrag()
	m.UpdateDrag(style.Patch{StampWidth: style.Ptr(99.0)})
	if m.Redo() {
		t.Error("Redo() = true, want false after the drag commit dropped the tail")
	}

	if m.Len() != 2 || m.Index() != 1 {
		t.Errorf("Len/Index = %d/%d, want 2/1", m.Len(), m.Index())
	}
	if o := m.Options(); o.StampWidth != 99 || o.ShineEnabled {
		t.Errorf("Options() = stamp %v shine %v, want the committed drag", o.StampWidth, o.ShineEnabled)
	}
	if m.CanRedo() {
		t.Error("CanRedo() = true after the tail was discarded")
	}
}

func TestGotoDuringDrag(t *testing.T) {
	m := newTestManager()
	m.CommitDiscrete(style.Patch{ShineEnabled: style.Ptr(true)})

	m.BeginDrag()
	m.UpdateDrag(style.Patch{StampWidth: style.Ptr(99.0)})
	if !m.Goto(0) {
		t.Fatal("Goto(0) = false during drag")
	}
	if m.Len() != 3 || m.Index() != 0 {
		t.Errorf("Len/Index = %d/%d, want 3/0", m.Len(), m.Index())
	}
	if diff := cmp.Diff(style.Default(), m.Options()); diff != "" {
		t.Errorf("Options() mismatch (-want +got):\n%s", diff)
	}
	if got := m.Entries()[2].Options.StampWidth; got != 99 {
		t.Errorf("committed drag StampWidth = %v, want 99", got)
	}

	// Going to the drag's own entry only commits it.
	m.BeginDrag()
	m.UpdateDrag(style.Patch{StampWidth: style.Ptr(50.0)})
	if m.Goto(1) {
		t.Error("Goto(current) = true, want false")
	}
	if m.Index() != 1 || m.Options().StampWidth != 50 || m.State() != StateIdle {
		t.Errorf("Index/StampWidth/State = %d/%v/%v, want 1/50/idle",
			m.Index(), m.Options().StampWidth, m.State())
	}
}

func TestWithLimitUndo(t *testing.T) {
	m := newTestManager(WithLimit(3))
	for i := 1; i <= 5; i++ {
		m.CommitDiscrete(style.Patch{StampWidth: style.Ptr(float64(i))})
	}

	// A drag at the limit drops the oldest entry and undo still lands on
	// the entry before the drag.
	m.BeginDrag()
	m.UpdateDrag(style.Patch{StampWidth: style.Ptr(99.0)})
	if !m.Undo() {
		t.Fatal("Undo() = false during drag")
	}
	if m.Len() != 3 || m.Index() != 1 {
		t.Errorf("Len/Index = %d/%d, want 3/1", m.Len(), m.Index())
	}
	if got := m.Options().StampWidth; got != 5 {
		t.Errorf("StampWidth = %v, want 5", got)
	}

	var widths []float64
	for m.Undo() {
		if m.Index() < 0 || m.Index() >= m.Len() {
			t.Fatalf("Index = %d out of range [0,%d)", m.Index(), m.Len())
		}
		widths = append(widths, m.Options().StampWidth)
	}
	if diff := cmp.Diff([]float64{4}, widths); diff != "" {
		t.Errorf("undo walk mismatch (-want +got):\n%s", diff)
	}
	if m.Index() != 0 || m.CanUndo() {
		t.Errorf("Index = %d, CanUndo = %v; want 0, false", m.Index(), m.CanUndo())
	}
}

func TestUnsubscribe(t *testing.T) {
	m := newTestManager()
	calls := 0
	unsubscribe := m.Subscribe(func(Event) { calls++ })
	m.CommitDiscrete(style.Patch{ShineEnabled: style.Ptr(true)})
	unsubscribe()
	m.CommitDiscrete(style.Patch{ShineEnabled: style.Ptr(false)})
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestApplyDispatch(t *testing.T) {
	m := newTestManager()
	updates := []Update{
		DiscreteUpdate{Patch: style.Patch{StrokeEnabled: style.Ptr(true)}},
		DraggingUpdate{Patch: style.Patch{StrokeWidth: style.Ptr(4.0)}},
		DraggingUpdate{Patch: style.Patch{StrokeWidth: style.Ptr(6.0)}},
		CommitDrag{},
	}
	for _, u := range updates {
		if err := m.Apply(u); err != nil {
			t.Fatalf("Apply(%T) error = %v", u, err)
		}
	}
	if m.Len() != 3 {
		t.Errorf("Len() = %d, want 3", m.Len())
	}
	if got := m.Options().StrokeWidth; got != 6 {
		t.Errorf("StrokeWidth = %v, want 6", got)
	}
}

func TestStateString(t *testing.T) {
	tests := []struct {
		s    State
		want string
	}{
		{StateIdle, "idle"},
		{StateDragging, "dragging"},
		{StateRestoring, "restoring"},
		{State(9), "State(9)"},
	}
	for _, tt := range tests {
		if got := tt.s.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}
