// Package history owns the customization options of a session and their
// undo/redo log.
//
// The Manager is a small state machine:
//
//	Idle ──BeginDrag/UpdateDrag──▶ Dragging ──EndDrag/CancelDrag──▶ Idle
//	Idle ──Undo/Redo/Goto──▶ Restoring ──▶ Idle
//
// A discrete edit appends one entry. A drag gesture appends exactly one
// entry when it ends, however many frames it had. While Restoring, edits
// triggered by change notifications are ignored, so a restore never
// records itself.
//
// A Manager is not safe for concurrent use; it is driven from a single
// event loop.
package history

import (
	"log/slog"
	"strconv"

	"github.com/gogpu/graffiti/style"
)

// State is the state of a Manager.
type State uint8

const (
	StateIdle State = iota
	StateDragging
	StateRestoring
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateDragging:
		return "dragging"
	case StateRestoring:
		return "restoring"
	default:
		return "State(" + strconv.Itoa(int(s)) + ")"
	}
}

// Entry is one recorded state.
type Entry struct {
	Text    string
	Options style.Options
}

// Event is delivered to subscribers whenever the current state changes.
type Event struct {
	Text    string
	Options style.Options

	// Transient marks a drag frame: render it, but it is not recorded.
	Transient bool

	Index, Len int
}

// Option configures a Manager.
type Option func(*Manager)

// WithLimit bounds the log to n entries. Older entries are dropped first.
// n <= 0 means unlimited.
func WithLimit(n int) Option {
	return func(m *Manager) {
		m.limit = max(n, 0)
	}
}

// WithLogger sets the logger used for state transitions and rejected
// edits. nil keeps logging disabled.
func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.log = l
		}
	}
}

// Manager is the customization history state machine.
type Manager struct {
	entries []Entry
	index   int
	state   State

	text    string
	current style.Options
	working style.Options

	limit int
	log   *slog.Logger

	subs   []subscriber
	nextID int
}

type subscriber struct {
	id int
	fn func(Event)
}

// NewManager returns a manager whose log holds one entry for the initial
// text and options.
func NewManager(text string, opts style.Options, options ...Option) *Manager {
	m := &Manager{
		text:    text,
		current: opts.Clamp(),
		log:     slog.New(slog.DiscardHandler),
	}
	for _, o := range options {
		o(m)
	}
	m.entries = []Entry{m.entry()}
	return m
}

// Apply dispatches a tagged update.
func (m *Manager) Apply(u Update) error {
	switch u := u.(type) {
	case DiscreteUpdate:
		return m.CommitDiscrete(u.Patch)
	case DraggingUpdate:
		return m.UpdateDrag(u.Patch)
	case CommitDrag:
		m.EndDrag()
	}
	return nil
}

// CommitDiscrete merges p into the current options and records the result.
// A drag in progress is committed first. Invalid colors in p are skipped
// and returned as an error; the rest of the patch still applies. A patch
// that changes nothing because every field was rejected is not recorded.
func (m *Manager) CommitDiscrete(p style.Patch) error {
	if m.ignored("commit") {
		return nil
	}
	m.finishDrag("discrete edit")

	next, err := p.Apply(m.current)
	if err != nil {
		m.log.Warn("history: rejected values in edit", "err", err)
		if next == m.current {
			return err
		}
	}
	next.PresetID = ""
	m.current = next
	m.record()
	return err
}

// SelectPreset applies a preset as one discrete edit and remembers its id.
func (m *Manager) SelectPreset(p style.Preset) error {
	if m.ignored("preset") {
		return nil
	}
	m.finishDrag("preset")

	next, err := p.Apply(m.current)
	if err != nil {
		m.log.Warn("history: rejected values in preset", "preset", p.ID, "err", err)
	}
	m.current = next
	m.record()
	return err
}

// SetText records a text change. Setting the current text is a no-op.
func (m *Manager) SetText(text string) {
	if m.ignored("text") {
		return
	}
	m.finishDrag("text edit")
	if text == m.text {
		return
	}
	m.text = text
	m.record()
}

// BeginDrag starts a continuous edit from the current options.
// It is a no-op while a drag is already in progress.
func (m *Manager) BeginDrag() {
	if m.ignored("begin drag") || m.state == StateDragging {
		return
	}
	m.working = snapshot(m.current)
	m.working.PresetID = ""
	m.setState(StateDragging)
}

// UpdateDrag applies one drag frame to the working copy and notifies
// subscribers with a transient event. A drag is started implicitly if
// none is in progress.
func (m *Manager) UpdateDrag(p style.Patch) error {
	if m.ignored("drag update") {
		return nil
	}
	if m.state != StateDragging {
		m.BeginDrag()
	}
	next, err := p.Apply(m.working)
	if err != nil {
		m.log.Warn("history: rejected values in drag", "err", err)
	}
	m.working = next
	m.notify(Event{
		Text:      m.text,
		Options:   snapshot(m.working),
		Transient: true,
		Index:     m.index,
		Len:       len(m.entries),
	})
	return err
}

// EndDrag commits the working copy as exactly one entry. It is a no-op
// when no drag is in progress.
func (m *Manager) EndDrag() {
	m.finishDrag("end")
}

// CancelDrag handles an interrupted gesture, such as the pointer leaving
// the control. The last working copy is committed like EndDrag so the
// manager never stays in Dragging.
func (m *Manager) CancelDrag() {
	m.finishDrag("interrupted")
}

func (m *Manager) finishDrag(reason string) {
	if m.state != StateDragging {
		return
	}
	m.log.Debug("history: drag committed", "reason", reason)
	m.current = m.working
	m.setState(StateIdle)
	m.record()
}

// Undo moves one entry back. It reports whether the state changed.
//
// A drag in progress is committed first, so Undo lands on the entry the
// drag started from.
func (m *Manager) Undo() bool {
	if m.ignored("restore") {
		return false
	}
	m.finishDrag("restore")
	return m.Goto(m.index - 1)
}

// Redo moves one entry forward. It reports whether the state changed.
//
// A drag in progress is committed first. The commit discards the redo
// tail, so Redo during a drag restores nothing and returns false.
func (m *Manager) Redo() bool {
	if m.ignored("restore") {
		return false
	}
	m.finishDrag("restore")
	return m.Goto(m.index + 1)
}

// Goto restores entry i. Out-of-range targets and the current index are
// no-ops. A drag in progress is committed first and i is interpreted
// against the entries after that commit.
func (m *Manager) Goto(i int) bool {
	if m.ignored("restore") {
		return false
	}
	m.finishDrag("restore")
	if i < 0 || i >= len(m.entries) || i == m.index {
		return false
	}

	m.setState(StateRestoring)
	defer m.setState(StateIdle)

	e := m.entries[i]
	m.text = e.Text
	m.current = snapshot(e.Options)
	m.index = i
	m.notify(m.event())
	return true
}

// Options returns a snapshot of the options to render: the working copy
// during a drag, the committed options otherwise.
func (m *Manager) Options() style.Options {
	if m.state == StateDragging {
		return snapshot(m.working)
	}
	return snapshot(m.current)
}

// Text returns the current input text.
func (m *Manager) Text() string { return m.text }

// Len returns the number of entries.
func (m *Manager) Len() int { return len(m.entries) }

// Index returns the current entry index.
func (m *Manager) Index() int { return m.index }

// State returns the current state.
func (m *Manager) State() State { return m.state }

// CanUndo reports whether Undo would change the state.
func (m *Manager) CanUndo() bool { return m.index > 0 }

// CanRedo reports whether Redo would change the state.
func (m *Manager) CanRedo() bool { return m.index < len(m.entries)-1 }

// Entries returns a copy of the log.
func (m *Manager) Entries() []Entry {
	out := make([]Entry, len(m.entries))
	for i, e := range m.entries {
		out[i] = Entry{Text: e.Text, Options: snapshot(e.Options)}
	}
	return out
}

// Subscribe registers fn for change events and returns a function that
// removes it.
func (m *Manager) Subscribe(fn func(Event)) (unsubscribe func()) {
	m.nextID++
	id := m.nextID
	m.subs = append(m.subs, subscriber{id: id, fn: fn})
	return func() {
		for i, s := range m.subs {
			if s.id == id {
				m.subs = append(m.subs[:i:i], m.subs[i+1:]...)
				return
			}
		}
	}
}

// record truncates the redo tail, appends the current state and notifies.
func (m *Manager) record() {
	m.entries = append(m.entries[:m.index+1], m.entry())
	if m.limit > 0 && len(m.entries) > m.limit {
		drop := len(m.entries) - m.limit
		m.entries = append([]Entry(nil), m.entries[drop:]...)
	}
	m.index = len(m.entries) - 1
	m.log.Debug("history: recorded", "index", m.index, "len", len(m.entries))
	m.notify(m.event())
}

func (m *Manager) entry() Entry {
	return Entry{Text: m.text, Options: snapshot(m.current)}
}

func (m *Manager) event() Event {
	return Event{
		Text:    m.text,
		Options: snapshot(m.current),
		Index:   m.index,
		Len:     len(m.entries),
	}
}

func (m *Manager) notify(ev Event) {
	for _, s := range append([]subscriber(nil), m.subs...) {
		s.fn(ev)
	}
}

// ignored reports whether an edit must be dropped because a restore is in
// flight.
func (m *Manager) ignored(op string) bool {
	if m.state != StateRestoring {
		return false
	}
	m.log.Debug("history: ignored during restore", "op", op)
	return true
}

func (m *Manager) setState(s State) {
	if m.state == s {
		return
	}
	m.log.Debug("history: state", "from", m.state, "to", s)
	m.state = s
}

// snapshot returns a copy of o. Options holds no references, so entries
// never alias the current options.
func snapshot(o style.Options) style.Options {
	return o
}
