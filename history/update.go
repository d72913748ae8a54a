package history

import "github.com/gogpu/graffiti/style"

// Update is an edit message accepted by Manager.Apply.
// It is one of DiscreteUpdate, DraggingUpdate or CommitDrag.
type Update interface {
	isUpdate()
}

// DiscreteUpdate is a single user action such as a toggle flip or a color
// swatch click. It produces exactly one history entry.
type DiscreteUpdate struct {
	Patch style.Patch
}

// DraggingUpdate is one frame of a continuous edit. It is applied to the
// working copy and never recorded on its own.
type DraggingUpdate struct {
	Patch style.Patch
}

// CommitDrag ends the current gesture and records its final state.
type CommitDrag struct{}

func (DiscreteUpdate) isUpdate() {}
func (DraggingUpdate) isUpdate() {}
func (CommitDrag) isUpdate()     {}
