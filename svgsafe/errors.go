package svgsafe

import "errors"

// Sentinel errors for svgsafe package.
var (
	// ErrEmpty is returned when the markup contains no tokens at all.
	ErrEmpty = errors.New("svgsafe: empty markup")

	// ErrNoRoot is returned when the markup has no root element.
	ErrNoRoot = errors.New("svgsafe: no root element")

	// ErrRootNotGraphic is returned when the root element is not <svg>.
	ErrRootNotGraphic = errors.New("svgsafe: root element is not svg")

	// ErrMultipleRoots is returned when content follows the root element.
	ErrMultipleRoots = errors.New("svgsafe: content after root element")
)

// RejectedError describes one construct removed while sanitizing.
// It is informational: sanitizing succeeds even when constructs are removed.
type RejectedError struct {
	Element string
	Attr    string
	Reason  string
}

func (e *RejectedError) Error() string {
	if e.Attr != "" {
		return "svgsafe: removed attribute " + e.Attr + " on <" + e.Element + ">: " + e.Reason
	}
	return "svgsafe: removed element <" + e.Element + ">: " + e.Reason
}
