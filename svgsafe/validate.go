package svgsafe

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Validate reports whether markup is well-formed XML whose single root
// element is <svg>. It returns nil for valid markup.
func Validate(markup string) error {
	if strings.TrimSpace(markup) == "" {
		return ErrEmpty
	}

	dec := xml.NewDecoder(strings.NewReader(markup))
	dec.Strict = true

	depth := 0
	seenRoot := false
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("svgsafe: malformed markup: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if depth == 0 {
				if seenRoot {
					return ErrMultipleRoots
				}
				if t.Name.Local != "svg" {
					return ErrRootNotGraphic
				}
				seenRoot = true
			}
			depth++
		case xml.EndElement:
			depth--
		case xml.CharData:
			if depth == 0 && len(strings.TrimSpace(string(t))) > 0 {
				if seenRoot {
					return ErrMultipleRoots
				}
				return ErrNoRoot
			}
		}
	}

	if !seenRoot {
		return ErrNoRoot
	}
	return nil
}
