package docio

import (
	"bytes"
	"fmt"

	jsonpatch "github.com/evanphx/json-patch"
	"github.com/signadot/tony-format/go-bind/ir"
)

// ApplyPatch applies an RFC 6902 JSON patch to doc and returns the patched
// tree.  doc is not modified.
func ApplyPatch(doc *ir.Node, patch []byte) (*ir.Node, error) {
	ops, err := jsonpatch.DecodePatch(patch)
	if err != nil {
		return nil, fmt.Errorf("decode patch: %w", err)
	}
	d, err := doc.MarshalJSON()
	if err != nil {
		return nil, err
	}
	out, err := ops.Apply(d)
	if err != nil {
		return nil, fmt.Errorf("apply patch: %w", err)
	}
	return JSON().Read(bytes.NewReader(out))
}

// MergePatch applies an RFC 7386 merge patch to doc and returns the merged
// tree.  doc is not modified.
func MergePatch(doc *ir.Node, patch []byte) (*ir.Node, error) {
	d, err := doc.MarshalJSON()
	if err != nil {
		return nil, err
	}
	out, err := jsonpatch.MergePatch(d, patch)
	if err != nil {
		return nil, fmt.Errorf("merge patch: %w", err)
	}
	return JSON().Read(bytes.NewReader(out))
}
