package docio

import (
	"encoding/json"
	"errors"
	"io"

	"github.com/signadot/tony-format/go-bind/ir"
)

type jsonProducer struct {
	values
}

var jsonP = &jsonProducer{values: values{format: "json"}}

// JSON returns the JSON producer.
func JSON() Producer { return jsonP }

func (p *jsonProducer) Read(r io.Reader) (*ir.Node, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	node, err := ir.DecodeJSON(dec)
	if err != nil {
		return nil, &ReadError{Format: p.format, Err: err}
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, &ReadError{Format: p.format, Err: errors.New("trailing data after document")}
	}
	return node, nil
}

func (p *jsonProducer) Write(w io.Writer, node *ir.Node) error {
	return ir.WriteJSON(w, node)
}
