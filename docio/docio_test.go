package docio

import (
	"bytes"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/signadot/tony-format/go-bind/ir"
)

func keys(n *ir.Node) []string {
	var res []string
	for k := range n.FieldSeq() {
		res = append(res, k)
	}
	return res
}

func TestReadKeepsOrder(t *testing.T) {
	tests := []struct {
		name string
		p    Producer
		src  string
	}{
		{"json", JSON(), `{"zeta": 1, "alpha": {"b": 2}, "mid": [1, 2]}`},
		{"yaml", YAML(), "zeta: 1\nalpha:\n  b: 2\nmid:\n- 1\n- 2\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := tt.p.Read(strings.NewReader(tt.src))
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff([]string{"zeta", "alpha", "mid"}, keys(n)); diff != "" {
				t.Errorf("keys (-want +got):\n%s", diff)
			}
			if got := *n.Get("zeta").Int64; got != 1 {
				t.Errorf("zeta %d", got)
			}
			if n.Get("mid").Len() != 2 {
				t.Errorf("mid len %d", n.Get("mid").Len())
			}
		})
	}
}

func TestYAMLWriteReadsBack(t *testing.T) {
	src := "b: x\na:\n- true\n- null\n- 1.5\n"
	n, err := YAML().Read(strings.NewReader(src))
	if err != nil {
		t.Fatal(err)
	}
	buf := bytes.NewBuffer(nil)
	if err := YAML().Write(buf, n); err != nil {
		t.Fatal(err)
	}
	back, err := YAML().Read(buf)
	if err != nil {
		t.Fatal(err)
	}
	if !ir.Equal(n, back) {
		t.Errorf("documents differ after write/read:\n%s", buf.String())
	}
}

func TestJSONReadErrors(t *testing.T) {
	for _, src := range []string{`{"a":`, `{} {}`, `[1,]`} {
		_, err := JSON().Read(strings.NewReader(src))
		if !errors.Is(err, ErrRead) {
			t.Errorf("%q: expected ErrRead, got %v", src, err)
		}
	}
}

func TestDecodeLeafError(t *testing.T) {
	n, err := JSON().Read(strings.NewReader(`{"a":{"b":"x"}}`))
	if err != nil {
		t.Fatal(err)
	}
	_, err = JSON().DecodeLeaf(n.Get("a").Get("b"), reflect.TypeFor[int]())
	var rerr *ReadError
	if !errors.As(err, &rerr) {
		t.Fatalf("expected *ReadError, got %v", err)
	}
	if rerr.Path != "a.b" {
		t.Errorf("path %q", rerr.Path)
	}
	if !errors.Is(err, ErrRead) {
		t.Errorf("expected errors.Is ErrRead")
	}
}

func TestToNode(t *testing.T) {
	type pt struct {
		X int `tony:"field=x"`
	}
	n, err := JSON().ToNode(pt{X: 3})
	if err != nil {
		t.Fatal(err)
	}
	if *n.Get("x").Int64 != 3 {
		t.Errorf("x")
	}
	if !JSON().CanMapToPrimitive("s") || JSON().CanMapToPrimitive(pt{}) {
		t.Errorf("CanMapToPrimitive")
	}
}

func TestPatches(t *testing.T) {
	doc, err := JSON().Read(strings.NewReader(`{"a":1,"b":{"c":2}}`))
	if err != nil {
		t.Fatal(err)
	}
	patched, err := ApplyPatch(doc, []byte(`[{"op":"replace","path":"/b/c","value":3},{"op":"add","path":"/d","value":"x"}]`))
	if err != nil {
		t.Fatal(err)
	}
	if *patched.Get("b").Get("c").Int64 != 3 || patched.Get("d").String != "x" {
		t.Errorf("patch not applied")
	}
	if *doc.Get("b").Get("c").Int64 != 2 {
		t.Errorf("source document modified")
	}
	merged, err := MergePatch(doc, []byte(`{"a":null,"e":true}`))
	if err != nil {
		t.Fatal(err)
	}
	if merged.Get("a") != nil || !merged.Get("e").Bool {
		t.Errorf("merge patch not applied")
	}
}

func TestByName(t *testing.T) {
	for _, name := range []string{"json", "yaml"} {
		p, err := ByName(name)
		if err != nil || p.Name() != name {
			t.Errorf("%s: %v %v", name, p, err)
		}
	}
	if _, err := ByName("toml"); err == nil {
		t.Errorf("expected error")
	}
}
