package ir

import (
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func testDoc() *Node {
	return FromKeyVals([]KeyVal{
		{Key: FromString("name"), Val: FromString("n1")},
		{Key: FromString("tags"), Val: FromSlice([]*Node{FromString("a"), FromString("b")})},
		{Key: FromString("inner"), Val: FromKeyVals([]KeyVal{
			{Key: FromString("z"), Val: FromInt(1)},
			{Key: FromString("a"), Val: FromInt(2)},
		})},
	})
}

func TestKindsAreExclusive(t *testing.T) {
	for _, n := range []*Node{testDoc(), FromSlice(nil), FromString("x"), Null(), FromInt(3)} {
		count := 0
		for _, b := range []bool{n.IsContainer(), n.IsCollection(), n.IsLeaf()} {
			if b {
				count++
			}
		}
		if count != 1 {
			t.Errorf("%s: %d kinds", n.Type, count)
		}
	}
}

func TestGetAndAt(t *testing.T) {
	doc := testDoc()
	if got := doc.Get("name"); got == nil || got.String != "n1" {
		t.Fatalf("Get(name) = %v", got)
	}
	if doc.Get("missing") != nil {
		t.Error("Get(missing) should be nil")
	}
	if doc.Get("name").Get("x") != nil {
		t.Error("Get on a leaf should be nil")
	}
	tags := doc.Get("tags")
	if got := tags.At(1); got == nil || got.String != "b" {
		t.Fatalf("At(1) = %v", got)
	}
	if tags.At(2) != nil || tags.At(-1) != nil {
		t.Error("out of range At should be nil")
	}
	if doc.At(0) != nil {
		t.Error("At on a container should be nil")
	}
}

func TestSetReplacesInPlace(t *testing.T) {
	doc := testDoc()
	if err := doc.Set("name", FromString("n2")); err != nil {
		t.Fatal(err)
	}
	if err := doc.Set("extra", FromBool(true)); err != nil {
		t.Fatal(err)
	}
	var keys []string
	for k := range doc.FieldSeq() {
		keys = append(keys, k)
	}
	if diff := cmp.Diff([]string{"name", "tags", "inner", "extra"}, keys); diff != "" {
		t.Errorf("field order (-want +got):\n%s", diff)
	}
	if doc.Get("name").String != "n2" {
		t.Errorf("name = %q", doc.Get("name").String)
	}
	if doc.Get("extra").Parent != doc {
		t.Error("parent link not maintained")
	}
	if err := doc.Get("name").Set("x", Null()); err == nil {
		t.Error("expected error setting a field on a leaf")
	}
}

func TestSetAtPads(t *testing.T) {
	arr := FromSlice([]*Node{FromInt(0)})
	if err := arr.SetAt(2, FromInt(2)); err != nil {
		t.Fatal(err)
	}
	if arr.Len() != 3 || !arr.At(1).IsNull() || *arr.At(2).Int64 != 2 {
		t.Errorf("unexpected array after SetAt: len=%d", arr.Len())
	}
	if err := FromKeyVals(nil).SetAt(0, Null()); err == nil {
		t.Error("expected error on container")
	}
}

func TestChildrenRestartable(t *testing.T) {
	tags := testDoc().Get("tags")
	seq := tags.Children()
	collect := func() []string {
		var res []string
		for c := range seq {
			res = append(res, c.String)
		}
		return res
	}
	first, second := collect(), collect()
	if !slices.Equal(first, second) || len(first) != 2 {
		t.Errorf("first %v second %v", first, second)
	}
}

func TestParsePath(t *testing.T) {
	tests := []struct {
		in   string
		want []Step
		err  bool
	}{
		{in: "", want: nil},
		{in: "a", want: []Step{FieldStep("a")}},
		{in: "a.b.c", want: []Step{FieldStep("a"), FieldStep("b"), FieldStep("c")}},
		{in: "a[0].b", want: []Step{FieldStep("a"), IndexStep(0), FieldStep("b")}},
		{in: "[2]", want: []Step{IndexStep(2)}},
		{in: "a.'b.c'", want: []Step{FieldStep("a"), FieldStep("b.c")}},
		{in: `"x y".z`, want: []Step{FieldStep("x y"), FieldStep("z")}},
		{in: "a..b", err: true},
		{in: "a.", err: true},
		{in: "a[x]", err: true},
		{in: "a[1", err: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParsePath(tt.in)
			if tt.err {
				if err == nil {
					t.Fatalf("expected error, got %v", got)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("(-want +got):\n%s", diff)
			}
		})
	}
}

func TestWalkAndKPath(t *testing.T) {
	doc := testDoc()
	n, err := doc.GetPath("inner.a")
	if err != nil {
		t.Fatal(err)
	}
	if n == nil || *n.Int64 != 2 {
		t.Fatalf("GetPath(inner.a) = %v", n)
	}
	if got := n.KPath(); got != "inner.a" {
		t.Errorf("KPath() = %q", got)
	}
	if got := doc.Get("tags").At(1).KPath(); got != "tags[1]" {
		t.Errorf("KPath() = %q", got)
	}
	if doc.Walk([]Step{FieldStep("inner"), FieldStep("nope"), FieldStep("x")}) != nil {
		t.Error("walk through a missing step should be nil")
	}
}

func TestHashFollowsEqual(t *testing.T) {
	a, b := testDoc(), testDoc()
	if !Equal(a, b) {
		t.Fatal("expected equal docs")
	}
	if a.Hash() != b.Hash() {
		t.Error("equal nodes hash differently")
	}
	_ = b.Set("name", FromString("other"))
	if Equal(a, b) {
		t.Error("expected docs to differ")
	}
}

func TestFromScalar(t *testing.T) {
	for _, v := range []any{"s", 1, int64(2), uint8(3), 1.5, true, nil} {
		if _, ok := FromScalar(v); !ok {
			t.Errorf("FromScalar(%T) not a scalar", v)
		}
	}
	if _, ok := FromScalar(struct{}{}); ok {
		t.Error("struct should not be a scalar")
	}
}

func TestJSONKeepsOrder(t *testing.T) {
	var n Node
	src := `{"z":1,"a":[true,null,"s"],"m":{"x":1.5,"big":12345678901234}}`
	if err := n.UnmarshalJSON([]byte(src)); err != nil {
		t.Fatal(err)
	}
	if n.Get("a").Parent != &n {
		t.Errorf("parent links not rebased")
	}
	if got := *n.Get("m").Get("big").Int64; got != 12345678901234 {
		t.Errorf("big int %d", got)
	}
	d, err := n.MarshalJSON()
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(src, string(d)); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}
