package domain_test

import (
	"reflect"
	"strings"
	"testing"

	"basecli/internal/modules/cli/domain"
)

func TestArrayifySplitsStringsOnCommas(t *testing.T) {
	t.Parallel()
	got := domain.Arrayify("a,b,,c")
	want := []any{"a", "b", "", "c"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("arrayify: got %#v want %#v", got, want)
	}
	if got := domain.Arrayify(""); !reflect.DeepEqual(got, []any{""}) {
		t.Fatalf("empty string: got %#v", got)
	}
}

func TestArrayifyKeepsSlicesAndWrapsScalars(t *testing.T) {
	t.Parallel()
	in := []any{"x,y", 3}
	if got := domain.Arrayify(in); !reflect.DeepEqual(got, in) {
		t.Fatalf("slice should pass through unchanged, got %#v", got)
	}
	if got := domain.Arrayify([]string{"a", "b"}); !reflect.DeepEqual(got, []any{"a", "b"}) {
		t.Fatalf("string slice: got %#v", got)
	}
	if got := domain.Arrayify(42); !reflect.DeepEqual(got, []any{42}) {
		t.Fatalf("scalar: got %#v", got)
	}
	if got := domain.Arrayify(nil); len(got) != 1 || got[0] != nil {
		t.Fatalf("nil: got %#v", got)
	}
}

func TestArrayifyIsIdempotentOnSlices(t *testing.T) {
	t.Parallel()
	once := domain.Arrayify("a,b")
	twice := domain.Arrayify(once)
	if !reflect.DeepEqual(once, twice) {
		t.Fatalf("expected idempotence, got %#v then %#v", once, twice)
	}
}

func TestAsPairsSortsMapKeys(t *testing.T) {
	t.Parallel()
	pairs, ok := domain.AsPairs(map[string]any{"b": 2, "a": 1, "c": 3})
	if !ok {
		t.Fatalf("expected map to convert")
	}
	if got := pairs.Keys(); !reflect.DeepEqual(got, []string{"a", "b", "c"}) {
		t.Fatalf("unexpected key order: %v", got)
	}
	if _, ok := domain.AsPairs("a=b"); ok {
		t.Fatalf("strings are not objects")
	}
}

func TestPairsGetReturnsLastValue(t *testing.T) {
	t.Parallel()
	p := domain.Pairs{{Key: "a", Value: 1}, {Key: "a", Value: 2}}
	if v, ok := p.Get("a"); !ok || v != 2 {
		t.Fatalf("expected last value 2, got %v %v", v, ok)
	}
	if _, ok := p.Get("missing"); ok {
		t.Fatalf("expected missing key")
	}
}

func TestExpand(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		in   any
		want domain.Pairs
	}{
		{name: "assignment", in: "title=Docs", want: domain.Pairs{{Key: "title", Value: "Docs"}}},
		{name: "value keeps later equals", in: "url=a=b", want: domain.Pairs{{Key: "url", Value: "a=b"}}},
		{name: "bare key", in: "verbose", want: domain.Pairs{{Key: "verbose", Value: true}}},
		{name: "list", in: "a=1,b", want: domain.Pairs{{Key: "a", Value: "1"}, {Key: "b", Value: true}}},
		{name: "blank fragments", in: " , ", want: domain.Pairs{}},
		{name: "object", in: map[string]any{"k": 1}, want: domain.Pairs{{Key: "k", Value: 1}}},
		{name: "scalar", in: 7, want: domain.Pairs{{Key: "7", Value: true}}},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := domain.Expand(tt.in); !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("expand %#v: got %#v want %#v", tt.in, got, tt.want)
			}
		})
	}
}

func TestKeysStringifies(t *testing.T) {
	t.Parallel()
	got := domain.Keys([]any{"a", 1, nil})
	if !reflect.DeepEqual(got, []string{"a", "1", ""}) {
		t.Fatalf("unexpected keys: %#v", got)
	}
}

func TestArrayifyYieldsOneMoreElementThanCommas(t *testing.T) {
	t.Parallel()
	for _, in := range []string{"", ",", "a", "a,b", ",a,,b,", "x=1,y=2,z"} {
		got := domain.Arrayify(in)
		parts := strings.Split(in, ",")
		if len(got) != strings.Count(in, ",")+1 {
			t.Fatalf("%q: got %d elements", in, len(got))
		}
		for i := range parts {
			if got[i] != parts[i] {
				t.Fatalf("%q: element %d is %q, want %q", in, i, got[i], parts[i])
			}
		}
	}
}
