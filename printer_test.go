package miniscript

import "testing"

func Test_FormatValue_QuotesStrings(t *testing.T) {
	if got := FormatValue(Str("hi\n")); got != `"hi\n"` {
		t.Fatalf("got %q", got)
	}
}

func Test_FormatValue_Lists(t *testing.T) {
	v := List(Num(1), Str("a"), List(NilVal(), Bool(true)))
	want := `[1, "a", [nil, true]]`
	if got := FormatValue(v); got != want {
		t.Fatalf("want %s, got %s", want, got)
	}
}

func Test_FormatValue_Scalars(t *testing.T) {
	cases := map[string]Value{
		"nil":  NilVal(),
		"true": Bool(true),
		"2.5":  Num(2.5),
		"7":    Num(7),
	}
	for want, v := range cases {
		if got := FormatValue(v); got != want {
			t.Fatalf("want %s, got %s", want, got)
		}
	}
}
