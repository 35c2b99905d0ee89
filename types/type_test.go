package types

import "testing"

func TestSignaturePrimitives(t *testing.T) {
	cases := []struct {
		typ  *Type
		want string
	}{
		{MakeBool(), "<bool>"},
		{MakeInt(), "<int>"},
		{MakeFloat(), "<float>"},
		{MakeString(), "<string>"},
		{MakeJson(), "<json>"},
	}
	for _, c := range cases {
		if got := c.typ.Signature(); got != c.want {
			t.Errorf("Signature() = %q, want %q", got, c.want)
		}
	}
}

func TestSignatureCompound(t *testing.T) {
	vec := MakeVector(MakeFloat())
	if got, want := vec.Signature(), "<vector>[<float>]"; got != want {
		t.Errorf("vector signature = %q, want %q", got, want)
	}

	st := MakeStruct([]Member{
		{Name: "x", Type: MakeInt()},
		{Name: "y", Type: MakeString()},
	})
	if got, want := st.Signature(), "<struct>{<int>x,<string>y}"; got != want {
		t.Errorf("struct signature = %q, want %q", got, want)
	}

	fn := MakeFunction(MakeFloat(), []*Type{MakeString(), MakeFloat()})
	if got, want := fn.Signature(), "<float>(<string>,<float>)"; got != want {
		t.Errorf("function signature = %q, want %q", got, want)
	}
}

func TestStructMemberOrderSignificant(t *testing.T) {
	a := MakeStruct([]Member{{Name: "x", Type: MakeInt()}, {Name: "y", Type: MakeInt()}})
	b := MakeStruct([]Member{{Name: "y", Type: MakeInt()}, {Name: "x", Type: MakeInt()}})
	if a.Equal(b) {
		t.Fatal("structs with swapped member order must not be equal")
	}
}

func TestEqualStructural(t *testing.T) {
	a := MakeVector(MakeStruct([]Member{{Name: "r", Type: MakeInt()}}))
	b := MakeVector(MakeStruct([]Member{{Name: "r", Type: MakeInt()}}))
	if !a.Equal(b) {
		t.Fatal("structurally identical descriptors must be equal")
	}
	if a != b {
		t.Fatal("interning should produce a single shared pointer per signature")
	}
}

func TestMemberIndex(t *testing.T) {
	st := MakeStruct([]Member{{Name: "r", Type: MakeInt()}, {Name: "g", Type: MakeInt()}})
	if st.MemberIndex("g") != 1 {
		t.Fatalf("MemberIndex(g) = %d, want 1", st.MemberIndex("g"))
	}
	if st.MemberIndex("missing") != -1 {
		t.Fatal("MemberIndex should return -1 for unknown member")
	}
}

func TestFromSignatureRoundTrip(t *testing.T) {
	orig := MakeStruct([]Member{
		{Name: "r", Type: MakeInt()},
		{Name: "tag", Type: MakeVector(MakeString())},
	})
	sig := orig.Signature()
	parsed, ok := FromSignature(sig)
	if !ok {
		t.Fatalf("FromSignature(%q) failed", sig)
	}
	if !parsed.Equal(orig) {
		t.Fatalf("round trip mismatch: %q vs %q", parsed.Signature(), sig)
	}
}

func TestFromSignatureFunctionRoundTrip(t *testing.T) {
	cases := []*Type{
		MakeFunction(MakeInt(), nil),
		MakeFunction(MakeVoid(), []*Type{MakeDynamic()}),
		MakeFunction(MakeFloat(), []*Type{MakeString(), MakeFloat()}),
		MakeFunction(MakeFunction(MakeInt(), []*Type{MakeInt()}), []*Type{MakeString()}),
	}
	for _, orig := range cases {
		sig := orig.Signature()
		parsed, ok := FromSignature(sig)
		if !ok {
			t.Fatalf("FromSignature(%q) failed", sig)
		}
		if parsed.Kind() != Function {
			t.Fatalf("FromSignature(%q) = kind %v, want Function", sig, parsed.Kind())
		}
		if !parsed.Equal(orig) {
			t.Fatalf("round trip mismatch: %q vs %q", parsed.Signature(), sig)
		}
	}
}

func TestFromSignatureRejectsTrailingGarbage(t *testing.T) {
	if _, ok := FromSignature("<int>()garbage"); ok {
		t.Fatal("FromSignature should reject an unconsumed tail")
	}
}

func TestFromSignatureRejectsUnknownToken(t *testing.T) {
	if _, ok := FromSignature("<bogus>"); ok {
		t.Fatal("FromSignature should reject an unrecognized leading token")
	}
	if _, ok := FromSignature("<int>(<bogus>)"); ok {
		t.Fatal("FromSignature should reject an unrecognized parameter token")
	}
}
