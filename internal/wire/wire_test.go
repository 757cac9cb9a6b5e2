package wire

import "testing"

func TestU32RoundTrip(t *testing.T) {
	b := make([]byte, 4)
	PutU32(b, 0xdeadbeef)
	if got := U32(b); got != 0xdeadbeef {
		t.Fatalf("U32() = %#x, want 0xdeadbeef", got)
	}
}

func TestAppendU16U64(t *testing.T) {
	b := AppendU16(nil, 0x1234)
	b = AppendU64(b, 0x0102030405060708)
	if len(b) != 2+8 {
		t.Fatalf("len(b) = %d, want 10", len(b))
	}
	if got := U16(b[:2]); got != 0x1234 {
		t.Fatalf("U16() = %#x, want 0x1234", got)
	}
	if got := U64(b[2:]); got != 0x0102030405060708 {
		t.Fatalf("U64() = %#x, want 0x0102030405060708", got)
	}
}

func TestNeedReportsTooShort(t *testing.T) {
	err := Need([]byte{1, 2}, 3, "test field")
	if err == nil {
		t.Fatal("expected error for short buffer")
	}
	if kind, ok := KindOf(err); !ok || kind != TooShort {
		t.Fatalf("KindOf() = %v, %v, want TooShort, true", kind, ok)
	}
}

func TestNeedAcceptsExactLength(t *testing.T) {
	if err := Need([]byte{1, 2, 3}, 3, "test field"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidUTF8(t *testing.T) {
	if err := ValidUTF8([]byte("hello"), "name"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := ValidUTF8([]byte{0xff, 0xfe}, "name"); err == nil {
		t.Fatal("expected error for invalid utf-8")
	}
}

func TestPadTo4(t *testing.T) {
	cases := map[int]int{0: 0, 1: 3, 2: 2, 3: 1, 4: 0, 5: 3}
	for n, want := range cases {
		if got := PadTo4(n); got != want {
			t.Errorf("PadTo4(%d) = %d, want %d", n, got, want)
		}
	}
}

func TestMethodSetChecksumIsOrderIndependent(t *testing.T) {
	a := MethodSetChecksum([]string{"take_damage", "die"})
	b := MethodSetChecksum([]string{"die", "take_damage"})
	if a != b {
		t.Fatalf("checksum depends on input order: %q != %q", a, b)
	}
	if len(a) != 32 {
		t.Fatalf("len(checksum) = %d, want 32", len(a))
	}
}

func TestErrorFormatting(t *testing.T) {
	err := NewError(BadTag, "tag %d", 7)
	if err.Error() == "" {
		t.Fatal("expected non-empty error message")
	}
	kind, ok := KindOf(err)
	if !ok || kind != BadTag {
		t.Fatalf("KindOf() = %v, %v, want BadTag, true", kind, ok)
	}
}
