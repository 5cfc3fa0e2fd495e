package conv

import "testing"

func TestFormatting(t *testing.T) {
	var buf [24]byte
	for _, c := range []struct {
		got  []byte
		want string
	}{
		{Utoa(buf[:], 0), "0"},
		{Utoa(buf[:], 14097100), "14097100"},
		{Itoa(buf[:], -15), "-15"},
		{Itoa(buf[:], 42), "42"},
		{Xtoa(buf[:], 0xBEEF), "beef"},
	} {
		if string(c.got) != c.want {
			t.Fatalf("got %q, want %q", c.got, c.want)
		}
	}
}

func TestShortBuffer(t *testing.T) {
	var one [1]byte
	if got := Itoa(one[:], -3); len(got) != 0 {
		t.Fatalf("Itoa into 1-byte buffer = %q, want empty", got)
	}
	if got := Utoa(nil, 9); len(got) != 0 {
		t.Fatalf("Utoa into nil = %q, want empty", got)
	}
}
