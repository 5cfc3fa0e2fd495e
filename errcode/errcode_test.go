package errcode

import (
	"errors"
	"testing"
)

func TestCodesAreStableStrings(t *testing.T) {
	cases := map[string]Code{
		"ok":               OK,
		"unknown_register": UnknownRegister,
		"out_of_range":     OutOfRange,
		"unsupported":      Unsupported,
		"short_packet":     ShortPacket,
		"driver_fault":     DriverFault,
		"invalid_config":   InvalidConfig,
		"timeout":          Timeout,
		"error":            Error,
	}
	for want, c := range cases {
		if c.Error() != want {
			t.Fatalf("code %q mismatch: got %q", want, c.Error())
		}
	}
}

func TestOf(t *testing.T) {
	cause := errors.New("nack")
	wrapped := Wrap(DriverFault, "si5351.SetFrequency", cause)

	for _, c := range []struct {
		err  error
		want Code
	}{
		{nil, OK},
		{OutOfRange, OutOfRange},
		{wrapped, DriverFault},
		{cause, Error},
	} {
		if got := Of(c.err); got != c.want {
			t.Fatalf("Of(%v) = %q, want %q", c.err, got, c.want)
		}
	}
	if !errors.Is(wrapped, cause) {
		t.Fatal("wrapped error does not unwrap to its cause")
	}
	if got, want := wrapped.Error(), "si5351.SetFrequency: driver_fault: nack"; got != want {
		t.Fatalf("Error() = %q, want %q", got, want)
	}
}
