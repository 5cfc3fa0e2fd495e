package usbctl

import (
	"testing"

	"beacon-go/errcode"
)

func TestSetupPacketLayout(t *testing.T) {
	s := SetupPacket{RequestType: RequestTypeVendorIn, Request: 1, Value: 0x1ACC, Index: 8, Length: 4}
	var buf [SetupPacketSize]byte
	if n := s.MarshalTo(buf[:]); n != SetupPacketSize {
		t.Fatalf("MarshalTo = %d", n)
	}
	want := [SetupPacketSize]byte{0xC0, 0x01, 0xCC, 0x1A, 0x08, 0x00, 0x04, 0x00}
	if buf != want {
		t.Fatalf("bytes = % X, want % X", buf, want)
	}

	var got SetupPacket
	if err := ParseSetupPacket(buf[:], &got); err != nil {
		t.Fatal(err)
	}
	if got != s {
		t.Fatalf("parsed %+v, want %+v", got, s)
	}
	if !got.IsDeviceToHost() || !got.IsVendor() {
		t.Fatalf("direction/type bits lost: %s", got.String())
	}
}

func TestParseSetupPacketShort(t *testing.T) {
	var s SetupPacket
	if err := ParseSetupPacket(make([]byte, 7), &s); err != errcode.ShortPacket {
		t.Fatalf("err = %v", err)
	}
	if n := s.MarshalTo(make([]byte, 4)); n != 0 {
		t.Fatalf("MarshalTo into short buffer = %d", n)
	}
}
