//go:build rp2040 || rp2350

package fmtx

import (
	"io"

	"beacon-go/x/conv"
)

// --- Public API (signatures match fmt) ---

func Sprintf(format string, a ...any) string {
	var b builder
	b.format(format, a...)
	return string(b.buf)
}

func Fprintf(w io.Writer, format string, a ...any) (int, error) {
	var b builder
	b.format(format, a...)
	return w.Write(b.buf)
}

func Errorf(format string, a ...any) error {
	return &stringError{Sprintf(format, a...)}
}

// --- Internals: tiny formatter subset ---
// Supports: %s %d %x %v %t %% and a minimum width for %d/%s.
// No flags; keep MCU cost low.

type stringError struct{ s string }

func (e *stringError) Error() string { return e.s }

type builder struct {
	buf []byte
	tmp [24]byte
}

func (b *builder) str(s string) { b.buf = append(b.buf, s...) }

func (b *builder) pad(n int) {
	for ; n > 0; n-- {
		b.buf = append(b.buf, ' ')
	}
}

func (b *builder) format(format string, args ...any) {
	ai := 0
	for i := 0; i < len(format); {
		c := format[i]
		if c != '%' {
			b.buf = append(b.buf, c)
			i++
			continue
		}
		i++
		if i < len(format) && format[i] == '%' {
			b.buf = append(b.buf, '%')
			i++
			continue
		}
		width := 0
		for i < len(format) && '0' <= format[i] && format[i] <= '9' {
			width = width*10 + int(format[i]-'0')
			i++
		}
		if i >= len(format) || ai >= len(args) {
			return
		}
		verb := format[i]
		arg := args[ai]
		ai++
		i++

		var s []byte
		switch verb {
		case 'd', 'v':
			s = b.number(arg, 10)
		case 'x':
			s = b.number(arg, 16)
		case 's':
			switch v := arg.(type) {
			case string:
				s = []byte(v)
			case error:
				s = []byte(v.Error())
			default:
				s = b.number(arg, 10)
			}
		case 't':
			if v, _ := arg.(bool); v {
				s = []byte("true")
			} else {
				s = []byte("false")
			}
		default:
			// Unknown verb: write it literally to aid debugging.
			b.buf = append(b.buf, '%', verb)
			continue
		}
		b.pad(width - len(s))
		b.buf = append(b.buf, s...)
	}
}

func (b *builder) number(v any, base int) []byte {
	var u uint64
	switch t := v.(type) {
	case string:
		return []byte(t)
	case bool:
		if t {
			return []byte("true")
		}
		return []byte("false")
	case int:
		return b.signed(int64(t), base)
	case int8:
		return b.signed(int64(t), base)
	case int16:
		return b.signed(int64(t), base)
	case int32:
		return b.signed(int64(t), base)
	case int64:
		return b.signed(t, base)
	case uint:
		u = uint64(t)
	case uint8:
		u = uint64(t)
	case uint16:
		u = uint64(t)
	case uint32:
		u = uint64(t)
	case uint64:
		u = t
	default:
		return []byte("<unk>")
	}
	if base == 16 {
		return conv.Xtoa(b.tmp[:], u)
	}
	return conv.Utoa(b.tmp[:], u)
}

func (b *builder) signed(n int64, base int) []byte {
	if base == 16 {
		return conv.Xtoa(b.tmp[:], uint64(n))
	}
	return conv.Itoa(b.tmp[:], n)
}
