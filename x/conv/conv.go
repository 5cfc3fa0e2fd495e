// Package conv formats integers into caller-supplied buffers.
// No allocations; no fmt/strconv dependency.
package conv

const digits = "0123456789abcdef"

// Utoa writes base-10 representation of n into buf and returns the used slice.
// buf should be length >= 20 for uint64.
func Utoa(buf []byte, n uint64) []byte {
	return format(buf, n, 10)
}

// Itoa writes base-10 representation of n into buf and returns the used slice.
// buf should be length >= 20 for int64. Negative numbers supported.
func Itoa(buf []byte, n int64) []byte {
	if n >= 0 {
		return format(buf, uint64(n), 10)
	}
	if len(buf) < 2 {
		return buf[:0]
	}
	out := format(buf[1:], uint64(-n), 10)
	i := len(buf) - len(out) - 1
	buf[i] = '-'
	return buf[i:]
}

// Xtoa writes lower-case hex without 0x and without padding.
func Xtoa(buf []byte, n uint64) []byte {
	return format(buf, n, 16)
}

func format(buf []byte, n uint64, base uint64) []byte {
	if len(buf) == 0 {
		return buf[:0]
	}
	i := len(buf)
	if n == 0 {
		i--
		buf[i] = '0'
		return buf[i:]
	}
	// Write digits backwards.
	for n > 0 && i > 0 {
		i--
		buf[i] = digits[n%base]
		n /= base
	}
	return buf[i:]
}
