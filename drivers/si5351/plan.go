package si5351

import "beacon-go/x/mathx"

// params is a divider a + b/c plus the output R divider exponent.
type params struct {
	a, b, c uint32
	rdiv    uint8
}

// ratio expresses num/den as a + b/c with c fixed at the chip's maximum
// denominator, rounding b to nearest.
func ratio(num, den uint64) params {
	a := num / den
	b := mathx.RoundDiv(num%den*denominator, den)
	if b == denominator {
		a, b = a+1, 0
	}
	return params{a: uint32(a), b: uint32(b), c: denominator}
}

// planPLL returns the feedback divider locking PLLA to vcoHz.
func planPLL(refHz uint32) params {
	return ratio(vcoHz, uint64(mathx.Max(refHz, 1)))
}

// planOutput returns the multisynth divider for hz, doubling the target
// into the multisynth range and recording the doubling as R.
func planOutput(hz uint32) params {
	f := uint64(hz)
	var r uint8
	for f < msMinHz && r < maxRDiv {
		f <<= 1
		r++
	}
	p := ratio(vcoHz, f)
	p.a = mathx.Clamp(p.a, 8, 2048)
	p.rdiv = r
	return p
}

// encode packs p into the 8-byte P1/P2/P3 register layout of AN619.
func (p params) encode(out []byte) {
	f := 128 * p.b / p.c
	p1 := 128*p.a + f - 512
	p2 := 128*p.b - p.c*f
	p3 := p.c

	out[0] = byte(p3 >> 8)
	out[1] = byte(p3)
	out[2] = p.rdiv<<4 | byte(p1>>16)&0x03
	out[3] = byte(p1 >> 8)
	out[4] = byte(p1)
	out[5] = byte(p3>>12)&0xF0 | byte(p2>>16)&0x0F
	out[6] = byte(p2 >> 8)
	out[7] = byte(p2)
}

// Hz returns the output frequency p produces from vcoHz, rounded down.
func (p params) Hz() uint32 {
	num := uint64(vcoHz) * uint64(p.c)
	den := (uint64(p.a)*uint64(p.c) + uint64(p.b)) << p.rdiv
	return uint32(num / den)
}
