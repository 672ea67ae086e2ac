// Package blend provides straight-alpha compositing of packed ARGB8888 pixels.
package blend

// SourceOver blends a straight-alpha ARGB source over a straight-alpha ARGB
// destination:
//
//	Sa  = Sa * coverage/255
//	Da' = Da * (1 - Sa)
//	Ra  = Sa + Da'
//	Rc  = (Sc*Sa + Dc*Da') / Ra
//
// Channels are truncated. When the combined alpha is zero the destination is
// returned unchanged, since the channel division has no defined result.
func SourceOver(src, dst uint32, coverage uint8) uint32 {
	sa, sr, sg, sb := unpack(src)
	da, dr, dg, db := unpack(dst)

	srcA := sa / 255 * (float64(coverage) / 255)
	dstA := da / 255 * (1 - srcA)
	outA := srcA + dstA
	if outA <= 0 {
		return dst
	}

	a := uint32(outA * 255)
	r := uint32((sr*srcA + dr*dstA) / outA)
	g := uint32((sg*srcA + dg*dstA) / outA)
	b := uint32((sb*srcA + db*dstA) / outA)

	return clamp(a)<<24 | clamp(r)<<16 | clamp(g)<<8 | clamp(b)
}

func unpack(c uint32) (a, r, g, b float64) {
	return float64(c >> 24 & 0xFF), float64(c >> 16 & 0xFF), float64(c >> 8 & 0xFF), float64(c & 0xFF)
}

func clamp(v uint32) uint32 {
	if v > 255 {
		return 255
	}
	return v
}
