package quantize

// ComputeDimensions scales srcW x srcH to fit maxW x maxH while keeping the
// aspect ratio. The longer source side is pinned to its maximum (width wins a
// tie) and the other side is scaled with truncating division. If that would
// overflow the other maximum, the other side is pinned instead. Neither side
// is padded back up to a board multiple. Both results are at least 1 for
// positive inputs; any non-positive input yields (0, 0).
func ComputeDimensions(srcW, srcH, maxW, maxH int) (w, h int) {
	if srcW <= 0 || srcH <= 0 || maxW <= 0 || maxH <= 0 {
		return 0, 0
	}

	if srcW >= srcH {
		w = maxW
		h = maxW * srcH / srcW
		if h > maxH {
			h = maxH
			w = maxH * srcW / srcH
		}
	} else {
		h = maxH
		w = maxH * srcW / srcH
		if w > maxW {
			w = maxW
			h = maxW * srcH / srcW
		}
	}
	return max(w, 1), max(h, 1)
}
