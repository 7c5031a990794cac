package thread

// niceBands maps the 7 priority bands onto nice levels, lowest band
// (idle work) first. Lower nice means more CPU share.
var niceBands = [7]int{19, 10, 5, 0, -5, -10, -20}

// band partitions the abstract 1..255 priority scale into the 7 native
// bands. The priority/36 - 1 thresholds are load-bearing: external
// callers tune their priorities against these exact boundaries. The
// result is clamped so priorities below 36 land in the lowest band.
func band(priority uint8) int {
	idx := int(priority)/36 - 1
	if idx < 0 {
		idx = 0
	}
	if idx > len(niceBands)-1 {
		idx = len(niceBands) - 1
	}
	return idx
}
