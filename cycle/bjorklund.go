package cycle

// euclid computes the Bjorklund/Euclidean pulse mask for k pulses
// distributed over n steps: slope = k/n, step i is a pulse iff
// floor(i·slope) ≠ floor((i−1)·slope) (§4.6). The result is rotated
// left by r mod n if r is non-zero.
func euclid(k, n, r int) []bool {
	if n <= 0 {
		return nil
	}
	if k < 0 {
		k = 0
	}
	if k > n {
		k = n
	}
	slope := float64(k) / float64(n)
	mask := make([]bool, n)
	prev := floorInt(-1 * slope)
	for i := 0; i < n; i++ {
		cur := floorInt(float64(i) * slope)
		mask[i] = cur != prev
		prev = cur
	}
	if r == 0 {
		return mask
	}
	r = ((r % n) + n) % n
	rotated := make([]bool, n)
	for i := 0; i < n; i++ {
		rotated[i] = mask[(i+r)%n]
	}
	return rotated
}

func floorInt(v float64) int {
	i := int(v)
	if v < 0 && float64(i) != v {
		i--
	}
	return i
}
