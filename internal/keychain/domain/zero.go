package domain

// Zero overwrites a byte slice with zeros in place, clearing sensitive data
// from memory once a caller is done with it.
func Zero(b []byte) {
	if b == nil {
		return
	}
	for i := range b {
		b[i] = 0
	}
}
