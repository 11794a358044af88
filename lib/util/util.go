// Package util contains helper functions used around the code.
package util

// In reports whether v is one of vs.
func In[T comparable](vs []T, v T) bool {
	for i := range vs {
		if vs[i] == v {
			return true
		}
	}

	return false
}
