package models

import "strings"

// Join2 packs the two halves of a paired labor field as "left/right".
// A missing half collapses to the other one.
func Join2(left, right string) string {
	left = strings.TrimSpace(left)
	right = strings.TrimSpace(right)
	switch {
	case left != "" && right != "":
		return left + "/" + right
	case left != "":
		return left
	default:
		return right
	}
}

// Split2 is the inverse of Join2. Only the first "/" separates.
func Split2(s string) (string, string) {
	left, right, ok := strings.Cut(s, "/")
	if !ok {
		return strings.TrimSpace(s), ""
	}
	return strings.TrimSpace(left), strings.TrimSpace(right)
}
