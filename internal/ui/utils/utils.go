package utils

import twmerge "github.com/Oudwins/tailwind-merge-go"

// TwMerge combines Tailwind classes, later classes winning over conflicting earlier ones
func TwMerge(classes ...string) string {
	return twmerge.Merge(classes...)
}

// If returns value when condition holds, the zero value otherwise
func If[T any](condition bool, value T) T {
	var empty T
	if condition {
		return value
	}
	return empty
}
