// Package utils provides utility functions for the application.
package utils

func ToPtr[T any](v T) *T {
	return &v
}

func IsTrue(b *bool) bool {
	return b != nil && *b
}

// MaskPhone renders a phone number for user-facing messages, e.g. +911234****90.
func MaskPhone(phone string) string {
	if len(phone) < 8 {
		return phone
	}
	return phone[:len(phone)-6] + "****" + phone[len(phone)-2:]
}
