package main

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWrapText(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		width int
		want  []string
	}{
		{"fits", "hello", 10, []string{"hello"}},
		{"breaks at spaces", "one two three", 7, []string{"one two", "three"}},
		{"keeps newlines", "a\nb", 5, []string{"a", "b"}},
		{"splits long words", "abcdefghij", 4, []string{"abcd", "efgh", "ij"}},
		{"empty", "", 4, []string{""}},
		{"no room", "abc", 0, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, wrapText(tt.text, tt.width))
		})
	}
}

func TestCleanClipboardText(t *testing.T) {
	require.Equal(t, "a\nb\nc d", cleanClipboardText("a\r\nb\rc\td\x07"))
}

func TestAbsAndSign(t *testing.T) {
	require.Equal(t, 3, abs(-3))
	require.Equal(t, 3, abs(3))
	require.Equal(t, -1, sign(-9))
	require.Equal(t, 0, sign(0))
	require.Equal(t, 1, sign(4))
}
