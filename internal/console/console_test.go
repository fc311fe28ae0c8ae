package console

import (
	"errors"
	"io"
	"strings"
	"testing"
)

func TestReaderLines(t *testing.T) {
	r := NewReader(strings.NewReader("42\r\nhello\n\nlast"))

	want := []string{"42", "hello", "", "last"}
	for i, w := range want {
		got, err := r.ReadLine()
		if err != nil {
			t.Fatalf("line %d: %v", i, err)
		}
		if got != w {
			t.Errorf("line %d: got %q, want %q", i, got, w)
		}
	}

	if _, err := r.ReadLine(); !errors.Is(err, io.EOF) {
		t.Errorf("Expected io.EOF after last line, got %v", err)
	}
}

func TestReaderEmpty(t *testing.T) {
	r := NewReader(strings.NewReader(""))
	if _, err := r.ReadLine(); !errors.Is(err, io.EOF) {
		t.Errorf("Expected io.EOF on empty input, got %v", err)
	}
}
