// Package source loads game transcripts and BTM command files from a
// path or standard input.
package source

import (
	"bufio"
	"io"
	"os"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Stdin is the path that selects standard input.
const Stdin = "-"

// maxLine bounds a single command line.
const maxLine = 1 << 20

// Open opens path, or standard input when path is "" or "-".
func Open(path string) (io.ReadCloser, error) {
	if path == "" || path == Stdin {
		return io.NopCloser(os.Stdin), nil
	}
	return os.Open(path)
}

// Decode wraps r so that a UTF-8 or UTF-16 byte order mark selects the
// encoding and is dropped. Text without a BOM is read as UTF-8.
func Decode(r io.Reader) io.Reader {
	return transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))
}

// ReadText returns the whole decoded content of path.
func ReadText(path string) (string, error) {
	f, err := Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	data, err := io.ReadAll(Decode(f))
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// ReadLines returns the decoded lines of path without line terminators.
func ReadLines(path string) ([]string, error) {
	f, err := Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return SplitLines(Decode(f))
}

// SplitLines reads r line by line, stripping "\n" and "\r\n".
func SplitLines(r io.Reader) ([]string, error) {
	var lines []string
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLine)
	for sc.Scan() {
		lines = append(lines, strings.TrimSuffix(sc.Text(), "\r"))
	}
	return lines, sc.Err()
}
