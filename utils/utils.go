package utils

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/twmb/murmur3"
)

func HashString(s string) uint64 {
	return HashBytes([]byte(s))
}

func HashBytes(bytes ...[]byte) uint64 {
	hash := murmur3.New64()
	for _, b := range bytes {
		_, err := hash.Write(b)
		if err != nil {
			panic(err)
		}
	}
	return hash.Sum64()
}

// ReadMap reads key|value lines. Empty lines are skipped.
func ReadMap(filePath string) (map[string]string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return ParseMap(file, filePath)
}

// ParseMap reads key|value lines from r, name is used in errors.
func ParseMap(r io.Reader, name string) (map[string]string, error) {
	scanner := bufio.NewScanner(r)

	result := make(map[string]string)
	line := 0
	for scanner.Scan() {
		line++
		text := scanner.Text()
		if len(strings.TrimSpace(text)) == 0 {
			continue
		}
		p := strings.SplitN(text, "|", 2)
		if len(p) != 2 {
			return nil, fmt.Errorf("%s:%d: expected key|value, got %q", name, line, text)
		}
		result[p[0]] = p[1]
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return result, nil
}
