package main

import (
	"encoding/json"
	"os"
	"strconv"
	"strings"

	"github.com/getlantern/errors"
)

/*
readVectors loads a word-vector table stored as a JSON array of equal-length
float arrays. Row 0 is the padding row.
*/
func readVectors(filename string) ([][]float64, error) {
	buf, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	var vectors [][]float64
	if err := json.Unmarshal(buf, &vectors); err != nil {
		return nil, errors.New("decode vectors %v: %v", filename, err)
	}
	return vectors, nil
}

/*
parseTokens turns "1,2,3" into token ids.
*/
func parseTokens(s string) ([]int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	ids := make([]int, len(parts))
	for i, p := range parts {
		id, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, errors.New("token %d (%q) is not an integer", i, p)
		}
		ids[i] = id
	}
	return ids, nil
}
