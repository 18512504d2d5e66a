package io

import (
	"bytes"
	"fmt"
	"strconv"
)

// ParseText parses a whitespace-separated text table with '#' comments into
// float columns. Every data line must have the same number of columns, and
// there must be at least minCols of them. Only the columns listed in colIdxs
// are converted.
func ParseText(data []byte, colIdxs []int, minCols int) ([][]float64, error) {
	lines, nComm := split(data, '\n', '#')
	lines = uncomment(lines, '#', nComm)
	lines = trim(lines)
	return parse(lines, colIdxs, minCols)
}

// split splits a byte splice at each separating flag. Faster than
// bytes.Split() because slicing is used instead of allocations and because
// only one separator is used.
//
// Some of the calculations associated with uncommenting are done here for a
// slight performance boost.
func split(data []byte, sep, comm byte) (lines [][]byte, nComm int) {
	n := 0
	for _, c := range data {
		if c == sep {
			n++
		}
		if c == comm {
			nComm++
		}
	}

	tokens := make([][]byte, n+1)

	idx := 0
	for j := 0; j < n; j++ {
		data = data[idx:]
		idx = bytes.IndexByte(data, sep)
		tokens[j] = data[:idx]
		idx++
	}
	tokens[n] = data[idx:]

	return tokens, nComm
}

// uncomment removes file comments in the form of "data # comment". Optimized
// for the common case where comments are rare and at the start of the file.
func uncomment(lines [][]byte, comm byte, nComm int) [][]byte {
	if nComm == 0 {
		return lines
	}

	for i, line := range lines {
		commentStart := bytes.IndexByte(line, comm)
		if commentStart == -1 {
			continue
		}

		lines[i] = line[:commentStart]
		nComm -= 1 + bytes.Count(line[commentStart+1:], []byte{comm})
		if nComm == 0 {
			return lines
		}
	}

	return lines
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\v' || c == '\f'
}

// trim removes blank lines.
func trim(lines [][]byte) [][]byte {
	j := 0

LineLoop:
	for i, line := range lines {
		for _, c := range line {
			if !isSpace(c) {
				lines[j] = lines[i]
				j++
				continue LineLoop
			}
		}
	}

	return lines[:j]
}

func parse(lines [][]byte, colIdxs []int, minCols int) ([][]float64, error) {
	cols := make([][]float64, len(colIdxs))
	for i := range cols {
		cols[i] = make([]float64, len(lines))
	}
	if len(lines) == 0 {
		return cols, nil
	}

	nCols := countFields(lines[0])
	if nCols < minCols {
		return nil, fmt.Errorf("Data (not file) line 1 has %d columns, "+
			"but at least %d are required.", nCols, minCols)
	}
	for _, idx := range colIdxs {
		if idx >= nCols {
			return nil, fmt.Errorf("Column %d was requested, but there "+
				"are only %d columns.", idx, nCols)
		}
	}

	buf := make([][]byte, nCols)
	var err error
	for i, line := range lines {
		if n := countFields(line); n != nCols {
			return nil, fmt.Errorf(
				"Data (not file) line %d has %d columns, not %d.",
				i+1, n, nCols,
			)
		}

		words := fields(line, buf)
		for j, idx := range colIdxs {
			cols[j][i], err = strconv.ParseFloat(string(words[idx]), 64)
			if err != nil {
				return nil, fmt.Errorf("Data (not file) line %d, column "+
					"%d: %w", i+1, idx, err)
			}
		}
	}

	return cols, nil
}

func countFields(data []byte) int {
	n := 0
	inField := false
	for _, c := range data {
		wasInField := inField
		inField = !isSpace(c)
		if inField && !wasInField {
			n++
		}
	}
	return n
}

// Optimized and buffered analog to the standard library's bytes.Fields()
// function. buf must have room for every field in data.
func fields(data []byte, buf [][]byte) [][]byte {
	na := 0
	fieldStart := -1

	for i, c := range data {
		if fieldStart < 0 && !isSpace(c) {
			fieldStart = i
			continue
		}

		if fieldStart >= 0 && isSpace(c) {
			buf[na] = data[fieldStart:i]
			na++
			fieldStart = -1
		}
	}

	if fieldStart >= 0 {
		buf[na] = data[fieldStart:]
		na++
	}

	return buf[:na]
}
