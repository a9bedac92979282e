package mapgen

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/treesym/treesym/pkg/errors"
)

// Entry is one line of a mapping file: a permutation, the canonical
// representative of its equivalence class, and how many measurements the
// permutation still needs. Experiment drivers decrement counts as results
// come in and re-write the file.
type Entry struct {
	Permutation string
	Canonical   string
	Count       int
}

// Entries flattens generated mappings into file entries: one entry per
// canonical, weighted by its number of equivalents, and one entry per
// equivalent.
func Entries(mappings []Mapping) []Entry {
	var entries []Entry
	for _, m := range mappings {
		weight := len(m.Equivalents)
		if weight == 0 {
			weight = 1
		}
		entries = append(entries, Entry{
			Permutation: m.Canonical,
			Canonical:   m.Canonical,
			Count:       weight,
		})
		for _, e := range m.Equivalents {
			entries = append(entries, Entry{
				Permutation: e,
				Canonical:   m.Canonical,
				Count:       1,
			})
		}
	}
	return entries
}

// WriteTo writes entries in the line-oriented mapping file format:
//
//	<permutation> <canonical> <count>
func WriteTo(w io.Writer, entries []Entry) error {
	bw := bufio.NewWriter(w)
	for _, e := range entries {
		if _, err := fmt.Fprintf(bw, "%s %s %d\n", e.Permutation, e.Canonical, e.Count); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// ReadFrom parses the mapping file format produced by [WriteTo]. Blank
// lines are skipped.
func ReadFrom(r io.Reader) ([]Entry, error) {
	var entries []Entry
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		fields := strings.Fields(text)
		if len(fields) != 3 {
			return nil, errors.New(errors.ErrCodeInvalidFormat,
				"mapping file line %d: want 3 fields, got %d", line, len(fields))
		}
		count, err := strconv.Atoi(fields[2])
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "mapping file line %d", line)
		}
		entries = append(entries, Entry{
			Permutation: fields[0],
			Canonical:   fields[1],
			Count:       count,
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}
