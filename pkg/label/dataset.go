package label

import (
	"bufio"
	"fmt"
	"io"
	"slices"
	"strings"
)

const labelPrefix = "__label__"

// ReadDataset parses fastText-style lines: "__label__<name> <text>". Blank
// lines are skipped. When a line carries several labels the first wins.
func ReadDataset(r io.Reader) ([]Sample, error) {
	var samples []Sample

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, bufio.MaxScanTokenSize), 1<<20)

	lineNo := 0

	for scanner.Scan() {
		lineNo++

		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		if !strings.HasPrefix(fields[0], labelPrefix) || len(fields[0]) == len(labelPrefix) {
			return nil, fmt.Errorf("%w %d", ErrMalformedDataset, lineNo)
		}

		name := strings.TrimPrefix(fields[0], labelPrefix)
		rest := fields[1:]

		for len(rest) > 0 && strings.HasPrefix(rest[0], labelPrefix) {
			rest = rest[1:]
		}

		samples = append(samples, Sample{Label: name, Text: strings.Join(rest, " ")})
	}

	err := scanner.Err()
	if err != nil {
		return nil, fmt.Errorf("read dataset: %w", err)
	}

	return samples, nil
}

// DatasetLabels returns the sorted distinct labels of samples.
func DatasetLabels(samples []Sample) []string {
	out := make([]string, 0, len(samples))
	for _, s := range samples {
		out = append(out, s.Label)
	}

	slices.Sort(out)

	return slices.Compact(out)
}
