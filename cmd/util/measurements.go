package util

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// ErrMalformedRow marks a data row that cannot be turned into a measurement
var ErrMalformedRow = errors.New("malformed row")

// fieldsPerRow is test_size, median_latency and the unused throughput column
const fieldsPerRow = 3

const maxLineSize = 1024 * 1024

// RowError tells which line of the file was bad
type RowError struct {
	Line int
	Err  error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *RowError) Unwrap() []error {
	return []error{ErrMalformedRow, e.Err}
}

// Dataset holds index aligned test sizes (KB) and median latencies (ns), in file order.
// Always build it through Append so both slices keep the same length.
type Dataset struct {
	TestSizes []int
	Latencies []float64
}

// Append adds one row to both sequences
func (d *Dataset) Append(testSize int, latency float64) {
	d.TestSizes = append(d.TestSizes, testSize)
	d.Latencies = append(d.Latencies, latency)
}

// Len is the number of rows
func (d *Dataset) Len() int {
	return len(d.TestSizes)
}

// Validate checks that the two sequences line up
func (d *Dataset) Validate() error {
	if len(d.TestSizes) != len(d.Latencies) {
		return fmt.Errorf("dataset has %d test sizes but %d latencies", len(d.TestSizes), len(d.Latencies))
	}
	return nil
}

// ReadMeasurements opens path and parses it with ParseMeasurements
func ReadMeasurements(path string) (*Dataset, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	data, err := ParseMeasurements(file)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return data, nil
}

// ParseMeasurements reads a measurement file. The first physical line is a header and is skipped unread.
// Every other non-empty line is split on commas and must be <int>,<float>,<anything>, with no
// quoting rules applied. The first bad row aborts the parse.
func ParseMeasurements(r io.Reader) (*Dataset, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	data := &Dataset{}
	line := 0
	for scanner.Scan() {
		line++
		if line == 1 || scanner.Text() == "" {
			continue
		}
		testSize, latency, err := parseRow(strings.Split(scanner.Text(), ","))
		if err != nil {
			return nil, &RowError{Line: line, Err: err}
		}
		data.Append(testSize, latency)
	}
	if err := scanner.Err(); err != nil {
		return nil, &RowError{Line: line + 1, Err: err}
	}
	return data, nil
}

func parseRow(record []string) (int, float64, error) {
	if len(record) != fieldsPerRow {
		return 0, 0, fmt.Errorf("expected %d fields, got %d", fieldsPerRow, len(record))
	}
	testSize, err := strconv.Atoi(strings.TrimSpace(record[0]))
	if err != nil {
		return 0, 0, fmt.Errorf("test size %q is not an integer", record[0])
	}
	latency, err := strconv.ParseFloat(strings.TrimSpace(record[1]), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("median latency %q is not a number", record[1])
	}
	return testSize, latency, nil
}
