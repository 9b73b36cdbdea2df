package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/san-kum/episim/internal/dynamo"
)

// WriteCSV writes one row per sample with a time column followed by one
// column per compartment. Missing labels fall back to x0, x1, ...
func WriteCSV(w io.Writer, labels []string, traj dynamo.Trajectory) error {
	cw := csv.NewWriter(w)

	if traj.Len() == 0 {
		cw.Flush()
		return cw.Error()
	}

	_, x0 := traj.At(0)
	header := []string{"time"}
	for i := range x0 {
		if i < len(labels) {
			header = append(header, labels[i])
		} else {
			header = append(header, fmt.Sprintf("x%d", i))
		}
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	row := make([]string, len(header))
	for k := 0; k < traj.Len(); k++ {
		t, x := traj.At(k)
		row[0] = strconv.FormatFloat(t, 'g', -1, 64)
		for i, v := range x {
			row[i+1] = strconv.FormatFloat(v, 'g', -1, 64)
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// ReadCSV parses the output of WriteCSV.
func ReadCSV(r io.Reader) ([]string, dynamo.Trajectory, error) {
	records, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, dynamo.Trajectory{}, err
	}
	if len(records) == 0 {
		return nil, dynamo.Trajectory{}, nil
	}

	header := records[0]
	if len(header) < 2 || header[0] != "time" {
		return nil, dynamo.Trajectory{}, fmt.Errorf("unexpected csv header %v", header)
	}

	traj := dynamo.NewTrajectory(len(records) - 1)
	for line, record := range records[1:] {
		values := make([]float64, len(record))
		for j, field := range record {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, dynamo.Trajectory{}, fmt.Errorf("row %d column %s: %w", line+1, header[j], err)
			}
			values[j] = v
		}
		traj.Append(values[0], dynamo.State(values[1:]))
	}
	return header[1:], traj, nil
}
