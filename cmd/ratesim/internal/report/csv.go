package report

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
)

// CSVHeader is the header line of the rate path file.
const CSVHeader = "Step, Vasicek Rate, CIR Rate"

// WriteCSV writes one row per step: index, Vasicek rate, CIR rate.
func WriteCSV(w io.Writer, vasicek, cir []float64) error {
	if len(vasicek) != len(cir) {
		return fmt.Errorf("WriteCSV: path lengths differ (vasicek=%d cir=%d)", len(vasicek), len(cir))
	}

	bw := bufio.NewWriter(w)
	bw.WriteString(CSVHeader)
	bw.WriteByte('\n')
	for i := range vasicek {
		bw.WriteString(strconv.Itoa(i))
		bw.WriteByte(',')
		bw.WriteString(strconv.FormatFloat(vasicek[i], 'g', -1, 64))
		bw.WriteByte(',')
		bw.WriteString(strconv.FormatFloat(cir[i], 'g', -1, 64))
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

// SaveCSV writes the paths to path, creating parent directories as needed.
func SaveCSV(path string, vasicek, cir []float64) (err error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("SaveCSV: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("SaveCSV: %w", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("SaveCSV: %w", cerr)
		}
	}()

	return WriteCSV(f, vasicek, cir)
}
