// Package export turns a computed matrix and the supplier catalog into the
// tabular files handed to staff and customers.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

func money(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func writeCSV(w io.Writer, header []string, records [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	if err := cw.WriteAll(records); err != nil {
		return fmt.Errorf("write csv rows: %w", err)
	}
	return nil
}

// Filename builds a dated download name such as
// Pricing_Matrix_Alberton_2024-05-01.csv.
func Filename(prefix, subject string, day time.Time, ext string) string {
	subject = strings.ReplaceAll(strings.TrimSpace(subject), " ", "_")
	subject = strings.ReplaceAll(subject, "/", "-")
	return fmt.Sprintf("%s_%s_%s.%s", prefix, subject, day.Format(time.DateOnly), ext)
}
