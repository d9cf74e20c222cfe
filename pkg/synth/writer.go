package synth

import (
	"encoding/csv"
	"io"
	"slices"

	"liyu1981.xyz/agri-maintenance/pkg/dataset"
	"liyu1981.xyz/agri-maintenance/pkg/models"
)

// WriteCSV writes rows in the raw schema, leaving blanked cells empty.
func WriteCSV(w io.Writer, rows []Row) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(models.RawColumns); err != nil {
		return err
	}

	for i := range rows {
		record := dataset.FormatReading(&rows[i].Reading)
		for j, col := range models.RawColumns {
			if slices.Contains(rows[i].Nulls, col) {
				record[j] = ""
			}
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}
