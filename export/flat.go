package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"sort"
	"strconv"

	parquetbuffer "github.com/xitongsys/parquet-go-source/buffer"
	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/writer"

	"github.com/jpablobr/f4r"
)

// FlatRow is one field value in the long-format flat table.
type FlatRow struct {
	Segment      int64  `parquet:"name=segment, type=INT64"`
	RecordIndex  int64  `parquet:"name=record_index, type=INT64"`
	MessageName  string `parquet:"name=message_name, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	MessageNum   int64  `parquet:"name=message_number, type=INT64"`
	LocalMessage int64  `parquet:"name=local_message_number, type=INT64"`
	FieldName    string `parquet:"name=field_name, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	BaseType     string `parquet:"name=base_type, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	Value        string `parquet:"name=value, type=BYTE_ARRAY, convertedtype=UTF8"`
}

// Flatten turns a decoded file into long-format rows: one row per
// (record, field), values rendered as strings, field order sorted per
// record for determinism.
func Flatten(decoded *f4r.File) []FlatRow {
	var rows []FlatRow
	for seg, reg := range decoded.Registries {
		for _, rec := range reg.Records {
			names := make([]string, 0, len(rec.Fields))
			for name := range rec.Fields {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				fv := rec.Fields[name]
				rows = append(rows, FlatRow{
					Segment:      int64(seg),
					RecordIndex:  int64(rec.Index),
					MessageName:  rec.MessageName,
					MessageNum:   int64(rec.MessageNumber),
					LocalMessage: int64(rec.LocalMessageNumber),
					FieldName:    name,
					BaseType:     fv.BaseType.Name,
					Value:        renderValue(fv.Value),
				})
			}
		}
	}
	return rows
}

// WriteParquet writes the flat table as snappy-compressed Parquet.
func WriteParquet(path string, rows []FlatRow) error {
	fw := parquetbuffer.NewBufferFile()
	pw, err := writer.NewParquetWriter(fw, new(FlatRow), 4)
	if err != nil {
		return err
	}
	pw.CompressionType = parquet.CompressionCodec_SNAPPY
	for _, row := range rows {
		if err := pw.Write(row); err != nil {
			_ = pw.WriteStop()
			return err
		}
	}
	if err := pw.WriteStop(); err != nil {
		return err
	}
	if err := fw.Close(); err != nil {
		return err
	}
	return os.WriteFile(path, fw.Bytes(), 0o644)
}

// WriteCSV writes the flat table as CSV with a header row.
func WriteCSV(path string, rows []FlatRow) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"segment", "record_index", "message_name", "message_number", "local_message_number", "field_name", "base_type", "value"}); err != nil {
		return err
	}
	for _, row := range rows {
		record := []string{
			strconv.FormatInt(row.Segment, 10),
			strconv.FormatInt(row.RecordIndex, 10),
			row.MessageName,
			strconv.FormatInt(row.MessageNum, 10),
			strconv.FormatInt(row.LocalMessage, 10),
			row.FieldName,
			row.BaseType,
			row.Value,
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func renderValue(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case []any:
		out := "["
		for i, e := range x {
			if i > 0 {
				out += " "
			}
			out += fmt.Sprint(e)
		}
		return out + "]"
	default:
		return fmt.Sprint(v)
	}
}
