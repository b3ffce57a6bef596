// Package parquetio reads and writes frames as Parquet files. The transform
// log travels in the file footer as key/value metadata.
package parquetio

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/wdm0006/anonymizer/pkg/frame"
	"github.com/wdm0006/anonymizer/pkg/translog"
	local "github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/parquet"
	pw "github.com/xitongsys/parquet-go/writer"
)

// LogKeyPrefix prefixes the footer keys holding log records, numbered from 0.
const LogKeyPrefix = "anonymizer.log."

// LogKey returns the footer key of the i-th log record.
func LogKey(i int) string { return LogKeyPrefix + strconv.Itoa(i) }

func parquetSchemaJSON(s frame.Schema) string {
	// Build a minimal JSON schema for parquet-go JSONWriter
	type field struct {
		Tag string `json:"Tag"`
	}
	type schema struct {
		Tag    string  `json:"Tag"`
		Fields []field `json:"Fields"`
	}
	sc := schema{Tag: "name=schema, repetitiontype=REQUIRED"}
	for _, cs := range s.Columns {
		tag := "name=" + cs.Name + ", repetitiontype=OPTIONAL, type="
		switch cs.Type {
		case frame.KindFloat:
			tag += "DOUBLE"
		case frame.KindInt:
			tag += "INT64"
		case frame.KindBool:
			tag += "BOOLEAN"
		default:
			tag += "UTF8"
		}
		sc.Fields = append(sc.Fields, field{Tag: tag})
	}
	b, _ := json.Marshal(sc)
	return string(b)
}

// logMetadata renders each log line (without the "# " prefix) under its key.
func logMetadata(log *translog.Log) []*parquet.KeyValue {
	if log == nil {
		return nil
	}
	recs := log.Records()
	kv := make([]*parquet.KeyValue, len(recs))
	for i, r := range recs {
		v := r.String()
		kv[i] = &parquet.KeyValue{Key: LogKey(i), Value: &v}
	}
	return kv
}

// rowJSON encodes row r as the JSON object the JSONWriter expects. Null
// cells are left out.
func rowJSON(cols []frame.Column, r int) (string, error) {
	rec := make(map[string]any, len(cols))
	for _, col := range cols {
		switch c := col.(type) {
		case *frame.FloatColumn:
			if v, ok := c.Get(r); ok {
				rec[c.Name()] = v
			}
		case *frame.IntColumn:
			if v, ok := c.Get(r); ok {
				rec[c.Name()] = v
			}
		case *frame.BoolColumn:
			if v, ok := c.Get(r); ok {
				rec[c.Name()] = v
			}
		case *frame.StringColumn:
			if v, ok := c.Get(r); ok {
				rec[c.Name()] = v
			}
		}
	}
	b, err := json.Marshal(rec)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// WriteAll writes a Frame to a Parquet file using parquet-go JSONWriter, with
// the records of log stored in the footer.
func WriteAll(path string, f *frame.Frame, log *translog.Log) (err error) {
	fw, err := local.NewLocalFileWriter(path)
	if err != nil {
		return err
	}
	writer, err := pw.NewJSONWriter(parquetSchemaJSON(f.Schema()), fw, 4)
	if err != nil {
		_ = fw.Close()
		return fmt.Errorf("parquet writer init: %w", err)
	}
	defer func() {
		if cerr := fw.Close(); err == nil {
			err = cerr
		}
	}()

	names := f.Names()
	cols := make([]frame.Column, len(names))
	for i, name := range names {
		cols[i], _ = f.ColumnByName(name)
	}
	for r := 0; r < f.Rows(); r++ {
		rec, err := rowJSON(cols, r)
		if err != nil {
			return fmt.Errorf("parquet encode row %d: %w", r, err)
		}
		if err := writer.Write(rec); err != nil {
			return fmt.Errorf("parquet write row %d: %w", r, err)
		}
	}
	writer.Footer.KeyValueMetadata = append(writer.Footer.KeyValueMetadata, logMetadata(log)...)
	if err := writer.WriteStop(); err != nil {
		return fmt.Errorf("parquet finish: %w", err)
	}
	return nil
}
