package export

import (
	"bufio"
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/jpablobr/f4r"
	"github.com/jpablobr/f4r/profile"
)

// File decodes a FIT file and writes a lossless export bundle:
//   - manifest.json
//   - records.jsonl
//   - source.fit (optional)
func File(inputPath, outputDir string, opts Options) (*Result, error) {
	if strings.TrimSpace(inputPath) == "" {
		return nil, fmt.Errorf("input path is required")
	}
	if strings.TrimSpace(outputDir) == "" {
		return nil, fmt.Errorf("output directory is required")
	}

	data, err := os.ReadFile(inputPath)
	if err != nil {
		return nil, fmt.Errorf("read fit file: %w", err)
	}
	sum := sha256.Sum256(data)
	sha := hex.EncodeToString(sum[:])

	decoded, err := f4r.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode fit file: %w", err)
	}

	// The bundle owns its directory: it is created on demand and, unless
	// Overwrite is set, must start out empty so stale bundle files can
	// never mix with this export.
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create bundle directory: %w", err)
	}
	if !opts.Overwrite {
		entries, err := os.ReadDir(outputDir)
		if err != nil {
			return nil, fmt.Errorf("read bundle directory: %w", err)
		}
		if len(entries) > 0 {
			return nil, fmt.Errorf("bundle directory is not empty: %s (set Overwrite to reuse it)", outputDir)
		}
	}

	rows := Rows(decoded)
	recordsPath := filepath.Join(outputDir, "records.jsonl")
	err = writeJSONStream(recordsPath, false, func(enc *json.Encoder) error {
		for _, row := range rows {
			if err := enc.Encode(row); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("write records.jsonl: %w", err)
	}

	defCount := 0
	for _, reg := range decoded.Registries {
		defCount += len(reg.Definitions)
	}

	header := decoded.Registry().Header
	manifest := Manifest{
		FormatVersion:   FormatVersion,
		GeneratedAt:     time.Now().UTC(),
		SourceFile:      inputPath,
		SourceFileName:  filepath.Base(inputPath),
		SourceSHA256:    sha,
		SourceSizeBytes: int64(len(data)),
		Header: HeaderInfo{
			Size:            header.Size,
			ProtocolVersion: header.ProtocolVersion,
			ProfileVersion:  header.ProfileVersion,
			DataSize:        header.DataSize,
			DataType:        header.DataType,
		},
		RecordsPath:     filepath.Base(recordsPath),
		RecordCount:     len(rows),
		DefinitionCount: defCount,
		SegmentCount:    len(decoded.Registries),
		FileID:          projectFileID(decoded, profile.Default()),
	}
	manifestPath := filepath.Join(outputDir, "manifest.json")
	err = writeJSONStream(manifestPath, true, func(enc *json.Encoder) error {
		return enc.Encode(manifest)
	})
	if err != nil {
		return nil, fmt.Errorf("write manifest.json: %w", err)
	}

	sourceCopyPath := ""
	if opts.CopySourceFile {
		sourceCopyPath = filepath.Join(outputDir, "source.fit")
		if err := os.WriteFile(sourceCopyPath, data, 0o644); err != nil {
			return nil, fmt.Errorf("copy source fit file: %w", err)
		}
	}

	return &Result{
		OutputDir:       outputDir,
		ManifestPath:    manifestPath,
		RecordsPath:     recordsPath,
		SourceCopyPath:  sourceCopyPath,
		RecordCount:     len(rows),
		DefinitionCount: defCount,
		SegmentCount:    len(decoded.Registries),
		SourceSHA256:    sha,
		SourceSizeBytes: int64(len(data)),
	}, nil
}

// Rows flattens a decoded file into JSONL rows, one per data record,
// preserving stream order.
func Rows(decoded *f4r.File) []RecordRow {
	var rows []RecordRow
	for seg, reg := range decoded.Registries {
		for _, rec := range reg.Records {
			fields := make(map[string]FieldRow, len(rec.Fields))
			for name, fv := range rec.Fields {
				fields[name] = FieldRow{
					Value:    fv.Value,
					BaseType: fv.BaseType.Name,
				}
			}
			rows = append(rows, RecordRow{
				FormatVersion:      FormatVersion,
				Segment:            seg,
				Index:              rec.Index,
				MessageName:        rec.MessageName,
				MessageNumber:      rec.MessageNumber,
				MessageSource:      rec.MessageSource,
				LocalMessageNumber: rec.LocalMessageNumber,
				Fields:             fields,
			})
		}
	}
	return rows
}

// writeJSONStream is the single writer behind both bundle files: the
// manifest (indented object) and the records stream (one compact line
// per record) differ only in encoder setup, so they share the buffered
// create/encode/flush path.
func writeJSONStream(path string, indent bool, emit func(*json.Encoder) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriterSize(f, 1<<20)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if indent {
		enc.SetIndent("", "  ")
	}
	if err := emit(enc); err != nil {
		return err
	}
	return w.Flush()
}

// fitEpoch anchors date_time values: seconds since 1989-12-31 UTC.
var fitEpoch = time.Date(1989, time.December, 31, 0, 0, 0, 0, time.UTC)

// projectFileID summarizes the first decoded file_id record for the
// manifest, naming enum-backed values through the catalog's type
// dictionary. Files without a file_id record lose the projection.
func projectFileID(decoded *f4r.File, cat *profile.Catalog) *FileIDInfo {
	var rec *f4r.Record
	for _, r := range decoded.Records() {
		if r.MessageName == "file_id" {
			rec = r
			break
		}
	}
	if rec == nil {
		return nil
	}

	info := &FileIDInfo{
		Type:         typeValueName(cat, "file", rec.Field("type")),
		Manufacturer: typeValueName(cat, "manufacturer", rec.Field("manufacturer")),
	}
	if product, ok := rec.Field("product").(uint16); ok && product != 0xFFFF {
		info.Product = strconv.Itoa(int(product))
	}
	if serial, ok := rec.Field("serial_number").(uint32); ok && serial != 0 {
		info.SerialNumber = serial
	}
	if ts, ok := rec.Field("time_created").(uint32); ok && ts != 0xFFFFFFFF {
		info.TimeCreated = fitEpoch.Add(time.Duration(ts) * time.Second).Format(time.RFC3339)
	}
	return info
}

// typeValueName renders a raw profile-typed value as its named constant
// when the type dictionary carries one, else as the number itself.
func typeValueName(cat *profile.Catalog, typeName string, v any) string {
	if v == nil {
		return ""
	}
	rendered := fmt.Sprint(v)
	if t, ok := cat.TypeByName(typeName); ok {
		for _, tv := range t.Values {
			if tv.Value == rendered {
				return tv.Name
			}
		}
	}
	return rendered
}
