// Package export writes decoded FIT registries out as a lossless
// tooling bundle: a records.jsonl stream, a manifest, and optionally a
// flat Parquet or CSV table of field values.
package export

import "time"

const (
	// FormatVersion identifies the on-disk schema of export bundles.
	FormatVersion = "f4r_jsonl_v1"
)

// Options controls export behavior.
type Options struct {
	// Overwrite allows writing into a non-empty output directory.
	Overwrite bool

	// CopySourceFile writes a byte-for-byte copy of the source FIT
	// file into the output directory.
	CopySourceFile bool
}

// Result describes generated files.
type Result struct {
	OutputDir       string `json:"output_dir"`
	ManifestPath    string `json:"manifest_path"`
	RecordsPath     string `json:"records_path"`
	SourceCopyPath  string `json:"source_copy_path,omitempty"`
	RecordCount     int    `json:"record_count"`
	DefinitionCount int    `json:"definition_count"`
	SegmentCount    int    `json:"segment_count"`
	SourceSHA256    string `json:"source_sha256"`
	SourceSizeBytes int64  `json:"source_size_bytes"`
}

// Manifest captures export metadata and pointers to exported files.
type Manifest struct {
	FormatVersion   string      `json:"format_version"`
	GeneratedAt     time.Time   `json:"generated_at"`
	SourceFile      string      `json:"source_file"`
	SourceFileName  string      `json:"source_file_name"`
	SourceSHA256    string      `json:"source_sha256"`
	SourceSizeBytes int64       `json:"source_size_bytes"`
	Header          HeaderInfo  `json:"header"`
	RecordsPath     string      `json:"records_path"`
	RecordCount     int         `json:"record_count"`
	DefinitionCount int         `json:"definition_count"`
	SegmentCount    int         `json:"segment_count"`
	FileID          *FileIDInfo `json:"file_id_projection,omitempty"`
}

// HeaderInfo stores parsed FIT header values.
type HeaderInfo struct {
	Size            uint8  `json:"size"`
	ProtocolVersion uint8  `json:"protocol_version"`
	ProfileVersion  uint16 `json:"profile_version"`
	DataSize        uint32 `json:"data_size"`
	DataType        string `json:"data_type"`
}

// FileIDInfo is a convenience projection from the file_id message.
type FileIDInfo struct {
	Type         string `json:"type"`
	Manufacturer string `json:"manufacturer"`
	Product      string `json:"product"`
	TimeCreated  string `json:"time_created,omitempty"`
	SerialNumber uint32 `json:"serial_number,omitempty"`
}

// RecordRow is one JSONL line in records.jsonl. The stream preserves
// original FIT record order.
type RecordRow struct {
	FormatVersion      string              `json:"format_version"`
	Segment            int                 `json:"segment"`
	Index              int                 `json:"record_index"`
	MessageName        string              `json:"message_name"`
	MessageNumber      uint16              `json:"message_number"`
	MessageSource      string              `json:"message_source"`
	LocalMessageNumber uint8               `json:"local_message_number"`
	Fields             map[string]FieldRow `json:"fields"`
}

// FieldRow is one decoded field value inside a RecordRow.
type FieldRow struct {
	Value    any    `json:"value"`
	BaseType string `json:"base_type"`
}
