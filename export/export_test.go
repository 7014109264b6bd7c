package export

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/require"

	"github.com/jpablobr/f4r"
)

func writeSampleFIT(t *testing.T) string {
	t.Helper()
	msgs := []f4r.Message{
		{Name: "file_id", LocalMessageNumber: 0, Fields: map[string]any{
			"type": 4, "manufacturer": 1, "serial_number": 3141592, "time_created": 1000000000,
		}},
		{Name: "record", LocalMessageNumber: 1, Fields: map[string]any{
			"timestamp": 1000000001, "heart_rate": 130, "power": 240,
		}},
		{Name: "record", LocalMessageNumber: 1, Fields: map[string]any{
			"timestamp": 1000000002, "heart_rate": 131,
		}},
	}
	path := filepath.Join(t.TempDir(), "sample.fit")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, f4r.NewEncoder().EncodeMessages(f, msgs))
	return path
}

func TestFileWritesBundle(t *testing.T) {
	inputPath := writeSampleFIT(t)
	outDir := filepath.Join(t.TempDir(), "bundle")

	result, err := File(inputPath, outDir, Options{Overwrite: true, CopySourceFile: true})
	require.NoError(t, err)
	require.Equal(t, 3, result.RecordCount)
	require.Equal(t, 1, result.SegmentCount)
	require.Equal(t, 2, result.DefinitionCount)

	manifestData, err := os.ReadFile(result.ManifestPath)
	require.NoError(t, err)
	var manifest Manifest
	require.NoError(t, json.Unmarshal(manifestData, &manifest))
	require.Equal(t, FormatVersion, manifest.FormatVersion)
	require.Equal(t, ".FIT", manifest.Header.DataType)
	require.Equal(t, result.RecordCount, manifest.RecordCount)
	require.Equal(t, result.SourceSHA256, manifest.SourceSHA256)

	// The file_id projection names enum-backed values via the catalog.
	require.NotNil(t, manifest.FileID)
	require.Equal(t, "activity", manifest.FileID.Type)
	require.Equal(t, "garmin", manifest.FileID.Manufacturer)
	require.Equal(t, uint32(3141592), manifest.FileID.SerialNumber)
	require.NotEmpty(t, manifest.FileID.TimeCreated)

	recordsData, err := os.ReadFile(result.RecordsPath)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(recordsData)), "\n")
	require.Len(t, lines, result.RecordCount)

	var row RecordRow
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &row))
	require.Equal(t, "file_id", row.MessageName)
	require.Contains(t, row.Fields, "serial_number")

	copied, err := os.ReadFile(result.SourceCopyPath)
	require.NoError(t, err)
	original, err := os.ReadFile(inputPath)
	require.NoError(t, err)
	require.Equal(t, original, copied)
}

func TestFileRefusesDirtyOutputDir(t *testing.T) {
	inputPath := writeSampleFIT(t)
	outDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(outDir, "leftover"), []byte("x"), 0o644))

	_, err := File(inputPath, outDir, Options{Overwrite: false})
	require.ErrorContains(t, err, "not empty")
}

func TestFlattenAndWriteCSV(t *testing.T) {
	inputPath := writeSampleFIT(t)
	decoded, err := f4r.DecodeFile(inputPath)
	require.NoError(t, err)

	rows := Flatten(decoded)
	fieldCount := 0
	for _, rec := range decoded.Records() {
		fieldCount += len(rec.Fields)
	}
	require.Len(t, rows, fieldCount)

	csvPath := filepath.Join(t.TempDir(), "flat.csv")
	require.NoError(t, WriteCSV(csvPath, rows))

	f, err := os.Open(csvPath)
	require.NoError(t, err)
	defer f.Close()
	parsed, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, parsed, fieldCount+1) // header row
	require.Equal(t, "message_name", parsed[0][2])
}

func TestProjectFileIDWithoutFileIDRecord(t *testing.T) {
	msgs := []f4r.Message{
		{Name: "file_creator", LocalMessageNumber: 0, Fields: map[string]any{"software_version": 1}},
	}
	path := filepath.Join(t.TempDir(), "nofileid.fit")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, f4r.NewEncoder().EncodeMessages(f, msgs))
	require.NoError(t, f.Close())

	result, err := File(path, filepath.Join(t.TempDir(), "bundle"), Options{Overwrite: true})
	require.NoError(t, err)

	manifestData, err := os.ReadFile(result.ManifestPath)
	require.NoError(t, err)
	var manifest Manifest
	require.NoError(t, json.Unmarshal(manifestData, &manifest))
	require.Nil(t, manifest.FileID)
}

func TestWriteParquet(t *testing.T) {
	inputPath := writeSampleFIT(t)
	decoded, err := f4r.DecodeFile(inputPath)
	require.NoError(t, err)

	parquetPath := filepath.Join(t.TempDir(), "flat.parquet")
	require.NoError(t, WriteParquet(parquetPath, Flatten(decoded)))

	info, err := os.Stat(parquetPath)
	require.NoError(t, err)
	require.Greater(t, info.Size(), int64(0))
}
