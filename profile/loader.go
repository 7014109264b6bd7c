package profile

import (
	"embed"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
)

// Table file names looked up inside a profile directory.
const (
	messagesFile             = "messages.csv"
	typesFile                = "types.csv"
	undocumentedMessagesFile = "undocumented_messages.csv"
	undocumentedTypesFile    = "undocumented_types.csv"
)

//go:embed data/*.csv
var defaultTables embed.FS

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
	defaultErr     error
)

// Default returns the catalog built from the embedded profile tables.
func Default() *Catalog {
	defaultOnce.Do(func() {
		sub, err := fs.Sub(defaultTables, "data")
		if err != nil {
			defaultErr = err
			return
		}
		defaultCatalog, defaultErr = loadFS(sub)
	})
	if defaultErr != nil {
		// The embedded tables ship with the module; a parse failure is a
		// build defect, not a runtime condition.
		panic(fmt.Sprintf("profile: embedded tables invalid: %v", defaultErr))
	}
	return defaultCatalog
}

// Load builds a catalog from CSV tables in dir. The documented tables
// (messages.csv, types.csv) are required; the undocumented tables are
// merged when present.
func Load(dir string) (*Catalog, error) {
	return loadFS(os.DirFS(dir))
}

func loadFS(fsys fs.FS) (*Catalog, error) {
	cat := newCatalog()

	messages, err := readMessagesTable(fsys, messagesFile, SourceDocumented)
	if err != nil {
		return nil, err
	}
	for _, m := range messages {
		cat.addMessage(m)
	}

	types, err := readTypesTable(fsys, typesFile)
	if err != nil {
		return nil, err
	}
	cat.types = types

	um, err := readMessagesTable(fsys, undocumentedMessagesFile, SourceUndocumented)
	if err != nil && !isNotExist(err) {
		return nil, err
	}
	ut, err := readTypesTable(fsys, undocumentedTypesFile)
	if err != nil && !isNotExist(err) {
		return nil, err
	}
	cat.mergeUndocumented(um, ut)

	return cat, nil
}

func isNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}

// readMessagesTable parses a message table. Columns:
// message_name, message_number, field_def, field_name, field_type,
// array, scale, offset, units, comment. Rows without a field_def are
// filtered out.
func readMessagesTable(fsys fs.FS, name, source string) ([]*Message, error) {
	rows, err := readTable(fsys, name)
	if err != nil {
		return nil, err
	}

	var (
		order []*Message
		byKey = make(map[string]*Message)
	)
	for i, row := range rows {
		if len(row) < 5 {
			return nil, fmt.Errorf("profile: %s row %d: expected at least 5 columns, got %d", name, i+2, len(row))
		}
		msgName := strings.TrimSpace(row[0])
		if msgName == "" {
			continue
		}
		msgNum, err := strconv.ParseUint(strings.TrimSpace(row[1]), 10, 16)
		if err != nil {
			return nil, fmt.Errorf("profile: %s row %d: bad message number %q", name, i+2, row[1])
		}
		fieldDef := strings.TrimSpace(row[2])
		if fieldDef == "" {
			// Fields lacking a field definition number carry no wire
			// identity and cannot be resolved.
			continue
		}
		fieldNum, err := strconv.Atoi(fieldDef)
		if err != nil {
			return nil, fmt.Errorf("profile: %s row %d: bad field number %q", name, i+2, fieldDef)
		}

		msg, ok := byKey[msgName]
		if !ok {
			msg = &Message{Name: msgName, Num: uint16(msgNum), Source: source}
			byKey[msgName] = msg
			order = append(order, msg)
		}
		field := Field{
			Num:  fieldNum,
			Name: strings.TrimSpace(row[3]),
			Type: strings.TrimSpace(row[4]),
		}
		if len(row) > 5 {
			field.Array = strings.TrimSpace(row[5])
		}
		if len(row) > 6 {
			field.Scale = strings.TrimSpace(row[6])
		}
		if len(row) > 7 {
			field.Offset = strings.TrimSpace(row[7])
		}
		if len(row) > 8 {
			field.Units = strings.TrimSpace(row[8])
		}
		if len(row) > 9 {
			field.Comment = strings.TrimSpace(row[9])
		}
		msg.Fields = append(msg.Fields, field)
	}

	for _, m := range order {
		m.reindex()
	}
	return order, nil
}

// readTypesTable parses a type table. Columns:
// type_name, base_type, value_name, value, comment.
func readTypesTable(fsys fs.FS, name string) (map[string]*Type, error) {
	rows, err := readTable(fsys, name)
	if err != nil {
		return nil, err
	}

	types := make(map[string]*Type)
	for i, row := range rows {
		if len(row) < 2 {
			return nil, fmt.Errorf("profile: %s row %d: expected at least 2 columns, got %d", name, i+2, len(row))
		}
		typeName := strings.TrimSpace(row[0])
		if typeName == "" {
			continue
		}
		t, ok := types[typeName]
		if !ok {
			t = &Type{Name: typeName, BaseType: strings.TrimSpace(row[1])}
			types[typeName] = t
		}
		if len(row) > 3 && strings.TrimSpace(row[2]) != "" {
			v := TypeValue{
				Name:  strings.TrimSpace(row[2]),
				Value: strings.TrimSpace(row[3]),
			}
			if len(row) > 4 {
				v.Comment = strings.TrimSpace(row[4])
			}
			t.Values = append(t.Values, v)
		}
	}
	return types, nil
}

func readTable(fsys fs.FS, name string) ([][]string, error) {
	f, err := fsys.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	// Skip the header row.
	if _, err := r.Read(); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("profile: read %s header: %w", name, err)
	}

	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("profile: read %s: %w", filepath.Base(name), err)
	}
	return rows, nil
}
