package family

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/familytree/pkg/errors"
)

// =============================================================================
// Record Serialization API
// =============================================================================

// Marshal converts a record to indented JSON bytes.
func Marshal(p *PersonRecord) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(p, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes JSON bytes into a record. A JSON null or an empty body
// yields a nil record and no error; callers treat that as an empty tree.
func Unmarshal(data []byte) (*PersonRecord, error) {
	return Read(bytes.NewReader(data))
}

// Write writes a record as JSON to an io.Writer.
func Write(p *PersonRecord, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(p); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// Read decodes a JSON record from an io.Reader.
func Read(r io.Reader) (*PersonRecord, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil, nil
	}
	var p PersonRecord
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode person record")
	}
	return &p, nil
}

// ReadFile reads a record from a JSON or YAML file, chosen by extension
// (.yaml and .yml are YAML, everything else is JSON).
func ReadFile(path string) (*PersonRecord, error) {
	if err := errors.ValidatePath(path); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "read %s", path)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return decodeYAML(data)
	default:
		return Unmarshal(data)
	}
}

// WriteFile writes a record to a JSON file with 0644 permissions.
func WriteFile(p *PersonRecord, path string) error {
	data, err := Marshal(p)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func decodeYAML(data []byte) (*PersonRecord, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}
	var p PersonRecord
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode person record")
	}
	if p.ID == "" && p.Name == "" && len(p.Children) == 0 {
		return nil, nil
	}
	return &p, nil
}
