package diagnostic

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DecodeYAML parses and validates tables from a YAML document.
func DecodeYAML(data []byte) (Tables, error) {
	var tables Tables
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&tables); err != nil {
		return Tables{}, fmt.Errorf("%w: %v", ErrInvalidTables, err)
	}
	if err := tables.Validate(); err != nil {
		return Tables{}, err
	}
	return tables, nil
}

// EncodeYAML renders tables in the seed file format.
func EncodeYAML(tables Tables) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(tables); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// LoadSeedFile reads tables from a YAML file on disk.
func LoadSeedFile(path string) (Tables, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Tables{}, fmt.Errorf("read seed file: %w", err)
	}
	return DecodeYAML(data)
}
