package maxent

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

func Load(r io.Reader) (*Model, error) {
	var m Model
	if err := json.NewDecoder(r).Decode(&m); err != nil {
		return nil, fmt.Errorf("decode model: %w", err)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

func LoadFromBytes(buf []byte) (*Model, error) {
	var m Model
	if err := json.Unmarshal(buf, &m); err != nil {
		return nil, fmt.Errorf("decode model: %w", err)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

func LoadFromFile(modelFilePath string) (*Model, error) {
	f, err := os.Open(modelFilePath)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Load(f)
}
