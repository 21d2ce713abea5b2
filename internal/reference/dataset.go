package reference

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/iho/bankbalance/internal/domain"
)

//go:embed data/reference.json
var defaultDataset []byte

// Format is the encoding of a dataset file.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// rawRecord is a dataset row as stored on disk. Codes may be written as numbers or strings.
type rawRecord struct {
	RootKey  looseString `json:"codCnp"    yaml:"codCnp"`
	Company  looseString `json:"empresa"   yaml:"empresa"`
	Reseller looseString `json:"revenda"   yaml:"revenda"`
	BankCode looseString `json:"codBanco"  yaml:"codBanco"`
	BankName looseString `json:"descBanco" yaml:"descBanco"`
	Branch   looseString `json:"agencia"   yaml:"agencia"`
	Account  looseString `json:"conta"     yaml:"conta"`
}

func (r rawRecord) toDomain() domain.ReferenceRecord {
	return domain.ReferenceRecord{
		RootKey:  string(r.RootKey),
		Company:  string(r.Company),
		Reseller: string(r.Reseller),
		BankCode: string(r.BankCode),
		BankName: string(r.BankName),
		Branch:   string(r.Branch),
		Account:  string(r.Account),
	}
}

// looseString accepts a JSON/YAML string or number and keeps its literal text.
type looseString string

func (s *looseString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)

	switch {
	case bytes.Equal(data, []byte("null")):
		*s = ""
		return nil
	case len(data) > 0 && data[0] == '"':
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*s = looseString(v)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("expected string or number, got %s", data)
	}
	*s = looseString(n.String())

	return nil
}

func (s *looseString) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: expected scalar value", node.Line)
	}
	*s = looseString(node.Value)
	return nil
}

// LoadDefault decodes the dataset compiled into the binary.
func LoadDefault() ([]domain.ReferenceRecord, error) {
	return Decode(bytes.NewReader(defaultDataset), FormatJSON)
}

// LoadFile decodes a dataset file. The format is taken from the extension.
func LoadFile(path string) ([]domain.ReferenceRecord, error) {
	var format Format
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		format = FormatJSON
	case ".yaml", ".yml":
		format = FormatYAML
	default:
		return nil, fmt.Errorf("unsupported reference dataset extension %q", filepath.Ext(path))
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open reference dataset: %w", err)
	}
	defer f.Close()

	return Decode(f, format)
}

// Decode reads a dataset and validates every row.
func Decode(r io.Reader, format Format) ([]domain.ReferenceRecord, error) {
	var raw []rawRecord

	switch format {
	case FormatJSON:
		if err := json.NewDecoder(r).Decode(&raw); err != nil {
			return nil, fmt.Errorf("failed to decode reference dataset: %w", err)
		}
	case FormatYAML:
		if err := yaml.NewDecoder(r).Decode(&raw); err != nil && err != io.EOF {
			return nil, fmt.Errorf("failed to decode reference dataset: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported reference dataset format %q", format)
	}

	records := make([]domain.ReferenceRecord, 0, len(raw))
	for i, row := range raw {
		rec := row.toDomain()
		if err := rec.Validate(); err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		records = append(records, rec)
	}

	return records, nil
}
