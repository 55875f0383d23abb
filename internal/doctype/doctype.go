// Package doctype maps analyzed document types to the reports the analyzer
// produces for them.
package doctype

import (
	"bytes"
	_ "embed"
	"fmt"
	"slices"
	"sort"

	"github.com/spf13/viper"
)

// Fallback is used for unknown document types.
const Fallback = "bank_statement"

//go:embed doctypes.yaml
var builtin []byte

// Insight is a headline figure shown for a document type.
type Insight struct {
	Key   string `mapstructure:"key"   json:"key"`
	Label string `mapstructure:"label" json:"label"`
}

// Type describes one document type.
type Type struct {
	Name             string    `mapstructure:"-"                 json:"name"`
	Label            string    `mapstructure:"label"             json:"label"`
	Reports          []string  `mapstructure:"reports"           json:"reports"`
	ShowTransactions bool      `mapstructure:"show_transactions" json:"show_transactions"`
	ShowCharts       bool      `mapstructure:"show_charts"       json:"show_charts"`
	ShowRatios       bool      `mapstructure:"show_ratios"       json:"show_ratios"`
	Insights         []Insight `mapstructure:"insights"          json:"insights"`
}

// Catalog is an immutable set of document types.
type Catalog struct {
	types map[string]Type
	names []string
}

var defaultCatalog = mustBuiltin()

func mustBuiltin() *Catalog {
	c, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("doctype: builtin catalog: %v", err))
	}
	return c
}

// Default returns the built-in catalog.
func Default() *Catalog { return defaultCatalog }

// Load reads the built-in catalog and merges the document_types section of
// the YAML file at overridePath, if given. Entries in the override replace
// built-in entries of the same name.
func Load(overridePath string) (*Catalog, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	if err := v.ReadConfig(bytes.NewReader(builtin)); err != nil {
		return nil, fmt.Errorf("read builtin document types: %w", err)
	}
	if overridePath != "" {
		v.SetConfigFile(overridePath)
		if err := v.MergeInConfig(); err != nil {
			return nil, fmt.Errorf("merge document types %s: %w", overridePath, err)
		}
	}

	var raw map[string]Type
	if err := v.UnmarshalKey("document_types", &raw); err != nil {
		return nil, fmt.Errorf("decode document types: %w", err)
	}

	c := &Catalog{types: make(map[string]Type, len(raw))}
	for name, t := range raw {
		t.Name = name
		c.types[name] = t
		c.names = append(c.names, name)
	}
	sort.Strings(c.names)
	if _, ok := c.types[Fallback]; !ok {
		return nil, fmt.Errorf("document types: %s entry is required", Fallback)
	}
	return c, nil
}

// Names returns the known document types in sorted order.
func (c *Catalog) Names() []string {
	return slices.Clone(c.names)
}

// Get returns the named type without falling back.
func (c *Catalog) Get(name string) (Type, bool) {
	t, ok := c.types[name]
	return t, ok
}

// Lookup returns the named type, or the bank statement type when name is
// unknown.
func (c *Catalog) Lookup(name string) Type {
	if t, ok := c.types[name]; ok {
		return t
	}
	return c.types[Fallback]
}

// ExpectedReports returns the reports produced for a document type.
func (c *Catalog) ExpectedReports(name string) []string {
	return slices.Clone(c.Lookup(name).Reports)
}

// IsReportFor reports whether report belongs to the document type.
func (c *Catalog) IsReportFor(report, name string) bool {
	return slices.Contains(c.Lookup(name).Reports, report)
}

// Lookup consults the built-in catalog.
func Lookup(name string) Type { return defaultCatalog.Lookup(name) }

// ExpectedReports consults the built-in catalog.
func ExpectedReports(name string) []string { return defaultCatalog.ExpectedReports(name) }

// IsReportFor consults the built-in catalog.
func IsReportFor(report, name string) bool { return defaultCatalog.IsReportFor(report, name) }
