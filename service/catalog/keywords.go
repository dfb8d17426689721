package catalog

import (
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"giftshop.GO/catalog"
)

// keywordFile is the YAML layout of a keyword table.
type keywordFile struct {
	Rules []struct {
		Keyword  string   `yaml:"keyword"`
		Products []string `yaml:"products"`
	} `yaml:"rules"`
}

// LoadKeywordTable reads a YAML keyword table; an empty path yields the
// built-in table.
func LoadKeywordTable(path string) (catalog.KeywordTable, error) {
	if path == "" {
		return catalog.DefaultKeywordTable(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("keywords: %w", err)
	}
	defer f.Close()
	return ParseKeywordTable(f)
}

// ParseKeywordTable decodes a YAML keyword table. Rules without a keyword
// are dropped.
func ParseKeywordTable(r io.Reader) (catalog.KeywordTable, error) {
	var kf keywordFile
	if err := yaml.NewDecoder(r).Decode(&kf); err != nil && err != io.EOF {
		return nil, fmt.Errorf("keywords: parse yaml: %w", err)
	}
	table := make(catalog.KeywordTable, 0, len(kf.Rules))
	for _, rule := range kf.Rules {
		kw := strings.ToLower(strings.TrimSpace(rule.Keyword))
		if kw == "" {
			continue
		}
		table = append(table, catalog.KeywordRule{Keyword: kw, Products: rule.Products})
	}
	return table, nil
}

// WriteKeywordTable encodes table in the format ParseKeywordTable reads.
func WriteKeywordTable(w io.Writer, table catalog.KeywordTable) error {
	var kf keywordFile
	for _, rule := range table {
		kf.Rules = append(kf.Rules, struct {
			Keyword  string   `yaml:"keyword"`
			Products []string `yaml:"products"`
		}{rule.Keyword, rule.Products})
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(kf); err != nil {
		return err
	}
	return enc.Close()
}
