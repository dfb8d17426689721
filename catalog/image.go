package catalog

import (
	"encoding/json"
	"strings"
)

// ImageField is the decoded form of a product's raw image column.
type ImageField interface {
	Primary() string
}

// SingleURL is a literal image URL.
type SingleURL string

func (u SingleURL) Primary() string { return string(u) }

// URLList is a JSON array of image URLs; the first one is shown.
type URLList []string

func (l URLList) Primary() string {
	for _, u := range l {
		if u = strings.TrimSpace(u); u != "" {
			return u
		}
	}
	return ""
}

// DecodeImageField parses the backend image column. Strings that do not decode
// as a JSON array are kept verbatim as a single URL.
func DecodeImageField(raw string) ImageField {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "[") {
		var list []string
		if err := json.Unmarshal([]byte(raw), &list); err == nil {
			return URLList(list)
		}
	}
	return SingleURL(raw)
}
