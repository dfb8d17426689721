package graphql

import (
	"strings"
	"sync"

	_ "embed"

	gql "github.com/graph-gophers/graphql-go"

	"giftshop.GO/catalog"
)

//go:embed schema.graphqls
var schemaBase string

var (
	schemaExtensions []string
	schemaMu         sync.Mutex
)

// RegisterSchemaExtension appends schema to the Query. Call from init() in custom packages.
func RegisterSchemaExtension(schema string) {
	schemaMu.Lock()
	defer schemaMu.Unlock()
	schemaExtensions = append(schemaExtensions, strings.TrimSpace(schema))
}

// Schema returns base schema + registered extensions.
func Schema() string {
	schemaMu.Lock()
	ext := schemaExtensions
	schemaMu.Unlock()
	if len(ext) == 0 {
		return schemaBase
	}
	return schemaBase + "\n\n" + strings.Join(ext, "\n\n")
}

// --- Schema arg types (used by resolvers for graphql-go method matching) ---

// ProductFilter is the ProductFilter input.
type ProductFilter struct {
	Query        *string
	Categories   *[]string
	MinPrice     *float64
	MaxPrice     *float64
	MinDiscount  *int32
	MaxDiscount  *int32
	CollectionID *gql.ID
	RecipientID  *gql.ID
	Sort         *string
}

// FilterState converts the input to the engine's filter. A nil filter is the
// empty selection.
func (f *ProductFilter) FilterState() catalog.FilterState {
	var fs catalog.FilterState
	if f == nil {
		return fs
	}
	if f.Query != nil {
		fs.Query = *f.Query
	}
	if f.Categories != nil {
		fs.Categories = *f.Categories
	}
	if f.MinPrice != nil {
		m := catalog.FromFloat(*f.MinPrice)
		fs.MinPrice = &m
	}
	if f.MaxPrice != nil {
		m := catalog.FromFloat(*f.MaxPrice)
		fs.MaxPrice = &m
	}
	if f.MinDiscount != nil {
		d := int(*f.MinDiscount)
		fs.MinDiscount = &d
	}
	if f.MaxDiscount != nil {
		d := int(*f.MaxDiscount)
		fs.MaxDiscount = &d
	}
	if f.CollectionID != nil {
		fs.CollectionID = string(*f.CollectionID)
	}
	if f.RecipientID != nil {
		fs.RecipientID = string(*f.RecipientID)
	}
	if f.Sort != nil {
		fs.Sort = catalog.SortKey(*f.Sort)
	}
	return fs
}

type PageArgs struct {
	Filter      *ProductFilter
	PageSize    *int32
	CurrentPage int32
}

type CollectionProductsArgs struct {
	ID          gql.ID
	Filter      *ProductFilter
	PageSize    *int32
	CurrentPage int32
}

type IDArgs struct {
	ID gql.ID
}

type RecommendationsArgs struct {
	RecipientID gql.ID
	Limit       *int32
}

type SearchArgs struct {
	Query string
	Size  int32
}

type ExtensionArgs struct {
	Name string
	Args *string
}
