package resolvers

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"giftshop.GO/catalog"
	"giftshop.GO/graphql"
	gqlregistry "giftshop.GO/graphql/registry"
	"giftshop.GO/service/search"
)

func init() {
	gqlregistry.RegisterQueryResolverFactory(func(deps interface{}) interface{} {
		d, _ := deps.(Deps)
		return NewQueryResolver(d)
	})
}

// Deps is what the resolvers read from. Search and Logger may be nil.
type Deps struct {
	Engine   *catalog.Engine
	Shuffler *catalog.Shuffler
	Search   *search.SearchService
	Logger   *zap.Logger
}

// QueryResolver is the single resolver for all Query fields.
// Methods live in product.go, collection.go, search.go.
// New Query fields: use RegisterSchemaExtension + add method on QueryResolver,
// or use _extension for fully dynamic resolvers.
type QueryResolver struct {
	engine   *catalog.Engine
	shuffler *catalog.Shuffler
	search   *search.SearchService
	log      *zap.Logger
}

var _ graphql.QueryResolver = (*QueryResolver)(nil)

func NewQueryResolver(d Deps) *QueryResolver {
	if d.Engine == nil {
		d.Engine = catalog.NewEngine()
	}
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	return &QueryResolver{engine: d.Engine, shuffler: d.Shuffler, search: d.Search, log: d.Logger}
}

// Extension dispatches to registered custom resolvers.
func (r *QueryResolver) Extension(ctx context.Context, args graphql.ExtensionArgs) (*string, error) {
	m := make(map[string]interface{})
	if args.Args != nil && *args.Args != "" {
		_ = json.Unmarshal([]byte(*args.Args), &m)
	}
	out, err := gqlregistry.Resolve(ctx, args.Name, m)
	if err != nil {
		return nil, err
	}
	b, err := json.Marshal(out)
	if err != nil {
		return nil, err
	}
	s := string(b)
	return &s, nil
}
