package catalog

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"giftshop.GO/catalog"
)

// filterFromQuery reads a FilterState from query parameters. categories may
// be repeated or comma separated.
func filterFromQuery(c echo.Context) (catalog.FilterState, error) {
	f := catalog.FilterState{
		Query:        c.QueryParam("query"),
		CollectionID: c.QueryParam("collection_id"),
		RecipientID:  c.QueryParam("recipient_id"),
		Sort:         catalog.SortKey(c.QueryParam("sort")),
	}
	if f.Query == "" {
		f.Query = c.QueryParam("q")
	}
	for _, v := range c.QueryParams()["categories"] {
		for _, cat := range strings.Split(v, ",") {
			if cat = strings.TrimSpace(cat); cat != "" {
				f.Categories = append(f.Categories, cat)
			}
		}
	}

	var err error
	if f.MinPrice, err = moneyParam(c, "min_price"); err != nil {
		return f, err
	}
	if f.MaxPrice, err = moneyParam(c, "max_price"); err != nil {
		return f, err
	}
	if f.MinDiscount, err = percentParam(c, "min_discount"); err != nil {
		return f, err
	}
	if f.MaxDiscount, err = percentParam(c, "max_discount"); err != nil {
		return f, err
	}
	return f, nil
}

func moneyParam(c echo.Context, name string) (*catalog.Money, error) {
	v := c.QueryParam(name)
	if v == "" {
		return nil, nil
	}
	fv, err := strconv.ParseFloat(v, 64)
	if err != nil || fv < 0 {
		return nil, fmt.Errorf("invalid %s %q", name, v)
	}
	m := catalog.FromFloat(fv)
	return &m, nil
}

func percentParam(c echo.Context, name string) (*int, error) {
	v := c.QueryParam(name)
	if v == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 || n > 100 {
		return nil, fmt.Errorf("invalid %s %q", name, v)
	}
	return &n, nil
}

// intParam returns def when the parameter is absent.
func intParam(c echo.Context, name string, def int) (int, error) {
	v := c.QueryParam(name)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid %s %q", name, v)
	}
	return n, nil
}
