// Package custom shows how extensions plug into the service. Everything is
// registered from init; the main packages import it for side effects.
package custom

import (
	"context"
	"fmt"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/spf13/cobra"

	"giftshop.GO/api"
	"giftshop.GO/catalog"
	"giftshop.GO/cmd"
	"giftshop.GO/cron"
	gqlregistry "giftshop.GO/graphql/registry"
)

func init() {
	// GraphQL extensions, reachable as _extension(name: "...")
	gqlregistry.Register("ping", func(ctx context.Context, args map[string]interface{}) (interface{}, error) {
		return map[string]string{"pong": "ok"}, nil
	})
	gqlregistry.Register("sortKeys", func(ctx context.Context, args map[string]interface{}) (interface{}, error) {
		return sortKeys(), nil
	})

	// CLI command
	cmd.Register(&cobra.Command{
		Use:   "custom:sorts",
		Short: "List the sort keys the feeds accept",
		Run: func(c *cobra.Command, args []string) {
			for _, k := range sortKeys() {
				fmt.Fprintln(c.OutOrStdout(), k)
			}
		},
	})

	// Cron job
	cron.Register("heartbeat", "@hourly", func(args ...string) {
		fmt.Println("giftshop heartbeat at", time.Now().Format(time.RFC3339))
	})

	// HTTP route
	api.RegisterGET("/custom/ping", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"pong": "ok"})
	})
}

func sortKeys() []string {
	keys := catalog.ValidSortKeys()
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = string(k)
	}
	return out
}
