package auth

import (
	"crypto/subtle"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"giftshop.GO/config"
)

// Middleware returns the auth middleware selected by cfg.AuthType ("key" or
// "basic"). Paths from config.GetAuthSkipperPaths stay public. Without
// configured credentials every protected request is rejected.
func Middleware(cfg *config.Config) echo.MiddlewareFunc {
	skipper := buildSkipper()
	switch cfg.AuthType {
	case "key":
		return keyAuth(cfg.APIKey, skipper)
	default:
		return basicAuth(cfg.APIUser, cfg.APIPass, skipper)
	}
}

func buildSkipper() middleware.Skipper {
	skipPaths := config.GetAuthSkipperPaths()
	return func(c echo.Context) bool {
		path := c.Path()
		for _, skip := range skipPaths {
			if path == skip {
				return true
			}
		}
		return false
	}
}

func basicAuth(user, pass string, skipper middleware.Skipper) echo.MiddlewareFunc {
	return middleware.BasicAuthWithConfig(middleware.BasicAuthConfig{
		Validator: func(username, password string, c echo.Context) (bool, error) {
			if user == "" || pass == "" {
				return false, nil
			}
			return equal(username, user) && equal(password, pass), nil
		},
		Skipper: skipper,
	})
}

func keyAuth(apiKey string, skipper middleware.Skipper) echo.MiddlewareFunc {
	return middleware.KeyAuthWithConfig(middleware.KeyAuthConfig{
		Validator: func(key string, c echo.Context) (bool, error) {
			if apiKey == "" {
				return false, nil
			}
			return equal(key, apiKey), nil
		},
		Skipper: skipper,
	})
}

func equal(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
