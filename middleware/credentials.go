package middleware

import (
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

const (
	usernameKey = "username"
	passwordKey = "password"
)

// Credentials requires HTTP Basic credentials and stores them on the context
// for the handlers. Checking them is left to the services, which apply
// different rules per operation (activation accepts inactive users).
func Credentials() echo.MiddlewareFunc {
	return echomw.BasicAuthWithConfig(echomw.BasicAuthConfig{
		Realm: "gym",
		Validator: func(username, password string, c echo.Context) (bool, error) {
			if username == "" {
				return false, nil
			}
			c.Set(usernameKey, username)
			c.Set(passwordKey, password)
			return true, nil
		},
	})
}

// CredentialsFrom returns the pair stored by Credentials.
func CredentialsFrom(c echo.Context) (username, password string) {
	username, _ = c.Get(usernameKey).(string)
	password, _ = c.Get(passwordKey).(string)
	return username, password
}
