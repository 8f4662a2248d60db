// Package auth provides HTTP middleware enforcing API key authentication on
// incoming requests. When no key is configured the middleware is a
// pass-through.
package auth
