// Package common contains shared constants and sentinel errors used across
// the marketplace server components.
package common

// AuthorizationHeaderName is the HTTP header carrying the bearer access token.
const AuthorizationHeaderName = "Authorization"

// BearerPrefix precedes the access token inside the Authorization header.
const BearerPrefix = "Bearer "
