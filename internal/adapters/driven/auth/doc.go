// Package auth provides the file-backed session provider. Credentials
// live in a TOML file under the docchat config directory; the provider
// surfaces sign-in and sign-out as session change events.
package auth
