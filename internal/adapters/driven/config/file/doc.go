// Package file persists the client configuration as TOML under the
// docchat config directory (~/.docchat by default).
package file
