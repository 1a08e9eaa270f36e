// Package google provides shared infrastructure for Google Cloud API clients.
//
// This package contains common utilities used by the vision client:
//   - Credential resolution (service-account file or application default
//     credentials) producing an oauth2.TokenSource
//   - Service factories for creating Google API clients
//   - Error handling for common Google API errors (400, 401, 403, 429, 5xx)
//   - Rate limiting to respect Google API quotas
//
// # Usage
//
//	ts, err := google.NewTokenSource(ctx, credentialsFile)
//	svc, err := google.NewVisionService(ctx, ts)
//
// # OAuth2 Scopes
//
// The vision client requests https://www.googleapis.com/auth/cloud-platform.
// API-key access bypasses OAuth entirely and is handled by the REST transport.
package google
