// Package api contains tests that run against a real backend server.
//
// These tests require the backend server to be running before execution.
//
// Usage:
//
//	# Start the backend server and create a user
//	go run ./cmd/server
//	go run ./cmd/postsctl create-user -name Tester -email tester@example.com -password secret-password
//
//	# Then run the API tests
//	API_EMAIL=tester@example.com API_PASSWORD=secret-password go test -tags=api ./tests/api/... -v
//
// Environment Variables:
//
//	API_BASE_URL - Base URL of the API server (default: http://localhost:8080)
//	API_TOKEN    - Bearer token to use, for example from postsctl issue-token
//	API_EMAIL    - Email exchanged for a token when API_TOKEN is unset
//	API_PASSWORD - Password exchanged for a token when API_TOKEN is unset
package api
