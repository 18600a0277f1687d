// Package mocks provides mock implementations of the authentication ports.
//
// This package uses go.uber.org/mock (gomock) to generate type-safe mocks for our port interfaces.
// The mocks are generated using go:generate directives and provide a fluent API for setting up test expectations.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	userInfo := mocks.NewMockUserInfoSource(ctrl)
//	userInfo.EXPECT().GetAuthInfo(gomock.Any()).Return(user, nil)
package mocks

// Generate mock for UserInfoSource interface from internal/ports package.
// This creates MockUserInfoSource with methods for all UserInfoSource interface methods:
// GetAuthInfo
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=user_info_source_mock.go github.com/orc-hfg/uploader/internal/ports UserInfoSource

// Generate mock for HTTPDoer interface from internal/ports package.
// This creates MockHTTPDoer with methods for all HTTPDoer interface methods:
// Do
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=http_doer_mock.go github.com/orc-hfg/uploader/internal/ports HTTPDoer

// Generate mock for ValidationCache interface from internal/ports package.
// This creates MockValidationCache with methods for all ValidationCache interface methods:
// Lookup, Store, Delete
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=validation_cache_mock.go github.com/orc-hfg/uploader/internal/ports ValidationCache

// Generate mock for AuthenticationChecker interface from internal/ports package.
// This creates MockAuthenticationChecker with methods for all AuthenticationChecker interface methods:
// IsAuthenticated
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=authentication_checker_mock.go github.com/orc-hfg/uploader/internal/ports AuthenticationChecker
