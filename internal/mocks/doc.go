// Package mocks provides test doubles shared by the handler and launcher
// tests.
package mocks
