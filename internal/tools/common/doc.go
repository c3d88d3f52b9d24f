// Package common provides shared utilities for MCP tool implementations.
// It contains the provider argument resolution and the instrumentation
// wrappers used across all tool packages to ensure consistent behavior.
package common
