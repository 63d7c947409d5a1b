// Package utils provides common utility functions for the cardcommand service.
// It includes helpers for parsing backend timestamps, rendering optional values
// and other shared logic that doesn't fit into domain-specific packages.
package utils
