// Package ciutil detects the environment the launcher runs in: CI systems
// and terminals that asked for uncolored output.
package ciutil
