// Package cmd implements the command-line interface for the chunkDB storage
// engine. It provides a hierarchical command structure for benchmarking chunk
// maps and exploring the library interactively.
//
// The package is organized into several subpackages:
//
//   - bench: Operation benchmarks against a configurable chunk map
//   - demo: A guided walkthrough that builds a small voxel world
//   - util: Shared utilities for command-line processing and configuration (internal use)
//
// See chunkdb -help for a list of all commands.
package cmd
