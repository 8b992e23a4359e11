// Package driving declares what the command line can ask of the core:
// one interface per pipeline stage (extract, structure, index, retrieve,
// build the guide, solve) plus settings resolution.
//
// internal/core/services provides the implementations; the cli adapter
// depends only on these interfaces.
package driving
