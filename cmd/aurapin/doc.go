// Package main hosts the AuraPin CLI entrypoint and command graph.
//
// The Cobra-based command tree drives the curation pipeline, the review
// queue, publishing, and the posted-product history against a shared sqlite
// store. It centralizes configuration resolution, the instance lock, and
// structured logging setup so subcommands can focus on user experience
// instead of wiring.
//
// Keep this package lean: add new functionality by extending the internal
// packages first, then surface it through dedicated commands or flags here.
package main
