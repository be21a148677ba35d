// Package images prepares product images for posting: download, centered
// crop to the 2:3 pin aspect ratio, and JPEG encoding to local artifacts.
// Failures are per-item and never abort a curation run.
package images
