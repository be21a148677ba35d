// Package curation orchestrates one batch run: it streams the affiliate
// feed, filters products that were already posted, generates pin content,
// prepares images, and persists pending candidates for human review.
package curation
