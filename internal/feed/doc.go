// Package feed fetches an AWIN-style affiliate product feed over HTTP and
// parses it lazily into normalized products. It is the only adapter that
// knows about wire formats (CSV with sniffed delimiter, or a JSON array);
// the rest of the pipeline depends solely on the Product shape.
package feed
