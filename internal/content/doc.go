// Package content generates pin descriptions for products through two
// interchangeable strategies: a deterministic template and a model-assisted
// variant that degrades to the template on any service failure. Hashtag
// sampling and the verbatim affiliate disclaimer are shared by both.
package content
