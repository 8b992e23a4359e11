// Package normalisers holds parsers that turn pre-processed source
// material into domain pages. The vision subpackage reads the markdown
// produced by the upstream page-vision step.
package normalisers
