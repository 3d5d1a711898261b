// Package normalisers turns uploaded file bytes into plain text.
//
// Each format lives in its own subpackage (pdf, docx). The Registry picks
// one by file extension; RegisterDefaults wires the built-in formats.
package normalisers
