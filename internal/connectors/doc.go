// Package connectors holds sources that feed documents into the store
// from outside the upload path. The filesystem subpackage watches a local
// inbox folder.
package connectors
