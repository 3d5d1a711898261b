// Package services implements the driving ports: document ingestion,
// role-filtered search, settings and the inbox watcher. They depend only
// on driven ports, so the store, embedder and extractors are swappable.
package services
