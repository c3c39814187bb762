// Package websearch defines the external search adapter used when local
// retrieval is not confident enough. Two implementations are provided: an
// HTTP adapter for JSON search APIs and an offline adapter that fabricates
// deterministic results for development and tests.
package websearch
