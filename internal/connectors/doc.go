// Package connectors provides the connector factory and registers the
// built-in record sources. Each connector knows how to list and fetch
// records from one source type (see the moel subpackage).
//
// Connectors are registered with the Factory at startup.
package connectors
