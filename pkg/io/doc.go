// Package io reads and writes expedition documents as JSON.
//
// # Overview
//
// A document is one wire tree (see [wire]) produced by [codec.DeflateObject]
// from a root object. On disk it is UTF-8 JSON indented with two spaces:
//
//	{
//	  "type": "Expedition",
//	  "fields": {
//	    "name": "Health",
//	    "mountains": [...]
//	  }
//	}
//
// Object keys keep their document order, so a document that is read and
// written again without changes is byte-identical.
//
// # Import
//
// Use [ImportJSON] to read a document from a file path, or [ReadJSON] to
// read from any io.Reader. Both inflate into the root type given by the
// caller:
//
//	exp, err := io.ImportJSON("health.json", expedition.ExpeditionType)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Invalid JSON is reported as MALFORMED_DOCUMENT; every other document error
// comes from the codec with the wire path of the offending node.
//
// # Export
//
// Use [ExportJSON] to write a document to a file, or [WriteJSON] to write to
// any io.Writer. ExportJSON creates missing parent directories.
//
// [Marshal] and [Unmarshal] are the byte-slice forms used by the stores.
//
// # Concurrency
//
// The functions are safe to call concurrently on different documents. A
// graph must not be modified while it is being written.
package io
