// Package fwevt decodes the two binary formats produced by the Windows
// event tracing subsystem: WEVT_TEMPLATE manifests embedded in PE resource
// sections, and the Binary XML substream carried by Windows Event Log
// (EVTX) records.
//
// # Core Features
//
//   - Trust-nothing manifest parsing: every offset, count, and length in
//     the input is validated before use
//   - Recursive binary-XML evaluation with independent bounds on element
//     nesting, template-instance nesting, and value-array expansion
//   - Template-value substitution, including nested binary XML, entity
//     references, character references, and array-typed values
//   - Deterministic UTF-8 / UTF-16 rendering of evaluated documents
//   - Optional compressed caching of rendered documents
//
// # Basic Usage
//
// Decoding a manifest:
//
//	import "github.com/libyal/libfwevt-sub000"
//
//	m, err := fwevt.ParseManifest(resourceData)
//	if err != nil {
//	    return err
//	}
//	for _, provider := range m.Providers {
//	    fmt.Println(provider.GUID, len(provider.Events))
//	}
//
// Evaluating a binary-XML record body:
//
//	doc, err := fwevt.ReadXMLDocument(recordData, 0, format.FlagHasDataOffsets)
//	if err != nil {
//	    return err
//	}
//	fmt.Println(string(doc.UTF8XML()))
//
// # Package Structure
//
// This package provides convenient top-level wrappers around the manifest
// and bxml packages, which can be used directly for fine-grained control.
package fwevt

import (
	"github.com/libyal/libfwevt-sub000/bxml"
	"github.com/libyal/libfwevt-sub000/format"
	"github.com/libyal/libfwevt-sub000/manifest"
)

// templateHeaderSize is the fixed TEMP record header preceding a template's
// binary-XML body.
const templateHeaderSize = 40

// ParseManifest decodes a WEVT_TEMPLATE manifest from data.
func ParseManifest(data []byte, opts ...manifest.ParseOption) (manifest.Manifest, error) {
	return manifest.Parse(data, opts...)
}

// ReadXMLDocument evaluates the binary-XML stream in data starting at
// offset.
func ReadXMLDocument(data []byte, offset int, flags format.EvaluatorFlag, opts ...bxml.ReadOption) (*bxml.Document, error) {
	return bxml.Read(data, offset, flags, opts...)
}

// ReadXMLDocumentWithTemplateValues evaluates the binary-XML stream in data
// starting at offset, binding substitution tokens against values.
func ReadXMLDocumentWithTemplateValues(data []byte, offset int, flags format.EvaluatorFlag, values []bxml.TemplateValue, opts ...bxml.ReadOption) (*bxml.Document, error) {
	return bxml.ReadWithTemplateValues(data, offset, flags, values, opts...)
}

// EvaluateTemplate evaluates the binary-XML body of a manifest template.
// manifestData must be the same buffer the template was parsed from, since
// offsets inside a template body are absolute within the whole manifest.
// WEVT template bodies carry name offsets and dependency identifiers.
func EvaluateTemplate(manifestData []byte, tmpl manifest.Template, opts ...bxml.ReadOption) (*bxml.Document, error) {
	flags := format.FlagHasDataOffsets | format.FlagHasDependencyIdentifiers

	return bxml.Read(manifestData, tmpl.Offset+templateHeaderSize, flags, opts...)
}
