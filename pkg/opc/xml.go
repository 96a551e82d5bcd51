package opc

import (
	"github.com/beevik/etree"

	"github.com/Mgabr90/bpmn-to-visio/pkg/errors"
)

// Document property parts common to every Office package.
const (
	ContentTypeExtendedProperties = "application/vnd.openxmlformats-officedocument.extended-properties+xml"
	ContentTypeCoreProperties     = "application/vnd.openxmlformats-package.core-properties+xml"

	RelTypeExtendedProperties = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/extended-properties"
	RelTypeCoreProperties     = "http://schemas.openxmlformats.org/package/2006/relationships/metadata/core-properties"

	NSExtendedProperties = "http://schemas.openxmlformats.org/officeDocument/2006/extended-properties"
	NSCoreProperties     = "http://schemas.openxmlformats.org/package/2006/metadata/core-properties"
	NSDublinCore         = "http://purl.org/dc/elements/1.1/"
)

// NewDocument returns an empty XML document with the standalone
// declaration Office parts carry.
func NewDocument() *etree.Document {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8" standalone="yes"`)
	return doc
}

// Marshal serializes doc without indentation.
func Marshal(doc *etree.Document) ([]byte, error) {
	data, err := doc.WriteToBytes()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "serialize xml")
	}
	return data, nil
}

// AppProperties returns docProps/app.xml naming the producing application.
func AppProperties(application string) ([]byte, error) {
	doc := NewDocument()
	props := doc.CreateElement("Properties")
	props.CreateAttr("xmlns", NSExtendedProperties)
	props.CreateElement("Application").SetText(application)
	return Marshal(doc)
}

// CoreProperties returns docProps/core.xml with a title and creator. No
// timestamps are written so output stays reproducible.
func CoreProperties(title, creator string) ([]byte, error) {
	doc := NewDocument()
	props := doc.CreateElement("cp:coreProperties")
	props.CreateAttr("xmlns:cp", NSCoreProperties)
	props.CreateAttr("xmlns:dc", NSDublinCore)
	if title != "" {
		props.CreateElement("dc:title").SetText(title)
	}
	if creator != "" {
		props.CreateElement("dc:creator").SetText(creator)
	}
	return Marshal(doc)
}
