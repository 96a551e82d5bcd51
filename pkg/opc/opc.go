// Package opc writes Open Packaging Conventions containers: the zip layout
// shared by VSDX, DOCX and XLSX files.
//
// A [Package] is an ordered list of parts plus, per source part, a list of
// relationships. [Package.Bytes] emits [Content_Types].xml, every part and
// every _rels/*.rels file into a zip archive whose entries carry a fixed
// modification time, so the same package always yields the same bytes.
//
//	pkg := opc.New()
//	pkg.AddPart("/docProps/app.xml", opc.ContentTypeExtendedProperties, app)
//	pkg.Relate(opc.Root, "/docProps/app.xml", opc.RelTypeExtendedProperties)
//	data, err := pkg.Bytes()
package opc

import (
	"archive/zip"
	"bytes"
	"io"
	"path"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/Mgabr90/bpmn-to-visio/pkg/errors"
)

// Root is the source name for package-level relationships.
const Root = "/"

// Namespaces of the package manifests.
const (
	NSContentTypes  = "http://schemas.openxmlformats.org/package/2006/content-types"
	NSRelationships = "http://schemas.openxmlformats.org/package/2006/relationships"
)

// ContentTypeRelationships and ContentTypeXML are registered as extension
// defaults in every package.
const (
	ContentTypeRelationships = "application/vnd.openxmlformats-package.relationships+xml"
	ContentTypeXML           = "application/xml"
)

// ModTime is stamped on every zip entry.
var ModTime = time.Date(1980, time.January, 1, 0, 0, 0, 0, time.UTC)

// Part is one named payload in the package. Names are absolute, e.g.
// "/visio/pages/page1.xml".
type Part struct {
	Name        string
	ContentType string
	Data        []byte
}

// Relationship links a source part to a target part. Target is the
// absolute part name; it is written relative to the source on output.
type Relationship struct {
	ID     string
	Type   string
	Target string
}

// Package is an in-memory OPC container. The zero value is not usable; call
// [New].
type Package struct {
	parts   []Part
	rels    map[string][]Relationship
	sources []string // relationship sources in first-use order
}

// New returns an empty package.
func New() *Package {
	return &Package{rels: make(map[string][]Relationship)}
}

// AddPart appends a part. Duplicate names are reported by [Package.Validate].
func (p *Package) AddPart(name, contentType string, data []byte) {
	p.parts = append(p.parts, Part{Name: name, ContentType: contentType, Data: data})
}

// Parts returns the parts in insertion order.
func (p *Package) Parts() []Part {
	return slices.Clone(p.parts)
}

// Part returns the part with the given name.
func (p *Package) Part(name string) (Part, bool) {
	for _, pt := range p.parts {
		if pt.Name == name {
			return pt, true
		}
	}
	return Part{}, false
}

// Relate adds a relationship from source (a part name or [Root]) to target
// and returns its ID. IDs are rId1, rId2, ... in order per source.
func (p *Package) Relate(source, target, relType string) string {
	if _, ok := p.rels[source]; !ok {
		p.sources = append(p.sources, source)
	}
	id := "rId" + strconv.Itoa(len(p.rels[source])+1)
	p.rels[source] = append(p.rels[source], Relationship{ID: id, Type: relType, Target: target})
	return id
}

// Relationships returns the relationships whose source is source.
func (p *Package) Relationships(source string) []Relationship {
	return slices.Clone(p.rels[source])
}

// Validate checks the package invariants: unique absolute part names,
// relationship sources and targets that exist, and unique IDs per source.
// A violation is an internal error.
func (p *Package) Validate() error {
	names := make(map[string]bool, len(p.parts))
	for _, pt := range p.parts {
		if !strings.HasPrefix(pt.Name, "/") {
			return errors.New(errors.ErrCodeInternal, "part name %q is not absolute", pt.Name)
		}
		if names[pt.Name] {
			return errors.New(errors.ErrCodeInternal, "duplicate part %s", pt.Name)
		}
		if pt.ContentType == "" {
			return errors.New(errors.ErrCodeInternal, "part %s has no content type", pt.Name)
		}
		names[pt.Name] = true
	}
	for _, src := range p.sources {
		if src != Root && !names[src] {
			return errors.New(errors.ErrCodeInternal, "relationship source %s is not a part", src)
		}
		ids := make(map[string]bool)
		for _, r := range p.rels[src] {
			if ids[r.ID] {
				return errors.New(errors.ErrCodeInternal, "duplicate relationship %s on %s", r.ID, src)
			}
			ids[r.ID] = true
			if !names[r.Target] {
				return errors.New(errors.ErrCodeInternal, "%s %s targets missing part %s", src, r.ID, r.Target)
			}
		}
	}
	return nil
}

// Bytes validates the package and returns it as a zip archive.
func (p *Package) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if _, err := p.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteTo validates the package and writes the zip archive to w.
//
// Entry order is fixed: [Content_Types].xml, the package relationships,
// then each part followed by its own relationships.
func (p *Package) WriteTo(w io.Writer) (int64, error) {
	if err := p.Validate(); err != nil {
		return 0, err
	}
	cw := &countingWriter{w: w}
	zw := zip.NewWriter(cw)

	ct, err := p.contentTypes()
	if err != nil {
		return cw.n, err
	}
	if err := writeEntry(zw, "[Content_Types].xml", ct); err != nil {
		return cw.n, err
	}
	if err := p.writeRels(zw, Root); err != nil {
		return cw.n, err
	}
	for _, pt := range p.parts {
		if err := writeEntry(zw, strings.TrimPrefix(pt.Name, "/"), pt.Data); err != nil {
			return cw.n, err
		}
		if err := p.writeRels(zw, pt.Name); err != nil {
			return cw.n, err
		}
	}
	if err := zw.Close(); err != nil {
		return cw.n, errors.Wrap(errors.ErrCodeInternal, err, "close package")
	}
	return cw.n, nil
}

func (p *Package) contentTypes() ([]byte, error) {
	doc := NewDocument()
	types := doc.CreateElement("Types")
	types.CreateAttr("xmlns", NSContentTypes)

	def := types.CreateElement("Default")
	def.CreateAttr("Extension", "rels")
	def.CreateAttr("ContentType", ContentTypeRelationships)
	def = types.CreateElement("Default")
	def.CreateAttr("Extension", "xml")
	def.CreateAttr("ContentType", ContentTypeXML)

	for _, pt := range p.parts {
		o := types.CreateElement("Override")
		o.CreateAttr("PartName", pt.Name)
		o.CreateAttr("ContentType", pt.ContentType)
	}
	return Marshal(doc)
}

func (p *Package) writeRels(zw *zip.Writer, source string) error {
	rels := p.rels[source]
	if len(rels) == 0 {
		return nil
	}
	doc := NewDocument()
	root := doc.CreateElement("Relationships")
	root.CreateAttr("xmlns", NSRelationships)
	for _, r := range rels {
		el := root.CreateElement("Relationship")
		el.CreateAttr("Id", r.ID)
		el.CreateAttr("Type", r.Type)
		el.CreateAttr("Target", relativeTarget(source, r.Target))
	}
	data, err := Marshal(doc)
	if err != nil {
		return err
	}
	return writeEntry(zw, strings.TrimPrefix(RelsName(source), "/"), data)
}

// RelsName returns the name of the relationships part for source:
// "/_rels/.rels" for the package, "/dir/_rels/name.rels" for a part.
func RelsName(source string) string {
	if source == Root {
		return "/_rels/.rels"
	}
	dir, file := path.Split(source)
	return dir + "_rels/" + file + ".rels"
}

// relativeTarget expresses target relative to the directory of source.
func relativeTarget(source, target string) string {
	if source == Root {
		return strings.TrimPrefix(target, "/")
	}
	from := strings.Split(strings.Trim(path.Dir(source), "/"), "/")
	to := strings.Split(strings.TrimPrefix(target, "/"), "/")
	if from[0] == "" {
		from = nil
	}

	common := 0
	for common < len(from) && common < len(to)-1 && from[common] == to[common] {
		common++
	}
	var parts []string
	for range from[common:] {
		parts = append(parts, "..")
	}
	parts = append(parts, to[common:]...)
	return strings.Join(parts, "/")
}

func writeEntry(zw *zip.Writer, name string, data []byte) error {
	w, err := zw.CreateHeader(&zip.FileHeader{
		Name:     name,
		Method:   zip.Deflate,
		Modified: ModTime,
	})
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "create %s", name)
	}
	if _, err := w.Write(data); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "write %s", name)
	}
	return nil
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(b []byte) (int, error) {
	n, err := c.w.Write(b)
	c.n += int64(n)
	return n, err
}
