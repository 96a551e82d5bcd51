package opc

import (
	"archive/zip"
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/beevik/etree"
	"github.com/google/go-cmp/cmp"

	"github.com/Mgabr90/bpmn-to-visio/pkg/errors"
)

func samplePackage() *Package {
	p := New()
	p.AddPart("/visio/document.xml", "application/vnd.ms-visio.drawing.main+xml", []byte("<VisioDocument/>"))
	p.AddPart("/visio/pages/pages.xml", "application/vnd.ms-visio.pages+xml", []byte("<Pages/>"))
	p.AddPart("/visio/pages/page1.xml", "application/vnd.ms-visio.page+xml", []byte("<PageContents/>"))
	p.AddPart("/visio/masters/master1.xml", "application/vnd.ms-visio.master+xml", []byte("<MasterContents/>"))
	p.Relate(Root, "/visio/document.xml", "doc")
	p.Relate("/visio/document.xml", "/visio/pages/pages.xml", "pages")
	p.Relate("/visio/pages/pages.xml", "/visio/pages/page1.xml", "page")
	p.Relate("/visio/pages/page1.xml", "/visio/masters/master1.xml", "master")
	return p
}

func readZip(t *testing.T, data []byte) map[string]string {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("zip.NewReader() error: %v", err)
	}
	out := make(map[string]string)
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("Open(%s) error: %v", f.Name, err)
		}
		b, _ := io.ReadAll(rc)
		rc.Close()
		out[f.Name] = string(b)
	}
	return out
}

func TestRelateAllocatesPerSource(t *testing.T) {
	p := New()
	p.AddPart("/a.xml", "a", nil)
	p.AddPart("/b.xml", "b", nil)

	got := []string{
		p.Relate(Root, "/a.xml", "t"),
		p.Relate(Root, "/b.xml", "t"),
		p.Relate("/a.xml", "/b.xml", "t"),
	}
	want := []string{"rId1", "rId2", "rId1"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Relate() ids mismatch (-want +got):\n%s", diff)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name  string
		build func() *Package
		ok    bool
	}{
		{"valid", samplePackage, true},
		{"duplicate part", func() *Package {
			p := samplePackage()
			p.AddPart("/visio/pages/page1.xml", "x", nil)
			return p
		}, false},
		{"missing target", func() *Package {
			p := samplePackage()
			p.Relate("/visio/pages/page1.xml", "/visio/masters/master2.xml", "master")
			return p
		}, false},
		{"missing source", func() *Package {
			p := samplePackage()
			p.Relate("/visio/windows.xml", "/visio/document.xml", "x")
			return p
		}, false},
		{"relative name", func() *Package {
			p := New()
			p.AddPart("visio/document.xml", "x", nil)
			return p
		}, false},
		{"no content type", func() *Package {
			p := New()
			p.AddPart("/a.xml", "", nil)
			return p
		}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.build().Validate()
			if tt.ok && err != nil {
				t.Fatalf("Validate() error: %v", err)
			}
			if !tt.ok && !errors.IsInternal(err) {
				t.Errorf("Validate() = %v, want internal error", err)
			}
		})
	}
}

func TestBytesLayout(t *testing.T) {
	data, err := samplePackage().Bytes()
	if err != nil {
		t.Fatalf("Bytes() error: %v", err)
	}
	files := readZip(t, data)

	for _, name := range []string{
		"[Content_Types].xml",
		"_rels/.rels",
		"visio/document.xml",
		"visio/_rels/document.xml.rels",
		"visio/pages/pages.xml",
		"visio/pages/_rels/pages.xml.rels",
		"visio/pages/page1.xml",
		"visio/pages/_rels/page1.xml.rels",
		"visio/masters/master1.xml",
	} {
		if _, ok := files[name]; !ok {
			t.Errorf("missing zip entry %s", name)
		}
	}

	doc := etree.NewDocument()
	if err := doc.ReadFromString(files["[Content_Types].xml"]); err != nil {
		t.Fatalf("content types: %v", err)
	}
	if n := len(doc.FindElements("//Override")); n != 4 {
		t.Errorf("Override count = %d, want 4", n)
	}

	if !strings.Contains(files["visio/pages/_rels/page1.xml.rels"], `Target="../masters/master1.xml"`) {
		t.Errorf("page1 rels = %s, want relative master target", files["visio/pages/_rels/page1.xml.rels"])
	}
	if !strings.Contains(files["_rels/.rels"], `Target="visio/document.xml"`) {
		t.Errorf("root rels = %s", files["_rels/.rels"])
	}
}

func TestBytesDeterministic(t *testing.T) {
	a, err := samplePackage().Bytes()
	if err != nil {
		t.Fatal(err)
	}
	b, err := samplePackage().Bytes()
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(a, b) {
		t.Error("Bytes() differs between identical packages")
	}
}

func TestBytesRejectsInvalid(t *testing.T) {
	p := samplePackage()
	p.AddPart("/visio/document.xml", "x", nil)
	if _, err := p.Bytes(); !errors.IsInternal(err) {
		t.Errorf("Bytes() error = %v, want internal error", err)
	}
}

func TestRelsName(t *testing.T) {
	tests := []struct {
		source string
		want   string
	}{
		{Root, "/_rels/.rels"},
		{"/visio/document.xml", "/visio/_rels/document.xml.rels"},
		{"/visio/pages/page1.xml", "/visio/pages/_rels/page1.xml.rels"},
	}
	for _, tt := range tests {
		if got := RelsName(tt.source); got != tt.want {
			t.Errorf("RelsName(%q) = %q, want %q", tt.source, got, tt.want)
		}
	}
}

func TestRelativeTarget(t *testing.T) {
	tests := []struct {
		source, target, want string
	}{
		{Root, "/visio/document.xml", "visio/document.xml"},
		{"/visio/document.xml", "/visio/pages/pages.xml", "pages/pages.xml"},
		{"/visio/pages/pages.xml", "/visio/pages/page1.xml", "page1.xml"},
		{"/visio/pages/page1.xml", "/visio/masters/master1.xml", "../masters/master1.xml"},
		{"/visio/document.xml", "/docProps/app.xml", "../docProps/app.xml"},
	}
	for _, tt := range tests {
		if got := relativeTarget(tt.source, tt.target); got != tt.want {
			t.Errorf("relativeTarget(%q, %q) = %q, want %q", tt.source, tt.target, got, tt.want)
		}
	}
}

func TestCoreProperties(t *testing.T) {
	data, err := CoreProperties("Order & Ship", "")
	if err != nil {
		t.Fatal(err)
	}
	s := string(data)
	if !strings.Contains(s, "<dc:title>Order &amp; Ship</dc:title>") {
		t.Errorf("CoreProperties() = %s", s)
	}
	if strings.Contains(s, "creator") || strings.Contains(s, "dcterms") {
		t.Errorf("CoreProperties() = %s, want no creator or timestamps", s)
	}
}
