// Package parser reads xlsx archives directly: the workbook manifest, shared
// strings and worksheet cells, objectified against the header row.
package parser

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
)

// Well-known archive parts.
const (
	WorkbookPart      = "xl/workbook.xml"
	WorkbookRelsPart  = "xl/_rels/workbook.xml.rels"
	SharedStringsPart = "xl/sharedStrings.xml"
	// DefaultSheetPart is used when the first sheet's relationship cannot be resolved.
	DefaultSheetPart = "xl/worksheets/sheet1.xml"
)

// ErrMissingPart indicates a required archive part is absent.
var ErrMissingPart = errors.New("missing archive part")

// SheetRef is a sheet declared in the workbook manifest.
type SheetRef struct {
	// Name is the sheet name.
	Name string
	// RelID is the relationship id pointing at the sheet part.
	RelID string
	// Path is the resolved archive path of the worksheet part.
	Path string
	// Resolved is false when Path is the conventional default.
	Resolved bool
}

// Container is an opened spreadsheet archive with its manifest already read.
type Container struct {
	zr     *zip.Reader
	closer io.Closer
	sheets []SheetRef
	shared []string
}

// Open opens the spreadsheet archive at path.
func Open(path string) (*Container, error) {
	rc, err := zip.OpenReader(path)
	if err != nil {
		return nil, err
	}
	c, err := newContainer(&rc.Reader, rc)
	if err != nil {
		rc.Close()
		return nil, err
	}
	return c, nil
}

// NewContainer reads a spreadsheet archive from memory.
func NewContainer(data []byte) (*Container, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, err
	}
	return newContainer(zr, nil)
}

func newContainer(zr *zip.Reader, closer io.Closer) (*Container, error) {
	workbookXML, ok, err := readZipFile(zr, WorkbookPart)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", WorkbookPart, err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMissingPart, WorkbookPart)
	}
	declared, err := parseWorkbookSheets(workbookXML)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", WorkbookPart, err)
	}

	// A missing relationship part leaves every sheet on the default path.
	targets := map[string]string{}
	relsXML, ok, err := readZipFile(zr, WorkbookRelsPart)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", WorkbookRelsPart, err)
	}
	if ok {
		targets, err = parseWorkbookRels(relsXML)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", WorkbookRelsPart, err)
		}
	}

	sheets := make([]SheetRef, 0, len(declared))
	for _, s := range declared {
		if target := targets[s.RelID]; target != "" {
			s.Path = resolveRelativePath(target, "xl")
			s.Resolved = true
		} else {
			s.Path = DefaultSheetPart
		}
		sheets = append(sheets, s)
	}

	shared, err := readSharedStrings(zr)
	if err != nil {
		return nil, err
	}

	return &Container{zr: zr, closer: closer, sheets: sheets, shared: shared}, nil
}

// Close releases the underlying file, if any.
func (c *Container) Close() error {
	if c.closer != nil {
		return c.closer.Close()
	}
	return nil
}

// Sheets returns every declared sheet in workbook order.
func (c *Container) Sheets() []SheetRef {
	out := make([]SheetRef, len(c.sheets))
	copy(out, c.sheets)
	return out
}

// FirstSheet returns the first declared sheet. A workbook that declares no
// sheets yields the conventional default part.
func (c *Container) FirstSheet() SheetRef {
	if len(c.sheets) == 0 {
		return SheetRef{Path: DefaultSheetPart}
	}
	return c.sheets[0]
}

// SharedStrings returns the shared-string table (empty when the part is absent).
func (c *Container) SharedStrings() []string {
	return c.shared
}

// ReadPart returns the raw bytes of an archive part.
func (c *Container) ReadPart(name string) ([]byte, error) {
	data, ok, err := readZipFile(c.zr, name)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMissingPart, name)
	}
	return data, nil
}

// ReadSheet decodes the given sheet into rows.
func (c *Container) ReadSheet(ref SheetRef) (*Worksheet, error) {
	data, err := c.ReadPart(ref.Path)
	if err != nil {
		return nil, err
	}
	ws, err := DecodeWorksheet(data, c.shared)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", ref.Path, err)
	}
	return ws, nil
}

// readZipFile returns the content of a named part and whether it exists.
func readZipFile(r *zip.Reader, name string) ([]byte, bool, error) {
	for _, f := range r.File {
		if f.Name == name {
			rc, err := f.Open()
			if err != nil {
				return nil, true, err
			}
			defer rc.Close()
			data, err := io.ReadAll(rc)
			return data, true, err
		}
	}
	return nil, false, nil
}

// resolveRelativePath resolves a relationship target against the directory
// holding the relationship's source part.
func resolveRelativePath(target, baseDir string) string {
	target = strings.ReplaceAll(target, "\\", "/")
	if strings.HasPrefix(target, "/") {
		// Absolute targets are relative to the package root.
		return path.Clean(strings.TrimPrefix(target, "/"))
	}
	if strings.HasPrefix(target, baseDir+"/") {
		return path.Clean(target)
	}
	return path.Join(baseDir, target)
}

// parseWorkbookSheets returns the declared sheets in document order.
func parseWorkbookSheets(data []byte) ([]SheetRef, error) {
	var result []SheetRef
	decoder := xml.NewDecoder(bytes.NewReader(data))

	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if se, ok := token.(xml.StartElement); ok && se.Name.Local == "sheet" {
			var ref SheetRef
			for _, attr := range se.Attr {
				switch attr.Name.Local {
				case "name":
					ref.Name = attr.Value
				case "id":
					ref.RelID = attr.Value
				}
			}
			result = append(result, ref)
		}
	}

	return result, nil
}

// parseWorkbookRels maps relationship ids to their targets.
func parseWorkbookRels(data []byte) (map[string]string, error) {
	result := make(map[string]string)
	decoder := xml.NewDecoder(bytes.NewReader(data))

	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if se, ok := token.(xml.StartElement); ok && se.Name.Local == "Relationship" {
			var rID, target string
			for _, attr := range se.Attr {
				switch attr.Name.Local {
				case "Id":
					rID = attr.Value
				case "Target":
					target = attr.Value
				}
			}
			if rID != "" {
				result[rID] = target
			}
		}
	}

	return result, nil
}
