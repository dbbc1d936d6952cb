package parser

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"strings"
)

type xmlText struct {
	Value string `xml:",chardata"`
}

type xmlRun struct {
	T *xmlText `xml:"t"`
}

type xmlStringItem struct {
	T    *xmlText `xml:"t"`
	Runs []xmlRun `xml:"r"`
}

type xmlSST struct {
	Items []xmlStringItem `xml:"si"`
}

// readSharedStrings loads the shared-string table. An absent part is not an
// error and yields an empty table.
func readSharedStrings(zr *zip.Reader) ([]string, error) {
	data, ok, err := readZipFile(zr, SharedStringsPart)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", SharedStringsPart, err)
	}
	if !ok {
		return []string{}, nil
	}
	shared, err := ParseSharedStrings(data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", SharedStringsPart, err)
	}
	return shared, nil
}

// ParseSharedStrings decodes a shared-string part. Each entry is either its
// single text element or, when that is missing or empty, the concatenation
// of its rich-text runs. Phonetic hints are ignored.
func ParseSharedStrings(data []byte) ([]string, error) {
	var sst xmlSST
	if err := xml.Unmarshal(data, &sst); err != nil {
		return nil, err
	}

	result := make([]string, 0, len(sst.Items))
	for _, si := range sst.Items {
		if si.T != nil && si.T.Value != "" {
			result = append(result, si.T.Value)
			continue
		}
		var b strings.Builder
		for _, run := range si.Runs {
			if run.T != nil {
				b.WriteString(run.T.Value)
			}
		}
		result = append(result, b.String())
	}
	return result, nil
}
