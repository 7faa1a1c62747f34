package upload

import (
	"encoding/csv"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Row is one record of an upload samplesheet: a sample name, one or two read
// files and the metadata fields the sheet supplied for it.
type Row struct {
	Name  string
	Read1 string
	Read2 string
	// Metadata holds the Flow field name (camelCase) to value mapping built
	// from the sheet's columns.
	Metadata map[string]string
}

// columnAliases maps samplesheet column headings to the Flow metadata fields
// they populate.  Sheets come from several labs, so common variants of each
// heading are accepted.
var columnAliases = map[string]string{
	"Organism":                       "organism",
	"Cell or Tissue":                 "source",
	"Source":                         "source",
	"Condition":                      "condition",
	"Sequencer":                      "sequencer",
	"Scientist":                      "scientist",
	"PI":                             "pi",
	"Organisation":                   "organisation",
	"Organization":                   "organisation",
	"Institute":                      "organisation",
	"Purification Agent":             "purificationAgent",
	"Protein (Purification Target)":  "purificationTarget",
	"Purification Target Annotation": "purificationTargetText",
	"Experimental Method":            "experimentalMethod",
	"5' Barcode Sequence":            "fivePrimeBarcodeSequence",
	"3' Barcode Sequence":            "threePrimeBarcodeSequence",
	"3' Adapter Name":                "threePrimeAdapterName",
	"3' Adapter Sequence":            "threePrimeAdapterSequence",
	"RT Primer":                      "rtPrimer",
	"Read 1 Primer":                  "read1Primer",
	"Read 2 Primer":                  "read2Primer",
	"UMI Barcode Sequence":           "umiBarcodeSequence",
	"UMI Separator":                  "umiSeparator",
	"Strandedness":                   "strandedness",
	"RNA Selection Method":           "rnaSelectionMethod",
	"GEO":                            "geo",
	"GEO ID":                         "geo",
	"ENA":                            "ena",
	"ENA ID":                         "ena",
	"PubMed ID":                      "pubmed",
	"PMID":                           "pubmed",
	"Comments":                       "comments",
	"Notes":                          "comments",
}

// strandednessAliases normalizes the controlled vocabulary for strandedness.
var strandednessAliases = map[string]string{
	"rf": "reverse",
	"fr": "forward",
}

// ReadSamplesheet parses a tab-separated samplesheet.  The first row is the
// header; "Sample Name" and "File" are required columns, "File 2" carries an
// optional paired read, and every aliased column feeds the row's metadata.
func ReadSamplesheet(path string) ([]Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open samplesheet %s", path)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.Comma = '\t'
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse samplesheet %s", path)
	}
	if len(records) < 2 {
		return nil, errors.Errorf("samplesheet %s has no data rows", path)
	}

	header := records[0]
	columns := map[string]int{}
	for i, name := range header {
		columns[strings.TrimSpace(name)] = i
	}
	if _, ok := columns["Sample Name"]; !ok {
		return nil, errors.Errorf("samplesheet %s is missing a 'Sample Name' column", path)
	}
	if _, ok := columns["File"]; !ok {
		return nil, errors.Errorf("samplesheet %s is missing a 'File' column", path)
	}

	cell := func(record []string, column string) string {
		idx, ok := columns[column]
		if !ok || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	rows := make([]Row, 0, len(records)-1)
	for _, record := range records[1:] {
		row := Row{
			Name:     cell(record, "Sample Name"),
			Read1:    cell(record, "File"),
			Read2:    cell(record, "File 2"),
			Metadata: map[string]string{},
		}
		for column, field := range columnAliases {
			value := cell(record, column)
			if value == "" {
				continue
			}
			if field == "strandedness" {
				lowered := strings.ToLower(value)
				if alias, ok := strandednessAliases[lowered]; ok {
					value = alias
				} else {
					value = lowered
				}
			}
			row.Metadata[field] = value
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// ParseRowSpec expands a 1-based row specification like "1-10,15,22-24" into
// sorted row indices, clamped to the sheet's size.
func ParseRowSpec(spec string, nrows int) ([]int, error) {
	selected := map[int]bool{}
	for _, part := range strings.Split(spec, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if a, b, found := strings.Cut(part, "-"); found {
			lo, err := strconv.Atoi(strings.TrimSpace(a))
			if err != nil {
				return nil, errors.Errorf("invalid row range %q", part)
			}
			hi, err := strconv.Atoi(strings.TrimSpace(b))
			if err != nil {
				return nil, errors.Errorf("invalid row range %q", part)
			}
			if lo < 1 {
				lo = 1
			}
			if hi > nrows {
				hi = nrows
			}
			for i := lo; i <= hi; i++ {
				selected[i] = true
			}
			continue
		}
		i, err := strconv.Atoi(part)
		if err != nil {
			return nil, errors.Errorf("invalid row number %q", part)
		}
		if i >= 1 && i <= nrows {
			selected[i] = true
		}
	}

	out := make([]int, 0, len(selected))
	for i := range selected {
		out = append(out, i)
	}
	sort.Ints(out)
	return out, nil
}
