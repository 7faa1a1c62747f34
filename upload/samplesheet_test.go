package upload

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func writeSheet(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), "sheet.tsv")
	assert.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestReadSamplesheet(t *testing.T) {
	sheet := "Sample Name\tFile\tFile 2\tOrganism\tStrandedness\tPMID\n" +
		"ctrl_1\tctrl_1_R1.fq.gz\tctrl_1_R2.fq.gz\tHomo sapiens\trf\t12345\n" +
		"ctrl_2\tctrl_2_R1.fq.gz\t\t\t\t\n"

	rows, err := ReadSamplesheet(writeSheet(t, sheet))
	assert.NoError(t, err)
	assert.Len(t, rows, 2)

	assert.Equal(t, "ctrl_1", rows[0].Name)
	assert.Equal(t, "ctrl_1_R1.fq.gz", rows[0].Read1)
	assert.Equal(t, "ctrl_1_R2.fq.gz", rows[0].Read2)
	assert.Equal(t, map[string]string{
		"organism":     "Homo sapiens",
		"strandedness": "reverse",
		"pubmed":       "12345",
	}, rows[0].Metadata)

	assert.Equal(t, "ctrl_2", rows[1].Name)
	assert.Empty(t, rows[1].Read2)
	assert.Empty(t, rows[1].Metadata)
}

func TestReadSamplesheetHeadingAliases(t *testing.T) {
	sheet := "Sample Name\tFile\tInstitute\tNotes\n" +
		"s1\ts1.fq.gz\tUCL\tfirst run\n"

	rows, err := ReadSamplesheet(writeSheet(t, sheet))
	assert.NoError(t, err)
	assert.Equal(t, "UCL", rows[0].Metadata["organisation"])
	assert.Equal(t, "first run", rows[0].Metadata["comments"])
}

func TestReadSamplesheetMissingColumns(t *testing.T) {
	_, err := ReadSamplesheet(writeSheet(t, "Sample Name\tOrganism\ns1\tmouse\n"))
	assert.Error(t, err)

	_, err = ReadSamplesheet(writeSheet(t, "File\ns1.fq.gz\n"))
	assert.Error(t, err)
}

func TestReadSamplesheetNoRows(t *testing.T) {
	_, err := ReadSamplesheet(writeSheet(t, "Sample Name\tFile\n"))
	assert.Error(t, err)
}

func TestParseRowSpec(t *testing.T) {
	rows, err := ParseRowSpec("1-3,7,5-6", 10)
	assert.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3, 5, 6, 7}, rows)
}

func TestParseRowSpecClamped(t *testing.T) {
	rows, err := ParseRowSpec("0-2,8-12", 10)
	assert.NoError(t, err)
	assert.Equal(t, []int{1, 2, 8, 9, 10}, rows)

	rows, err = ParseRowSpec("99", 10)
	assert.NoError(t, err)
	assert.Empty(t, rows)
}

func TestParseRowSpecOverlap(t *testing.T) {
	rows, err := ParseRowSpec("1-4,2-3", 10)
	assert.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3, 4}, rows)
}

func TestParseRowSpecInvalid(t *testing.T) {
	_, err := ParseRowSpec("three", 10)
	assert.Error(t, err)

	_, err = ParseRowSpec("1-x", 10)
	assert.Error(t, err)
}
