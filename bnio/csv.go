// Package bnio loads a tabular categorical dataset from CSV. It is a thin
// external collaborator around dataset.Dataset: CSV parsing and file I/O
// are not part of the probabilistic core.
package bnio

import (
	"encoding/csv"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/traditionalchinese"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/mwinters-dev/bnlearn/dataset"
)

// Load reads a CSV file with a header row into a Dataset. All columns are
// treated as categorical strings; there is no support for missing values.
// encoding selects a transcoding step applied before the CSV reader sees
// the bytes; pass "" or "utf-8" for the common case of a UTF-8 file.
func Load(path, encoding string) (*dataset.Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "bnio: open %s", path)
	}
	defer f.Close()

	reader, err := decodingReader(f, encoding)
	if err != nil {
		return nil, err
	}

	cr := csv.NewReader(reader)
	records, err := cr.ReadAll()
	if err != nil {
		return nil, errors.Wrapf(err, "bnio: parse %s", path)
	}
	if len(records) == 0 {
		return nil, errors.Errorf("bnio: %s has no header row", path)
	}

	header := records[0]
	rows := records[1:]
	ds, err := dataset.New(header, rows)
	if err != nil {
		return nil, errors.Wrapf(err, "bnio: building dataset from %s", path)
	}
	return ds, nil
}

// decodingReader wraps r with a transcoding reader for the named encoding,
// mirroring the encoding-detection pattern used for ingesting non-UTF-8
// CSV exports: big5, gb18030 (simplified Chinese), and utf-16 are
// recognized; "", "utf-8" and "utf8" pass through unchanged; any other
// name is rejected with an error.
func decodingReader(r io.Reader, encoding string) (io.Reader, error) {
	enc := strings.ToLower(strings.TrimSpace(encoding))
	switch {
	case enc == "" || enc == "utf-8" || enc == "utf8":
		return r, nil
	case strings.Contains(enc, "big5"):
		return transform.NewReader(r, traditionalchinese.Big5.NewDecoder()), nil
	case strings.Contains(enc, "gb"):
		return transform.NewReader(r, simplifiedchinese.GB18030.NewDecoder()), nil
	case strings.Contains(enc, "utf-16") || strings.Contains(enc, "utf16"):
		return transform.NewReader(r, unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewDecoder()), nil
	default:
		return nil, errors.Errorf("bnio: unsupported encoding %q", encoding)
	}
}

// Save writes a Dataset back to a CSV file with a header row, in its
// original column order.
func Save(path string, ds *dataset.Dataset) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "bnio: create %s", path)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	columns := ds.Columns()
	if err := w.Write(columns); err != nil {
		return errors.Wrap(err, "bnio: writing header")
	}
	for i := 0; i < ds.Len(); i++ {
		row := ds.Row(i)
		record := make([]string, len(columns))
		for j, c := range columns {
			record[j] = row[c]
		}
		if err := w.Write(record); err != nil {
			return errors.Wrap(err, "bnio: writing row")
		}
	}
	return w.Error()
}
