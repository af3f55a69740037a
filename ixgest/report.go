package ixgest

import (
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/teranos/kinlink/errors"
)

// WriteReport writes the run result as YAML.
func WriteReport(w io.Writer, result *ProcessingResult) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(result); err != nil {
		return errors.Wrap(err, "encode run report")
	}
	return errors.Wrap(enc.Close(), "encode run report")
}

// WriteReportFile writes the run result as YAML to path.
func WriteReportFile(path string, result *ProcessingResult) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "create run report %s", path)
	}
	if err := WriteReport(f, result); err != nil {
		f.Close()
		return err
	}
	return errors.Wrapf(f.Close(), "close run report %s", path)
}

// ReadReport reads a YAML run report.
func ReadReport(r io.Reader) (*ProcessingResult, error) {
	var result ProcessingResult
	if err := yaml.NewDecoder(r).Decode(&result); err != nil {
		return nil, errors.Wrap(err, "decode run report")
	}
	return &result, nil
}
