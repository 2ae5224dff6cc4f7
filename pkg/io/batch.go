package io

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/sisi/pkg/errors"
	"github.com/matzehuels/sisi/pkg/solve"
)

// Batch file formats.
const (
	FormatTOML = "toml"
	FormatJSON = "json"
)

// MaxBatchLines bounds the number of lines read from one batch file.
const MaxBatchLines = 10000

type batchFile struct {
	Lines []solve.Request `toml:"line" json:"lines"`
}

// ReadBatch decodes a batch in the given format from r. An empty format
// sniffs the content: input starting with '{' or '[' followed by '{' is
// JSON, everything else TOML.
//
// ReadBatch does not close r.
func ReadBatch(r io.Reader, format string) ([]solve.Request, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "read batch")
	}
	if format == "" {
		format = sniff(data)
	}

	var reqs []solve.Request
	switch format {
	case FormatTOML:
		var b batchFile
		md, err := toml.Decode(string(data), &b)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode toml batch")
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "unknown batch key %q", undecoded[0].String())
		}
		reqs = b.Lines
	case FormatJSON:
		trimmed := bytes.TrimSpace(data)
		dec := json.NewDecoder(bytes.NewReader(trimmed))
		dec.DisallowUnknownFields()
		if len(trimmed) > 0 && trimmed[0] == '[' {
			err = dec.Decode(&reqs)
		} else {
			var b batchFile
			err = dec.Decode(&b)
			reqs = b.Lines
		}
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode json batch")
		}
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported batch format %q", format)
	}

	if len(reqs) > MaxBatchLines {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "batch has %d lines (max %d)", len(reqs), MaxBatchLines)
	}
	return reqs, nil
}

// ImportBatch reads a batch file, choosing the format from its extension.
func ImportBatch(path string) ([]solve.Request, error) {
	if err := errors.ValidatePath(path); err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "batch file %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "open %s", path)
	}
	defer f.Close()

	reqs, err := ReadBatch(f, FormatFromPath(path))
	if err != nil {
		return nil, errors.Wrap(errors.GetCode(err), err, "%s", path)
	}
	return reqs, nil
}

// FormatFromPath maps a file extension to a batch format, or "" if unknown.
func FormatFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML
	case ".json":
		return FormatJSON
	}
	return ""
}

func sniff(data []byte) string {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return FormatTOML
	}
	switch trimmed[0] {
	case '{':
		return FormatJSON
	case '[':
		// "[[line]]" is TOML; "[{" or "[]" is JSON.
		rest := bytes.TrimSpace(trimmed[1:])
		if len(rest) > 0 && (rest[0] == '{' || rest[0] == ']') {
			return FormatJSON
		}
	}
	return FormatTOML
}
