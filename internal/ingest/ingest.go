// Package ingest loads raw sensor payload files and merges them into
// per-subject buckets for normalization.
package ingest

import (
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/stridelab/stridex/internal/model"
	"github.com/stridelab/stridex/internal/normalize"
)

// Payload extensions accepted by ExpandPaths.
var payloadExtensions = []string{".json", ".jsonl", ".ndjson", ".json.gz", ".jsonl.gz", ".ndjson.gz"}

// ReadDocument loads one payload file. Gzipped files are transparently
// decompressed. A top-level non-object document is wrapped under
// "root"; line-delimited records are collected under "records".
func ReadDocument(path string) (*model.RawObject, error) {
	text, err := readText(path)
	if err != nil {
		return nil, err
	}
	v, err := model.DecodeRaw(strings.NewReader(text))
	if err == nil {
		if obj, ok := v.(*model.RawObject); ok {
			return obj, nil
		}
		wrapped := model.NewRawObject()
		wrapped.Set("root", v)
		return wrapped, nil
	}

	// Line-delimited fallback: parse records until the first bad line.
	var records []any
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		rec, err := model.DecodeRaw(strings.NewReader(line))
		if err != nil {
			break
		}
		records = append(records, rec)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("unsupported payload format: %s", path)
	}
	doc := model.NewRawObject()
	doc.Set("records", records)
	return doc, nil
}

func readText(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only payload.
			_ = cerr
		}
	}()

	var reader io.Reader = file
	if strings.HasSuffix(strings.ToLower(path), ".gz") {
		gz, err := gzip.NewReader(file)
		if err != nil {
			return "", fmt.Errorf("failed to open gzip payload: %w", err)
		}
		defer func() {
			if cerr := gz.Close(); cerr != nil {
				// Best-effort close of the gzip layer.
				_ = cerr
			}
		}()
		reader = gz
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// SubjectID resolves the subject identifier of a document: the patient
// id in meta, then a bare meta id, then the fallback (file stem).
func SubjectID(doc *model.RawObject, fallback string) string {
	meta, _ := doc.Get("meta")
	if metaObj, ok := meta.(*model.RawObject); ok {
		if patient, ok := metaObj.Get("patient"); ok {
			if patientObj, ok := patient.(*model.RawObject); ok {
				if id, ok := patientObj.Get("id"); ok {
					if s := normalize.Literal(id); s != nil && *s != "" {
						return *s
					}
				}
			}
		}
		if id, ok := metaObj.Get("id"); ok {
			if s := normalize.Literal(id); s != nil && *s != "" {
				return *s
			}
		}
	}
	return fallback
}

// LoadFiles reads every path, merges documents belonging to the same
// subject, and normalizes the result. Files that fail to load or parse
// are skipped and reported as warnings; they never abort the batch.
func LoadFiles(paths []string) (map[string]model.Subject, []string) {
	type bucketEntry struct {
		bucket normalize.Bucket
		order  int
	}
	buckets := map[string]*bucketEntry{}
	var warnings []string

	for _, path := range paths {
		doc, err := ReadDocument(path)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("skipped %s: %v", path, err))
			continue
		}
		id := SubjectID(doc, fileStem(path))
		if id == "" {
			warnings = append(warnings, fmt.Sprintf("skipped %s: no subject id", path))
			continue
		}
		entry, ok := buckets[id]
		if !ok {
			entry = &bucketEntry{
				bucket: normalize.Bucket{
					Meta: model.NewRawObject(),
					Data: model.NewRawObject(),
				},
				order: len(buckets),
			}
			buckets[id] = entry
		}
		entry.bucket.Files = append(entry.bucket.Files, filepath.Base(path))
		if meta, ok := doc.Get("meta"); ok {
			if metaObj, ok := meta.(*model.RawObject); ok {
				entry.bucket.Meta.Merge(metaObj)
			}
		}
		if labels, ok := doc.Get("labels"); ok {
			if labelsObj, ok := labels.(*model.RawObject); ok {
				entry.bucket.Labels = append(entry.bucket.Labels, labelsObj)
			}
		}
		if data, ok := doc.Get("data"); ok {
			if dataObj, ok := data.(*model.RawObject); ok {
				entry.bucket.Data.Merge(dataObj)
			}
		}
	}

	subjects := make(map[string]model.Subject, len(buckets))
	for id, entry := range buckets {
		subjects[id] = normalize.Subject(id, entry.bucket)
	}
	return subjects, warnings
}

// ExpandPaths resolves files and directories into a sorted list of
// payload files. Directories are scanned one level deep for known
// payload extensions.
func ExpandPaths(args []string) ([]string, error) {
	var paths []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			paths = append(paths, arg)
			continue
		}
		entries, err := os.ReadDir(arg)
		if err != nil {
			return nil, err
		}
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			if hasPayloadExtension(entry.Name()) {
				paths = append(paths, filepath.Join(arg, entry.Name()))
			}
		}
	}
	sort.Strings(paths)
	return paths, nil
}

func hasPayloadExtension(name string) bool {
	lower := strings.ToLower(name)
	for _, ext := range payloadExtensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

func fileStem(path string) string {
	name := filepath.Base(path)
	lower := strings.ToLower(name)
	for _, ext := range payloadExtensions {
		if strings.HasSuffix(lower, ext) {
			return name[:len(name)-len(ext)]
		}
	}
	return strings.TrimSuffix(name, filepath.Ext(name))
}
