package transcript

import (
	"bytes"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/klauspost/compress/zip"
)

// ExpandArchive processes every file entry of a ZIP archive in order. A corrupt archive
// yields a single error; a failing entry yields an error naming it and processing moves on.
func (e *Extractor) ExpandArchive(name string, data []byte) FileProcessingResult {
	result := newResult()

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		result.addError("Error processing %s: not a readable ZIP archive: %v", name, err)
		return result
	}

	for _, entry := range zr.File {
		if entry.FileInfo().IsDir() || strings.HasSuffix(entry.Name, "/") || skipEntry(entry.Name) {
			continue
		}
		result.merge(e.processEntry(name, entry))
	}

	e.logger.Info("archive expanded",
		"archive", name,
		"entries", len(zr.File),
		"episodes", len(result.Episodes),
		"errors", len(result.Errors),
	)
	return result
}

func (e *Extractor) processEntry(archive string, entry *zip.File) (result FileProcessingResult) {
	result = newResult()

	defer func() {
		if r := recover(); r != nil {
			result = newResult()
			result.addError("Error processing %s in %s: %v", entry.Name, archive, r)
		}
	}()

	rt := routeFor(entry.Name)
	if rt == routeDatabase {
		result.addError("%s in %s: SQLite database files are not supported", entry.Name, archive)
		return result
	}
	if rt == routeArchive {
		return result
	}
	if entry.UncompressedSize64 > uint64(e.maxFileSize) {
		result.addError("%s in %s: entry is too large (%s)", entry.Name, archive, humanize.IBytes(entry.UncompressedSize64))
		return result
	}

	text, err := readEntry(entry)
	if err != nil {
		result.addError("Error processing %s in %s: %v", entry.Name, archive, err)
		return result
	}

	p := Payload{Name: path.Base(entry.Name), Text: text}
	var detectors []Detector
	switch {
	case rt == routeStructured:
		detectors = []Detector{e.structured}
	case rt == routeMarkup:
		detectors = []Detector{e.markup}
	case rt == routeSubtitle:
		detectors = []Detector{e.subtitle}
	case namedTranscript(entry.Name) || LooksLikeTranscript(text):
		detectors = []Detector{e.freeText}
	default:
		return result
	}

	if ep, ok := e.extract(p, detectors...); ok {
		result.Episodes = append(result.Episodes, ep)
	}
	return result
}

func readEntry(entry *zip.File) (string, error) {
	rc, err := entry.Open()
	if err != nil {
		return "", fmt.Errorf("open entry: %w", err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return "", fmt.Errorf("read entry: %w", err)
	}
	return decodeText(data)
}

// skipEntry drops macOS resource-fork and hidden metadata entries
func skipEntry(name string) bool {
	if strings.HasPrefix(name, "__MACOSX/") {
		return true
	}
	return strings.HasPrefix(path.Base(name), "._")
}
