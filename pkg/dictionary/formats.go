package dictionary

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
)

// FileFormat represents different dictionary file formats
type FileFormat int

const (
	FormatUnknown FileFormat = iota
	FormatChunk              // dict_NNNN.bin ranked chunk
	FormatText               // "text [weight]" lines
)

// maxChunkEntries bounds the header count a chunk may claim.
const maxChunkEntries = 1000000

func (f FileFormat) String() string {
	if info, ok := GetFormatInfo(f); ok {
		return info.Description
	}
	return "unknown"
}

// FormatInfo contains metadata about a dictionary file format
type FormatInfo struct {
	Format      FileFormat
	Description string
	Extensions  []string
	MinSize     int64
}

var supportedFormats = map[FileFormat]FormatInfo{
	FormatChunk: {
		Format:      FormatChunk,
		Description: "Chunked Binary Dictionary",
		Extensions:  []string{".bin"},
		MinSize:     4, // count header
	},
	FormatText: {
		Format:      FormatText,
		Description: "Plain Text Dictionary",
		Extensions:  []string{".txt"},
		MinSize:     0,
	},
}

// ValidateFileFormat checks if a file matches the expected format
func ValidateFileFormat(filename string, expectedFormat FileFormat) error {
	fileInfo, err := os.Stat(filename)
	if err != nil {
		return fmt.Errorf("failed to stat file %s: %w", filename, err)
	}
	if fileInfo.IsDir() {
		return fmt.Errorf("%s is a directory", filename)
	}

	formatInfo, exists := GetFormatInfo(expectedFormat)
	if !exists {
		return fmt.Errorf("unknown format: %v", expectedFormat)
	}

	if fileInfo.Size() < formatInfo.MinSize {
		return fmt.Errorf("file %s is too small (%d bytes) for format %s (minimum: %d bytes)",
			filename, fileInfo.Size(), formatInfo.Description, formatInfo.MinSize)
	}

	ext := strings.ToLower(filepath.Ext(filename))
	validExt := false
	for _, validExtension := range formatInfo.Extensions {
		if ext == validExtension {
			validExt = true
			break
		}
	}
	if !validExt {
		return fmt.Errorf("file %s has invalid extension %s for format %s (expected: %v)",
			filename, ext, formatInfo.Description, formatInfo.Extensions)
	}

	if expectedFormat == FormatChunk {
		return validateChunkHeader(filename)
	}
	return nil
}

func validateChunkHeader(filename string) error {
	file, err := os.Open(filename)
	if err != nil {
		return fmt.Errorf("failed to open file %s: %w", filename, err)
	}
	defer file.Close()

	var count int32
	if err := binary.Read(file, binary.LittleEndian, &count); err != nil {
		return fmt.Errorf("failed to read header from %s: %w", filename, err)
	}
	if count < 0 {
		return fmt.Errorf("invalid entry count in %s: %d (negative)", filename, count)
	}
	if count > maxChunkEntries {
		return fmt.Errorf("suspicious entry count in %s: %d (too large)", filename, count)
	}

	log.Debugf("Chunk file %s validated: %d entries", filename, count)
	return nil
}

// DetectFileFormat picks the format from the extension and checks the file
// against it.
func DetectFileFormat(filename string) (FileFormat, error) {
	var format FileFormat
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".bin":
		format = FormatChunk
	case ".txt":
		format = FormatText
	default:
		return FormatUnknown, fmt.Errorf("unable to detect format for file %s", filename)
	}

	if err := ValidateFileFormat(filename, format); err != nil {
		return FormatUnknown, err
	}
	return format, nil
}

// GetFormatInfo returns information about a specific format
func GetFormatInfo(format FileFormat) (FormatInfo, bool) {
	info, exists := supportedFormats[format]
	return info, exists
}
