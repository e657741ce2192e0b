/*
Package dictionary loads seed corpora for the suggestion index.

Two formats are understood. Plain text files hold one entry per line, with an
optional trailing integer weight:

	# comment
	hello world 12
	hello

Binary chunks named dict_NNNN.bin hold ranked entries, little endian:

	int32 count
	count x (uint16 length, length bytes of text, uint16 rank)

Rank 1 is the most frequent entry and maps to weight 65535.
*/
package dictionary

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/bastiangx/trieserve/internal/utils"
	"github.com/bastiangx/trieserve/pkg/suggest"
	"github.com/charmbracelet/log"
)

// ErrNoData is returned by Load when a directory holds no dictionary files.
var ErrNoData = errors.New("dictionary: no dictionary files found")

// Word is a single dictionary entry.
type Word struct {
	Text   string
	Weight int
}

// ChunkInfo contains metadata about a chunk file
type ChunkInfo struct {
	ChunkID  int
	Filename string
}

// Records turns words into index records whose value is the text itself.
func Records(words []Word) []suggest.Record[string] {
	records := make([]suggest.Record[string], len(words))
	for i, w := range words {
		records[i] = suggest.Record[string]{Text: w.Text, Value: w.Text, Weight: w.Weight}
	}
	return records
}

// rankToWeight maps chunk rank 1 to 65535, rank 2 to 65534 and so on.
func rankToWeight(rank uint16) int {
	return math.MaxUint16 - int(rank) + 1
}

// Load reads a dictionary file, or every dictionary file in a directory:
// chunks first by chunk id, then text files by name.
func Load(path string, defaultWeight int) ([]Word, error) {
	stat, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("dictionary path %s: %w", path, err)
	}
	if !stat.IsDir() {
		return loadFile(path, defaultWeight)
	}

	chunks, err := ListChunks(path)
	if err != nil {
		return nil, err
	}
	texts, err := filepath.Glob(filepath.Join(path, "*.txt"))
	if err != nil {
		return nil, fmt.Errorf("failed to scan for text files: %w", err)
	}
	sort.Strings(texts)

	files := make([]string, 0, len(chunks)+len(texts))
	for _, c := range chunks {
		files = append(files, c.Filename)
	}
	files = append(files, texts...)
	if len(files) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoData, path)
	}

	var words []Word
	for _, f := range files {
		loaded, err := loadFile(f, defaultWeight)
		if err != nil {
			return nil, err
		}
		words = append(words, loaded...)
	}
	log.Debugf("Loaded %s entries from %d files in %s", utils.FormatWithCommas(len(words)), len(files), path)
	return words, nil
}

func loadFile(path string, defaultWeight int) ([]Word, error) {
	format, err := DetectFileFormat(path)
	if err != nil {
		return nil, err
	}
	switch format {
	case FormatChunk:
		return LoadChunk(path)
	default:
		return LoadText(path, defaultWeight)
	}
}

// ListChunks scans dir for dict_NNNN.bin files ordered by chunk id.
func ListChunks(dir string) ([]ChunkInfo, error) {
	files, err := filepath.Glob(filepath.Join(dir, "dict_*.bin"))
	if err != nil {
		return nil, fmt.Errorf("failed to scan for chunk files: %w", err)
	}

	var chunks []ChunkInfo
	for _, file := range files {
		idStr := strings.TrimSuffix(strings.TrimPrefix(filepath.Base(file), "dict_"), ".bin")
		chunkID, err := strconv.Atoi(idStr)
		if err != nil {
			log.Warnf("Skipping chunk with malformed name: %s", file)
			continue
		}
		chunks = append(chunks, ChunkInfo{ChunkID: chunkID, Filename: file})
	}

	sort.Slice(chunks, func(i, j int) bool {
		return chunks[i].ChunkID < chunks[j].ChunkID
	})
	return chunks, nil
}

// LoadText reads a plain text dictionary file.
func LoadText(path string, defaultWeight int) ([]Word, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open text file %s: %w", path, err)
	}
	defer file.Close()

	words, err := ReadText(file, defaultWeight)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	log.Debugf("Text file %s loaded: %d entries", path, len(words))
	return words, nil
}

// ReadText parses "text [weight]" lines. Blank lines and lines starting with
// '#' are skipped.
func ReadText(r io.Reader, defaultWeight int) ([]Word, error) {
	var words []Word
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		text, weight := utils.SplitWeight(line, defaultWeight)
		words = append(words, Word{Text: text, Weight: weight})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return words, nil
}

// LoadChunk reads a binary chunk file.
func LoadChunk(path string) ([]Word, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open chunk file %s: %w", path, err)
	}
	defer file.Close()

	words, err := ReadChunk(bufio.NewReader(file))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	log.Debugf("Chunk %s loaded: %d entries", path, len(words))
	return words, nil
}

// ReadChunk decodes one chunk. A stream that ends cleanly before the header
// count is reached yields the entries read so far.
func ReadChunk(r io.Reader) ([]Word, error) {
	var total int32
	if err := binary.Read(r, binary.LittleEndian, &total); err != nil {
		return nil, fmt.Errorf("failed to read chunk header: %w", err)
	}
	if total < 0 || total > maxChunkEntries {
		return nil, fmt.Errorf("invalid chunk entry count %d", total)
	}

	words := make([]Word, 0, total)
	for len(words) < int(total) {
		var textLen uint16
		if err := binary.Read(r, binary.LittleEndian, &textLen); err != nil {
			if err == io.EOF {
				log.Warnf("Chunk ended after %d of %d entries", len(words), total)
				break
			}
			return nil, fmt.Errorf("failed to read text length: %w", err)
		}

		textBytes := make([]byte, textLen)
		if _, err := io.ReadFull(r, textBytes); err != nil {
			return nil, fmt.Errorf("failed to read text: %w", err)
		}

		var rank uint16
		if err := binary.Read(r, binary.LittleEndian, &rank); err != nil {
			return nil, fmt.Errorf("failed to read rank: %w", err)
		}
		words = append(words, Word{Text: string(textBytes), Weight: rankToWeight(rank)})
	}
	return words, nil
}

// WriteChunk writes words as a chunk file, ranked by their position.
func WriteChunk(path string, words []Word) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create chunk file %s: %w", path, err)
	}

	w := bufio.NewWriter(file)
	if err := EncodeChunk(w, words); err != nil {
		file.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := w.Flush(); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

// EncodeChunk writes the chunk encoding of words to w. Position i gets
// rank i+1, so at most 65535 words fit in one chunk.
func EncodeChunk(w io.Writer, words []Word) error {
	if len(words) > math.MaxUint16 {
		return fmt.Errorf("chunk holds at most %d entries, got %d", math.MaxUint16, len(words))
	}
	if err := binary.Write(w, binary.LittleEndian, int32(len(words))); err != nil {
		return err
	}
	for i, word := range words {
		if len(word.Text) > math.MaxUint16 {
			return fmt.Errorf("entry %d is too long (%d bytes)", i, len(word.Text))
		}
		if err := binary.Write(w, binary.LittleEndian, uint16(len(word.Text))); err != nil {
			return err
		}
		if _, err := io.WriteString(w, word.Text); err != nil {
			return err
		}
		if err := binary.Write(w, binary.LittleEndian, uint16(i+1)); err != nil {
			return err
		}
	}
	return nil
}
