package textsplitter

import "strings"

// DefaultSeparators are tried coarsest-first: paragraph breaks, line breaks,
// sentence punctuation, then spaces. The empty separator means raw
// character-count splitting as the last resort.
var DefaultSeparators = []string{"\n\n", "\n", ".", "!", "?", ",", " ", ""}

type Config struct {
	Separators []string
	ChunkSize  int
	Overlap    int
}

func DefaultConfig() Config {
	return Config{
		Separators: DefaultSeparators,
		ChunkSize:  1500,
		Overlap:    200,
	}
}

// Split cuts text into chunks of at most cfg.ChunkSize runes (plus carried
// overlap), trying separators from coarsest to finest. Adjacent chunks share
// cfg.Overlap trailing runes of the previous chunk so retrieval keeps
// cross-boundary context. Chunks preserve the original characters exactly;
// no chunk is empty. Same input and config always produce the same output.
func Split(text string, cfg Config) []string {
	if text == "" {
		return nil
	}
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = DefaultConfig().ChunkSize
	}
	if cfg.Overlap < 0 || cfg.Overlap >= cfg.ChunkSize {
		cfg.Overlap = 0
	}
	separators := cfg.Separators
	if len(separators) == 0 {
		separators = DefaultSeparators
	}

	segments := splitRecursive(text, separators, cfg.ChunkSize)
	return mergeSegments(segments, cfg.ChunkSize, cfg.Overlap)
}

// splitRecursive partitions text into segments no longer than chunkSize
// runes. Separators stay attached to the preceding segment so concatenating
// all segments reproduces the input exactly.
func splitRecursive(text string, separators []string, chunkSize int) []string {
	if text == "" {
		return nil
	}
	if runeLen(text) <= chunkSize {
		return []string{text}
	}
	if len(separators) == 0 {
		return splitFixed(text, chunkSize)
	}

	sep := separators[0]
	finer := separators[1:]
	if sep == "" {
		return splitFixed(text, chunkSize)
	}

	var segments []string
	for _, part := range strings.SplitAfter(text, sep) {
		if part == "" {
			continue
		}
		if runeLen(part) <= chunkSize {
			segments = append(segments, part)
		} else {
			segments = append(segments, splitRecursive(part, finer, chunkSize)...)
		}
	}
	return segments
}

// splitFixed slices text into fixed rune windows. Last resort when no
// separator level produced small enough pieces.
func splitFixed(text string, chunkSize int) []string {
	runes := []rune(text)
	var out []string
	for i := 0; i < len(runes); i += chunkSize {
		end := i + chunkSize
		if end > len(runes) {
			end = len(runes)
		}
		out = append(out, string(runes[i:end]))
	}
	return out
}

// mergeSegments greedily packs segments into chunks up to chunkSize runes.
// When a chunk is emitted, the next chunk is seeded with the last overlap
// runes of the emitted one.
func mergeSegments(segments []string, chunkSize, overlap int) []string {
	var chunks []string
	var cur strings.Builder
	curLen := 0 // runes in cur beyond the carried overlap

	flush := func() {
		if cur.Len() == 0 {
			return
		}
		chunk := cur.String()
		chunks = append(chunks, chunk)
		cur.Reset()
		curLen = 0
		if overlap > 0 {
			tail := tailRunes(chunk, overlap)
			cur.WriteString(tail)
		}
	}

	for _, seg := range segments {
		segLen := runeLen(seg)
		if curLen > 0 && curLen+segLen > chunkSize {
			flush()
		}
		cur.WriteString(seg)
		curLen += segLen
	}
	if curLen > 0 {
		chunks = append(chunks, cur.String())
	}
	return chunks
}

func tailRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[len(runes)-n:])
}

func runeLen(s string) int {
	return len([]rune(s))
}
