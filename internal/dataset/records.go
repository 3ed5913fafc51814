package dataset

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"os"
)

// Record is one labelled text sample from a JSONL shard.
type Record struct {
	Text  string `json:"text"`
	Label int    `json:"label"`
}

// ReadShard parses every JSONL record in the shard at path. Blank lines
// are skipped; malformed lines and negative labels fail the whole shard.
func ReadShard(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open shard: %w", err)
	}
	defer f.Close()

	var records []Record
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := bytes.TrimSpace(sc.Bytes())
		if len(line) == 0 {
			continue
		}
		var rec Record
		if err := json.Unmarshal(line, &rec); err != nil {
			return nil, fmt.Errorf("%s line %d: %w", path, lineNo, err)
		}
		if rec.Label < 0 {
			return nil, fmt.Errorf("%s line %d: negative label %d", path, lineNo, rec.Label)
		}
		records = append(records, rec)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return records, nil
}
