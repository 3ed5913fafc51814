package dataset

import (
	"path/filepath"
	"testing"
)

func TestReadShard(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shard-000000.jsonl")
	mustWrite(t, path, `{"text": "good movie", "label": 2}

{"text": "meh", "label": 1}
`)

	records, err := ReadShard(path)
	if err != nil {
		t.Fatalf("ReadShard error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].Text != "good movie" || records[0].Label != 2 {
		t.Fatalf("unexpected first record: %+v", records[0])
	}
	if records[1].Text != "meh" || records[1].Label != 1 {
		t.Fatalf("unexpected second record: %+v", records[1])
	}
}

func TestReadShardRejectsMalformedLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shard-000000.jsonl")
	mustWrite(t, path, `{"text": "ok", "label": 0}
not json
`)
	if _, err := ReadShard(path); err == nil {
		t.Fatalf("expected error on malformed line")
	}
}

func TestReadShardRejectsNegativeLabel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shard-000000.jsonl")
	mustWrite(t, path, `{"text": "ok", "label": -1}
`)
	if _, err := ReadShard(path); err == nil {
		t.Fatalf("expected error on negative label")
	}
}

func TestReadShardMissing(t *testing.T) {
	if _, err := ReadShard(filepath.Join(t.TempDir(), "absent.jsonl")); err == nil {
		t.Fatalf("expected error on missing shard")
	}
}
