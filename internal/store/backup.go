package store

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Entry is one key/value pair of a workspace's local storage.
type Entry struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// ReadEntries returns every stored pair, ordered by key.
func ReadEntries(ctx context.Context, b Backend) ([]Entry, error) {
	keys, err := b.Keys(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Entry, 0, len(keys))
	for _, k := range keys {
		v, ok, err := b.GetItem(ctx, k)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, Entry{Key: k, Value: v})
		}
	}
	return out, nil
}

// ReplaceEntries writes entries into b. With replace, keys not present in entries are removed first.
func ReplaceEntries(ctx context.Context, b Backend, entries []Entry, replace bool) error {
	if replace {
		keep := map[string]bool{}
		for _, e := range entries {
			keep[e.Key] = true
		}
		keys, err := b.Keys(ctx)
		if err != nil {
			return err
		}
		for _, k := range keys {
			if !keep[k] {
				if err := b.RemoveItem(ctx, k); err != nil {
					return err
				}
			}
		}
	}
	for _, e := range entries {
		if strings.TrimSpace(e.Key) == "" {
			continue
		}
		if err := b.SetItem(ctx, e.Key, e.Value); err != nil {
			return err
		}
	}
	return nil
}

// WriteEntriesJSONL writes a JSONL stream of entries (one pair per line).
func WriteEntriesJSONL(path string, entries []Entry) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	bw := bufio.NewWriter(f)
	enc := json.NewEncoder(bw)
	for _, e := range entries {
		if err := enc.Encode(e); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// ReadEntriesJSONL reads entries from a JSONL file.
func ReadEntriesJSONL(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var out []Entry
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		var e Entry
		if err := json.Unmarshal([]byte(line), &e); err != nil {
			return nil, fmt.Errorf("parse backup jsonl: %w", err)
		}
		out = append(out, e)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if out == nil {
		out = []Entry{}
	}
	return out, nil
}
