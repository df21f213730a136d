package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/squeng/fixadat/pkg/domain"
)

// bookmark is one organizer or host link kept after `new`. The file holds one
// tab-separated line per bookmark: RFC 3339 time, kind, link.
type bookmark struct {
	Created time.Time
	Kind    domain.LinkKind
	URL     string
}

func appendBookmark(path string, b bookmark) error {
	if b.Created.IsZero() {
		b.Created = time.Now()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create bookmark directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return fmt.Errorf("open bookmarks: %w", err)
	}
	defer f.Close()
	_, err = fmt.Fprintf(f, "%s\t%s\t%s\n", b.Created.Format(time.RFC3339), b.Kind, b.URL)
	return err
}

// readBookmarks returns the saved links, oldest first. A missing file is an
// empty list; malformed lines are skipped.
func readBookmarks(path string) ([]bookmark, error) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open bookmarks: %w", err)
	}
	defer f.Close()

	var out []bookmark
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		parts := strings.SplitN(sc.Text(), "\t", 3)
		if len(parts) != 3 {
			continue
		}
		created, err := time.Parse(time.RFC3339, parts[0])
		if err != nil {
			continue
		}
		kind := domain.LinkElection
		if parts[1] == domain.LinkEvent.String() {
			kind = domain.LinkEvent
		}
		out = append(out, bookmark{Created: created, Kind: kind, URL: parts[2]})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read bookmarks: %w", err)
	}
	return out, nil
}
