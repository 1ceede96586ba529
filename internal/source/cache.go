package source

import (
	"fmt"
	"os"

	gocache "github.com/patrickmn/go-cache"
	sitter "github.com/smacker/go-tree-sitter"
)

// Store memoizes raw file text and parsed syntax trees for the lifetime
// of one run, keyed by resolved path. It is created at run start and
// discarded at run end; concurrent runs never share a Store. Entries are
// write-once per key, so concurrent preload needs no extra locking.
type Store struct {
	texts *gocache.Cache
	trees *gocache.Cache
}

type parsedSource struct {
	tree *sitter.Tree
	src  []byte
}

// NewStore creates an empty per-run source store
func NewStore() *Store {
	return &Store{
		texts: gocache.New(gocache.NoExpiration, 0),
		trees: gocache.New(gocache.NoExpiration, 0),
	}
}

// Text returns the raw bytes of the file, reading it on first access.
// A read failure is a hard error: callers are expected to check existence
// first, so failure here means a broken checkout, not a drifted claim.
func (s *Store) Text(path string) ([]byte, error) {
	if cached, found := s.texts.Get(path); found {
		return cached.([]byte), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read source %s: %w", path, err)
	}

	s.texts.Set(path, data, gocache.NoExpiration)
	return data, nil
}

// Tree returns the parsed syntax tree for the file plus the source bytes
// it was parsed from, parsing on first access.
func (s *Store) Tree(path string) (*sitter.Tree, []byte, error) {
	if cached, found := s.trees.Get(path); found {
		parsed := cached.(parsedSource)
		return parsed.tree, parsed.src, nil
	}

	src, err := s.Text(path)
	if err != nil {
		return nil, nil, err
	}

	tree, err := parse(path, src)
	if err != nil {
		return nil, nil, fmt.Errorf("parse source %s: %w", path, err)
	}

	s.trees.Set(path, parsedSource{tree: tree, src: src}, gocache.NoExpiration)
	return tree, src, nil
}
