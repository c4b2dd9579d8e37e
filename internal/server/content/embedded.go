package content

import (
	"context"
	"embed"
	"errors"
	"io/fs"
	"path"

	"github.com/ZinoChan/LangRhythms/internal/common"
)

//go:embed data
var lessons embed.FS

// EmbeddedStore reads documents compiled into the binary.
type EmbeddedStore struct {
	fsys fs.FS
}

func NewEmbeddedStore() *EmbeddedStore {
	sub, err := fs.Sub(lessons, "data")
	if err != nil {
		panic(err)
	}
	return &EmbeddedStore{fsys: sub}
}

func (s *EmbeddedStore) Get(ctx context.Context, key string) (map[string]any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !fs.ValidPath(key) {
		return nil, common.ErrorNotFound
	}

	raw, err := fs.ReadFile(s.fsys, path.Clean(key)+".json")
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, common.ErrorNotFound
		}
		return nil, err
	}
	return decodeDocument(key, raw)
}
