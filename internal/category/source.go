package category

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"gopkg.in/yaml.v3"

	"github.com/roach88/recipebox/internal/model"
)

// AssetName is the file name of the bundled category asset.
const AssetName = "categories.json"

//go:embed assets/categories.json
var bundled embed.FS

// schemaSource constrains a category asset.
const schemaSource = `
#Category: {
	id:   int & >0
	name: string & !=""
	...
}
#Categories: [...#Category]
`

// ErrDuplicateID reports two categories sharing an id.
var ErrDuplicateID = errors.New("duplicate category id")

// Source provides the category list.
type Source interface {
	Load(ctx context.Context) ([]model.Category, error)
}

// AssetSource reads a category asset from a file system.
// The format follows the file extension: .yaml and .yml are YAML, anything
// else is compiled as CUE, which includes plain JSON.
type AssetSource struct {
	FS   fs.FS
	Name string
}

// Bundled returns the source for the asset compiled into the binary.
func Bundled() *AssetSource {
	return &AssetSource{FS: bundled, Name: path.Join("assets", AssetName)}
}

// NewFSSource returns a source reading name from fsys.
func NewFSSource(fsys fs.FS, name string) *AssetSource {
	return &AssetSource{FS: fsys, Name: name}
}

// NewFileSource returns a source reading the file at p.
func NewFileSource(p string) *AssetSource {
	return &AssetSource{FS: os.DirFS(filepath.Dir(p)), Name: filepath.Base(p)}
}

// Load reads, validates and decodes the asset.
func (s *AssetSource) Load(ctx context.Context) ([]model.Category, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := fs.ReadFile(s.FS, s.Name)
	if err != nil {
		return nil, fmt.Errorf("read category asset %s: %w", s.Name, err)
	}
	cats, err := Parse(s.Name, data)
	if err != nil {
		return nil, fmt.Errorf("category asset %s: %w", s.Name, err)
	}
	return cats, nil
}

// Parse decodes and validates a category asset. name selects the format.
func Parse(name string, data []byte) ([]model.Category, error) {
	cctx := cuecontext.New()

	schema := cctx.CompileString(schemaSource, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	def := schema.LookupPath(cue.ParsePath("#Categories"))

	var val cue.Value
	switch strings.ToLower(path.Ext(name)) {
	case ".yaml", ".yml":
		var doc any
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("parse yaml: %w", err)
		}
		if doc == nil {
			doc = []any{}
		}
		val = cctx.Encode(doc)
	default:
		val = cctx.CompileBytes(data, cue.Filename(name))
	}
	if err := val.Err(); err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}

	unified := def.Unify(val)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return nil, fmt.Errorf("validate: %w", err)
	}

	var cats []model.Category
	if err := unified.Decode(&cats); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}

	seen := make(map[model.CategoryID]struct{}, len(cats))
	for _, c := range cats {
		if _, dup := seen[c.ID]; dup {
			return nil, fmt.Errorf("%w: %d", ErrDuplicateID, c.ID)
		}
		seen[c.ID] = struct{}{}
	}

	if cats == nil {
		cats = []model.Category{}
	}
	return cats, nil
}

// StaticSource serves a fixed category list.
type StaticSource struct {
	cats []model.Category
	err  error
}

// Static returns a source serving cats in the given order.
func Static(cats ...model.Category) *StaticSource {
	return &StaticSource{cats: append([]model.Category(nil), cats...)}
}

// Failing returns a source whose Load always fails with err.
func Failing(err error) *StaticSource {
	return &StaticSource{err: err}
}

// Load returns a copy of the list.
func (s *StaticSource) Load(ctx context.Context) ([]model.Category, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.err != nil {
		return nil, s.err
	}
	return append([]model.Category{}, s.cats...), nil
}
