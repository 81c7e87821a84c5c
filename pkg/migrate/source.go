package migrate

import (
	"fmt"
	"io/fs"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// Source supplies the full set of known migrations
type Source interface {
	Migrations() ([]Migration, error)
}

// Format: 001_create_things.up.sql or 001_create_things.down.sql
var fileRegex = regexp.MustCompile(`^(\d+)_(.+)\.(up|down)\.sql$`)

// FSSource reads migration files from a directory of an fs.FS, usually an
// embed.FS compiled into the binary.
type FSSource struct {
	fsys fs.FS
	dir  string
}

// NewFSSource creates a source over dir within fsys
func NewFSSource(fsys fs.FS, dir string) *FSSource {
	return &FSSource{fsys: fsys, dir: dir}
}

func (s *FSSource) Migrations() ([]Migration, error) {
	entries, err := fs.ReadDir(s.fsys, s.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read migration directory %s: %w", s.dir, err)
	}

	byVersion := make(map[int]*Migration)
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		matches := fileRegex.FindStringSubmatch(e.Name())
		if matches == nil {
			continue
		}

		version, err := strconv.Atoi(matches[1])
		if err != nil {
			return nil, fmt.Errorf("invalid version number in file %s: %w", e.Name(), err)
		}
		content, err := fs.ReadFile(s.fsys, s.dir+"/"+e.Name())
		if err != nil {
			return nil, fmt.Errorf("failed to read migration file %s: %w", e.Name(), err)
		}

		mg := byVersion[version]
		if mg == nil {
			mg = &Migration{Version: version, Name: strings.ReplaceAll(matches[2], "_", " ")}
			byVersion[version] = mg
		}
		if matches[3] == "up" {
			mg.Up = string(content)
		} else {
			mg.Down = string(content)
		}
	}

	migrations := make([]Migration, 0, len(byVersion))
	for _, mg := range byVersion {
		migrations = append(migrations, *mg)
	}
	sort.Slice(migrations, func(i, j int) bool {
		return migrations[i].Version < migrations[j].Version
	})
	return migrations, nil
}
