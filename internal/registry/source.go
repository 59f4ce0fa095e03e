package registry

import (
	"encoding/json"
	"io/fs"
	"os"
	"path"
	"strings"

	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v3"

	"github.com/stashlight/stashlight/internal/schema"
)

// snapshotSource locates one versioned snapshot file and knows how to
// decode it.
type snapshotSource struct {
	version string
	load    func() (schema.Data, error)
}

// scanFS indexes snapshot files under root in fsys. The version is the
// declared "version" field when the file carries one, otherwise the file
// name stem. Unreadable entries are skipped; they resurface as load errors
// only if their version is ever requested.
func scanFS(fsys fs.FS, root string) []snapshotSource {
	entries, err := fs.ReadDir(fsys, root)
	if err != nil {
		return nil
	}

	var sources []snapshotSource
	for _, e := range entries {
		if e.IsDir() || !isSnapshotFile(e.Name()) {
			continue
		}
		name := path.Join(root, e.Name())
		version := sniffVersion(fsys, name)
		sources = append(sources, snapshotSource{
			version: version,
			load: func() (schema.Data, error) {
				raw, err := fs.ReadFile(fsys, name)
				if err != nil {
					return schema.Data{}, err
				}
				return decodeSnapshot(name, raw)
			},
		})
	}
	return sources
}

// scanDir indexes snapshot files in an on-disk directory.
func scanDir(dir string) []snapshotSource {
	return scanFS(os.DirFS(dir), ".")
}

func isSnapshotFile(name string) bool {
	switch strings.ToLower(path.Ext(name)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}

// sniffVersion extracts the declared version without decoding the whole
// document. Falls back to the file name stem.
func sniffVersion(fsys fs.FS, name string) string {
	stem := strings.TrimSuffix(path.Base(name), path.Ext(name))

	raw, err := fs.ReadFile(fsys, name)
	if err != nil {
		return stem
	}

	if strings.EqualFold(path.Ext(name), ".json") {
		if v := gjson.GetBytes(raw, "version"); v.Exists() && v.String() != "" {
			return v.String()
		}
		return stem
	}

	var header struct {
		Version string `yaml:"version"`
	}
	if yaml.Unmarshal(raw, &header) == nil && header.Version != "" {
		return header.Version
	}
	return stem
}

// decodeSnapshot decodes raw snapshot bytes by file extension.
func decodeSnapshot(name string, raw []byte) (schema.Data, error) {
	var data schema.Data
	var err error

	if strings.EqualFold(path.Ext(name), ".json") {
		err = json.Unmarshal(raw, &data)
	} else {
		err = yaml.Unmarshal(raw, &data)
	}
	if err != nil {
		return schema.Data{}, err
	}
	return data, nil
}
