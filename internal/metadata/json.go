package metadata

import (
	"errors"
	"fmt"
	"os"

	"github.com/hashicorp/go-multierror"
	"github.com/tidwall/gjson"
)

// ErrInvalidJSON is returned for metadata that is not well-formed JSON.
var ErrInvalidJSON = errors.New("invalid metadata json")

// Parse reads the properties of a metadata document. Hints are attached to the
// property they name; hints for "<name>.keys" and "<name>.values" are attached
// to <name>.
func Parse(data []byte) ([]*PropertyInfo, error) {
	if !gjson.ValidBytes(data) {
		return nil, ErrInvalidJSON
	}

	root := gjson.ParseBytes(data)

	hints := make(map[string][]ValueHint)

	root.Get("hints").ForEach(func(_, h gjson.Result) bool {
		name := h.Get("name").String()

		h.Get("values").ForEach(func(_, v gjson.Result) bool {
			hints[name] = append(hints[name], ValueHint{
				Value:       v.Get("value").String(),
				Description: v.Get("description").String(),
			})

			return true
		})

		return true
	})

	var props []*PropertyInfo

	root.Get("properties").ForEach(func(_, p gjson.Result) bool {
		id := p.Get("name").String()
		if id == "" {
			return true
		}

		info := &PropertyInfo{
			ID:          id,
			Type:        p.Get("type").String(),
			Description: p.Get("description").String(),
			Hints:       hints[id],
		}

		if dv := p.Get("defaultValue"); dv.Exists() {
			info.DefaultValue = dv.Value()
		}

		if dep := p.Get("deprecation"); dep.Exists() {
			info.Deprecation = &Deprecation{
				Level:       DeprecationLevel(dep.Get("level").String()),
				Reason:      dep.Get("reason").String(),
				Replacement: dep.Get("replacement").String(),
			}
		} else if p.Get("deprecated").Bool() {
			info.Deprecation = &Deprecation{}
		}

		if info.Deprecation != nil && info.Deprecation.Level == "" {
			info.Deprecation.Level = LevelWarning
		}

		props = append(props, info)

		return true
	})

	return props, nil
}

// LoadFiles reads metadata files into a single index. Later files win when the
// same property is declared twice. All read and parse errors are reported.
func LoadFiles(paths ...string) (*Index, error) {
	ix := NewIndex()

	var result *multierror.Error

	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			result = multierror.Append(result, fmt.Errorf("failed to read metadata file %s: %w", path, err))
			continue
		}

		props, err := Parse(data)
		if err != nil {
			result = multierror.Append(result, fmt.Errorf("failed to parse metadata file %s: %w", path, err))
			continue
		}

		ix.Add(props...)
	}

	return ix, result.ErrorOrNil()
}
