package redirects

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultResource is the external rule list used when no override is configured.
const DefaultResource = "default-redirects.json"

//go:embed resources/*.json
var embedded embed.FS

type decodeFunc func(data []byte) ([]Rule, error)

// loader reads the raw bytes behind a resource name.
type loader interface {
	read(name string) ([]byte, error)
}

type embeddedLoader struct {
	fsys fs.FS
}

func (l embeddedLoader) read(name string) ([]byte, error) {
	data, err := fs.ReadFile(l.fsys, path.Join("resources", name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrResourceNotFound
	}
	return data, err
}

type fileLoader struct{}

func (fileLoader) read(name string) ([]byte, error) {
	data, err := os.ReadFile(name)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrResourceNotFound
	}
	return data, err
}

var decoders = map[string]decodeFunc{
	".json": decodeJSON,
	".yaml": decodeYAML,
	".yml":  decodeYAML,
}

// LoadResource resolves name to one of the statically known loaders and
// parses the rules it holds. Names without a path separator are looked up
// among the resources compiled into the binary first, then on disk.
// Failures are reported as *ConfigurationError.
func LoadResource(name string) ([]Rule, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = DefaultResource
	}

	decode, ok := decoders[strings.ToLower(filepath.Ext(name))]
	if !ok {
		return nil, &ConfigurationError{Resource: name, Err: ErrUnsupportedFormat}
	}

	data, err := readResource(name)
	if err != nil {
		return nil, &ConfigurationError{Resource: name, Err: err}
	}

	rules, err := decode(data)
	if err != nil {
		return nil, &ConfigurationError{Resource: name, Err: err}
	}

	for i, rule := range rules {
		if err := rule.validate(); err != nil {
			return nil, &ConfigurationError{Resource: name, Err: fmt.Errorf("rule %d: %w", i, err)}
		}
	}

	return rules, nil
}

func readResource(name string) ([]byte, error) {
	loaders := []loader{fileLoader{}}
	if !strings.ContainsAny(name, `/\`) {
		loaders = []loader{embeddedLoader{fsys: embedded}, fileLoader{}}
	}

	for _, l := range loaders {
		data, err := l.read(name)
		if errors.Is(err, ErrResourceNotFound) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("read resource: %w", err)
		}
		return data, nil
	}
	return nil, ErrResourceNotFound
}

func decodeJSON(data []byte) ([]Rule, error) {
	var rules []Rule
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&rules); err != nil {
		return nil, fmt.Errorf("parse JSON: %w", err)
	}
	if rules == nil {
		return nil, fmt.Errorf("parse JSON: expected a list of rules")
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse JSON: unexpected data after rule list")
	}
	return rules, nil
}

func decodeYAML(data []byte) ([]Rule, error) {
	var rules []Rule
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&rules); err != nil {
		return nil, fmt.Errorf("parse YAML: %w", err)
	}
	if rules == nil {
		return nil, fmt.Errorf("parse YAML: expected a list of rules")
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse YAML: unexpected document after rule list")
	}
	return rules, nil
}
