// Package zone loads zone sources from disk. A source is a JSON, YAML, or TOML
// document naming its origin under "$origin" and listing records per type:
//
//	{
//	  "$origin": "example.com",
//	  "a": [{"ttl": 60, "value": "10.0.0.1"}]
//	}
//
// Loading is all-or-nothing: one bad source fails the whole set.
package zone

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/mitchellh/mapstructure"

	"github.com/haukened/ktdns/internal/dns/domain"
)

// originKey is the reserved key holding a source's origin name.
const originKey = "$origin"

// recordKeys maps the per-type list keys of a source to record types.
// Keys not listed here are ignored.
var recordKeys = map[string]domain.RRType{
	"a": domain.RRTypeA,
}

// sourceRecord is one record entry as written in a zone source. TTL is read
// as a float so JSON numbers like 60.9 can be refused instead of truncated.
type sourceRecord struct {
	TTL   *float64 `koanf:"ttl" validate:"required,gte=0,lte=4294967295"`
	Value string   `koanf:"value" validate:"required,ipv4"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// parserFor picks the koanf parser by file extension. ".zone" sources are JSON.
func parserFor(path string) (koanf.Parser, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".zone", ".json":
		return json.Parser(), nil
	case ".yaml", ".yml":
		return yaml.Parser(), nil
	case ".toml":
		return toml.Parser(), nil
	default:
		return nil, fmt.Errorf("unsupported zone source extension %q", filepath.Ext(path))
	}
}

// LoadZoneDirectory loads every source in dir whose base name matches pattern.
// Matches are loaded in lexical order; a directory with no matches yields no zones.
func LoadZoneDirectory(dir, pattern string) ([]domain.Zone, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrZoneLoad, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", domain.ErrZoneLoad, dir)
	}

	paths, err := filepath.Glob(filepath.Join(dir, pattern))
	if err != nil {
		return nil, fmt.Errorf("%w: bad pattern %q: %w", domain.ErrZoneLoad, pattern, err)
	}
	sort.Strings(paths)
	return LoadSources(paths)
}

// LoadSources loads the given zone sources, failing on the first error.
func LoadSources(paths []string) ([]domain.Zone, error) {
	zones := make([]domain.Zone, 0, len(paths))
	for _, path := range paths {
		z, err := loadSource(path)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", domain.ErrZoneLoad, path, err)
		}
		zones = append(zones, z)
	}
	return zones, nil
}

// loadSource parses and validates a single zone source.
func loadSource(path string) (domain.Zone, error) {
	parser, err := parserFor(path)
	if err != nil {
		return domain.Zone{}, err
	}

	k := koanf.New(".")
	if err := k.Load(file.Provider(path), parser); err != nil {
		return domain.Zone{}, fmt.Errorf("failed to parse: %w", err)
	}

	origin := strings.TrimSpace(k.String(originKey))
	if origin == "" {
		return domain.Zone{}, fmt.Errorf("missing %q", originKey)
	}

	keys := make([]string, 0)
	for key := range k.Raw() {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var records []domain.Record
	for _, key := range keys {
		rrType, ok := recordKeys[strings.ToLower(key)]
		if !ok {
			continue
		}
		recs, err := decodeRecords(k, key, rrType)
		if err != nil {
			return domain.Zone{}, err
		}
		records = append(records, recs...)
	}

	return domain.NewZone(origin, records)
}

// decodeRecords unmarshals and validates the list stored under key.
func decodeRecords(k *koanf.Koanf, key string, rrType domain.RRType) ([]domain.Record, error) {
	var entries []sourceRecord
	// Strict decoding: no single-value-to-list wrapping, no string/number coercion.
	conf := koanf.UnmarshalConf{
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &entries,
			WeaklyTypedInput: false,
		},
	}
	if err := k.UnmarshalWithConf(key, &entries, conf); err != nil {
		return nil, fmt.Errorf("records %q: %w", key, err)
	}

	records := make([]domain.Record, 0, len(entries))
	for i, e := range entries {
		e.Value = strings.TrimSpace(e.Value)
		if err := validate.Struct(e); err != nil {
			return nil, fmt.Errorf("records %q entry %d: %w", key, i, err)
		}
		if ttl := *e.TTL; ttl != math.Trunc(ttl) {
			return nil, fmt.Errorf("records %q entry %d: ttl %v is not an integer", key, i, ttl)
		}
		rr, err := domain.NewRecord(rrType, uint32(*e.TTL), e.Value)
		if err != nil {
			return nil, fmt.Errorf("records %q entry %d: %w", key, i, err)
		}
		records = append(records, rr)
	}
	return records, nil
}
