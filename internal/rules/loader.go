package rules

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/runchengxie/a-share-animal-index/internal/contracts"
)

// Load reads a rules YAML file.
// A missing file is returned as the plain os error; the caller decides how to report it.
func Load(path string) (*Rules, []Warning, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}

	r, warnings, err := Parse(data)
	if err != nil {
		var cfgErr *contracts.ConfigError
		if errors.As(err, &cfgErr) {
			cfgErr.Path = path
		}
		return nil, warnings, err
	}
	return r, warnings, nil
}

// Parse normalizes a rules document.
// An empty document yields the defaults; anything that is not a mapping is a ConfigError.
func Parse(data []byte) (*Rules, []Warning, error) {
	var doc document
	dec := yaml.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, nil, &contracts.ConfigError{Err: err}
	}

	strict := uniquePreserve(doc.StrictKeywords)
	forceInclude, w1 := normalizeCodes("force_include", doc.ForceInclude)
	forceExclude, w2 := normalizeCodes("force_exclude", doc.ForceExclude)

	r := &Rules{
		StrictKeywords:   strict,
		ExtendedKeywords: uniquePreserve(strict, doc.ExtendedKeywords),
		ExcludePatterns:  uniquePreserve(doc.ExcludePatterns),
		ForceInclude:     forceInclude,
		ForceExclude:     forceExclude,
		ExcludeST:        boolOr(doc.ExcludeST, true),
		AllowBeijing:     boolOr(doc.AllowBeijing, false),
	}

	warnings := append(w1, w2...)
	warnings = append(warnings, Warn(r)...)
	return r, warnings, nil
}

// Hash generates SHA256 hash from Rules (canonical JSON).
// Published next to outputs so a snapshot can be tied to the rule set that produced it.
func Hash(r *Rules) (string, error) {
	jsonBytes, err := json.Marshal(r)
	if err != nil {
		return "", err
	}

	sum := sha256.Sum256(jsonBytes)
	return hex.EncodeToString(sum[:]), nil
}

func boolOr(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}
