// Package cliapp wires the C1-C10 components into the cobra subcommand
// tree (ADDED, ambient): pass/trim/mask/find/replace/sort/unique, sharing
// a common set of global persistent flags and input/output plumbing.
package cliapp

import (
	"fmt"
	"os"
	"strings"

	"github.com/seqtoolkit/st/internal/ioutil"
	"github.com/seqtoolkit/st/internal/record"
)

// EnvFormat is the default input format read from ST_FORMAT, per spec.md
// §6: "ST_FORMAT supplies the default input format (and optional
// delimited-field spec after a colon)". The delimited-field spec, if
// given, is "id,desc,seq,qual" as 1-based column numbers separated by
// commas, any of which may be empty to mean "not present".
type EnvFormat struct {
	Format ioutil.SeqFormat
	Fields seqioFields
	HasEnv bool
}

// seqioFields mirrors seqio.DelimFields without importing seqio here, so
// env parsing stays a pure-string concern; toDelimFields converts it.
type seqioFields struct {
	ID, Desc, Seq, Qual int
}

// ParseEnvFormat parses the ST_FORMAT environment variable's value.
func ParseEnvFormat(raw string) (EnvFormat, error) {
	if raw == "" {
		return EnvFormat{}, nil
	}
	name, fieldSpec, hasFields := strings.Cut(raw, ":")
	fmtKind, ok := ioutil.ParseFormat(name)
	if !ok {
		return EnvFormat{}, fmt.Errorf("ST_FORMAT: unrecognized format %q", name)
	}
	ef := EnvFormat{Format: fmtKind, HasEnv: true}
	if hasFields {
		fields, err := parseFieldSpec(fieldSpec)
		if err != nil {
			return EnvFormat{}, fmt.Errorf("ST_FORMAT: %w", err)
		}
		ef.Fields = fields
	}
	return ef, nil
}

func parseFieldSpec(spec string) (seqioFields, error) {
	parts := strings.Split(spec, ",")
	if len(parts) != 4 {
		return seqioFields{}, fmt.Errorf("field spec %q must have 4 comma-separated columns (id,desc,seq,qual)", spec)
	}
	cols := make([]int, 4)
	for i, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		n := 0
		for _, c := range p {
			if c < '0' || c > '9' {
				return seqioFields{}, fmt.Errorf("field spec %q: %q is not a column number", spec, p)
			}
			n = n*10 + int(c-'0')
		}
		cols[i] = n
	}
	return seqioFields{ID: cols[0], Desc: cols[1], Seq: cols[2], Qual: cols[3]}, nil
}

// ParseEnvAttrFormat parses the ST_ATTR_FORMAT environment variable's
// value, per spec.md §6: "ST_ATTR_FORMAT supplies the default attribute
// format." The format is "<prefix>,<sep>" (e.g. " ,=" for the default,
// "/,:" for slash-prefixed colon-separated attributes) — pinned here
// since spec.md names the variable's purpose but not its literal syntax.
func ParseEnvAttrFormat(raw string) (record.AttrFormat, bool, error) {
	if raw == "" {
		return record.AttrFormat{}, false, nil
	}
	prefix, sep, ok := strings.Cut(raw, ",")
	if !ok || prefix == "" || sep == "" {
		return record.AttrFormat{}, false, fmt.Errorf("ST_ATTR_FORMAT %q must be \"<prefix>,<sep>\"", raw)
	}
	return record.AttrFormat{Prefix: prefix, Sep: sep}, true, nil
}

// EnvDefaults resolves both environment variables once at startup.
type EnvDefaults struct {
	Format     EnvFormat
	AttrFormat record.AttrFormat
	HasAttr    bool
}

// LoadEnvDefaults reads ST_FORMAT and ST_ATTR_FORMAT from the process
// environment.
func LoadEnvDefaults() (EnvDefaults, error) {
	ef, err := ParseEnvFormat(os.Getenv("ST_FORMAT"))
	if err != nil {
		return EnvDefaults{}, err
	}
	af, hasAF, err := ParseEnvAttrFormat(os.Getenv("ST_ATTR_FORMAT"))
	if err != nil {
		return EnvDefaults{}, err
	}
	return EnvDefaults{Format: ef, AttrFormat: af, HasAttr: hasAF}, nil
}
