package configdomain

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/mitchellh/mapstructure"
)

// Kind selects the coercion applied to a raw setting value.
type Kind int

const (
	KindString Kind = iota
	KindPath
	KindInt
	KindBool
	KindIntOrString
	KindRelease
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindPath:
		return "path"
	case KindInt:
		return "integer"
	case KindBool:
		return "boolean"
	case KindIntOrString:
		return "integer or string"
	case KindRelease:
		return "release"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// IntOrString holds either a numeric id or a name, e.g. for users and groups.
type IntOrString struct {
	IntVal int
	StrVal string
	IsInt  bool
}

// ParseIntOrString returns an integer IntOrString if s is a valid integer and
// a string IntOrString otherwise.
func ParseIntOrString(s string) IntOrString {
	if i, err := strconv.Atoi(s); err == nil {
		return IntOrString{IntVal: i, IsInt: true}
	}
	return IntOrString{StrVal: s}
}

func (v IntOrString) String() string {
	if v.IsInt {
		return strconv.Itoa(v.IntVal)
	}
	return v.StrVal
}

// Release is a feed release version like "22.04" or "24.10".
type Release struct {
	Major int
	Minor int
	raw   string
}

// ParseRelease parses a "major.minor" release string.
func ParseRelease(s string) (Release, error) {
	parts := strings.Split(strings.TrimSpace(s), ".")
	if len(parts) != 2 {
		return Release{}, fmt.Errorf("release must have the form major.minor")
	}
	major, err := strconv.Atoi(parts[0])
	if err != nil {
		return Release{}, fmt.Errorf("invalid major version %q", parts[0])
	}
	minor, err := strconv.Atoi(parts[1])
	if err != nil {
		return Release{}, fmt.Errorf("invalid minor version %q", parts[1])
	}
	return Release{Major: major, Minor: minor, raw: strings.TrimSpace(s)}, nil
}

// String returns the release as it was written, e.g. "22.04".
func (r Release) String() string {
	if r.raw != "" {
		return r.raw
	}
	return fmt.Sprintf("%d.%02d", r.Major, r.Minor)
}

// OmitsVersionSegment reports whether gvmd data for this release lives in an
// unversioned directory. That is the case for major >= 24 and minor >= 10.
func (r Release) OmitsVersionSegment() bool {
	return r.Major >= 24 && r.Minor >= 10
}

// NormalizePath cleans a filesystem path. Trailing and doubled slashes are
// removed; an empty path stays empty.
func NormalizePath(p string) string {
	if p == "" {
		return ""
	}
	return filepath.Clean(p)
}

// JoinPath appends sub to prefix with exactly one separator between them.
func JoinPath(prefix, sub string) string {
	prefix = strings.TrimRight(prefix, "/")
	sub = strings.TrimLeft(sub, "/")
	if sub == "" {
		return NormalizePath(prefix)
	}
	return NormalizePath(prefix + "/" + sub)
}

// Coerce converts raw into the Go type of kind. Raw values are strings when
// they come from the environment or the command line and TOML typed values
// when they come from a config file.
func Coerce(kind Kind, raw any) (any, error) {
	switch kind {
	case KindString:
		var s string
		if err := mapstructure.WeakDecode(raw, &s); err != nil {
			return nil, err
		}
		return s, nil
	case KindPath:
		var s string
		if err := mapstructure.WeakDecode(raw, &s); err != nil {
			return nil, err
		}
		return NormalizePath(s), nil
	case KindInt:
		var i int
		if err := mapstructure.WeakDecode(raw, &i); err != nil {
			return nil, err
		}
		return i, nil
	case KindBool:
		var b bool
		if err := mapstructure.WeakDecode(raw, &b); err != nil {
			return nil, err
		}
		return b, nil
	case KindIntOrString:
		switch v := raw.(type) {
		case IntOrString:
			return v, nil
		case int:
			return IntOrString{IntVal: v, IsInt: true}, nil
		case int64:
			return IntOrString{IntVal: int(v), IsInt: true}, nil
		}
		var s string
		if err := mapstructure.WeakDecode(raw, &s); err != nil {
			return nil, err
		}
		return ParseIntOrString(s), nil
	case KindRelease:
		switch v := raw.(type) {
		case Release:
			return v, nil
		case string:
			rel, err := ParseRelease(v)
			if err != nil {
				return nil, err
			}
			return rel, nil
		default:
			return nil, fmt.Errorf("release must be given as a string like \"24.10\", got %T", raw)
		}
	default:
		return nil, fmt.Errorf("unknown setting kind %v", kind)
	}
}
