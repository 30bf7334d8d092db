package feed

import (
	"fmt"
	"strings"
)

// Type selects which feeds a sync run covers.
type Type string

const (
	TypeAll          Type = "all"
	TypeNVT          Type = "nvt"
	TypeGvmdData     Type = "gvmd-data"
	TypeSCAP         Type = "scap"
	TypeCERT         Type = "cert"
	TypeNotus        Type = "notus"
	TypeNASL         Type = "nasl"
	TypeReportFormat Type = "report-format"
	TypeScanConfig   Type = "scan-config"
	TypePortList     Type = "port-list"
)

// Types is the closed vocabulary accepted by --type.
var Types = []Type{
	TypeAll,
	TypeNVT,
	TypeGvmdData,
	TypeSCAP,
	TypeCERT,
	TypeNotus,
	TypeNASL,
	TypeReportFormat,
	TypeScanConfig,
	TypePortList,
}

var pluralTypes = map[string]bool{
	"nvts":           true,
	"report-formats": true,
	"port-lists":     true,
	"scan-configs":   true,
}

// Normalize lowercases value, turns underscores into hyphens and strips the
// plural form, so "NVTs" and "REPORT_FORMATS" become "nvt" and
// "report-format". It does not validate the result.
func Normalize(value string) string {
	value = strings.ToLower(strings.ReplaceAll(strings.TrimSpace(value), "_", "-"))
	if pluralTypes[value] {
		return strings.TrimSuffix(value, "s")
	}
	return value
}

// ParseType normalizes value and checks it against the vocabulary.
func ParseType(value string) (Type, error) {
	normalized := Type(Normalize(value))
	for _, t := range Types {
		if t == normalized {
			return t, nil
		}
	}
	return "", fmt.Errorf("invalid feed type %q (choose from %s)", value, typeList())
}

func typeList() string {
	names := make([]string, len(Types))
	for i, t := range Types {
		names[i] = string(t)
	}
	return strings.Join(names, ", ")
}
