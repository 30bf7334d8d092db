package feed

import configdomain "github.com/greenbone/greenbone-feed-sync/internal/core/domain/config"

// Group names.
const (
	GroupOpenvas = "openvas"
	GroupGvmd    = "gvmd"
)

// Groups returns the fixed sync groups in processing order: the scanner
// data guarded by the openvas lock first, then the gvmd data.
//
// Report formats, scan configs and port lists are part of the gvmd data
// tree, so they are not tagged "all" and only sync when selected directly.
func Groups(opts configdomain.Options) []Group {
	return []Group{
		{
			Name:     GroupOpenvas,
			LockFile: opts.OpenvasLockFile,
			Targets: []Target{
				NewTarget("Notus files", opts.NotusURL, opts.NotusDestination, TypeNVT, TypeNotus, TypeAll),
				NewTarget("NASL files", opts.NaslURL, opts.NaslDestination, TypeNVT, TypeNASL, TypeAll),
			},
		},
		{
			Name:     GroupGvmd,
			LockFile: opts.GvmdLockFile,
			Targets: []Target{
				NewTarget("gvmd data", opts.GvmdDataURL, opts.GvmdDataDestination, TypeGvmdData, TypeAll),
				NewTarget("SCAP data", opts.ScapDataURL, opts.ScapDataDestination, TypeSCAP, TypeAll),
				NewTarget("CERT-Bund data", opts.CertDataURL, opts.CertDataDestination, TypeCERT, TypeAll),
				NewTarget("report formats", opts.ReportFormatsURL, opts.ReportFormatsDestination, TypeReportFormat),
				NewTarget("scan configs", opts.ScanConfigsURL, opts.ScanConfigsDestination, TypeScanConfig),
				NewTarget("port lists", opts.PortListsURL, opts.PortListsDestination, TypePortList),
			},
		},
	}
}

// Select returns the groups filtered by selector, dropping empty ones.
func Select(groups []Group, selector Type) []Group {
	var selected []Group
	for _, g := range groups {
		if filtered := g.Filter(selector); !filtered.Empty() {
			selected = append(selected, filtered)
		}
	}
	return selected
}
