// Package resources maps the backend's wire records to view records and
// back, one pair of functions per resource. Decoding is lenient: missing or
// malformed fields become "" or 0, never an error.
package resources

// Info describes a resource for menus and the CLI.
type Info struct {
	Name    string
	Title   string
	Filters []string
}

var All = []Info{
	{Name: KasEndpoint.Name, Title: "Keuangan Kas", Filters: []string{"start_date", "end_date", "tab"}},
	{Name: PengajuanEndpoint.Name, Title: "Pengajuan Biaya Kas", Filters: []string{"start_date", "end_date", "status"}},
	{Name: BankDepositEndpoint.Name, Title: "Bank Deposit", Filters: []string{"start_date", "end_date", "bank"}},
	{Name: FeedmilEndpoint.Name, Title: "Pembelian Feedmil", Filters: []string{"start_date", "end_date", "supplier"}},
	{Name: OVKEndpoint.Name, Title: "Pembelian OVK", Filters: []string{"start_date", "end_date", "supplier"}},
	{Name: TandaTerimaEndpoint.Name, Title: "Tanda Terima", Filters: []string{"start_date", "end_date"}},
}

// Lookup finds a resource by its path segment.
func Lookup(name string) (Info, bool) {
	for _, i := range All {
		if i.Name == name {
			return i, true
		}
	}
	return Info{}, false
}
