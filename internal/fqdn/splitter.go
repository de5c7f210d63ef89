// internal/fqdn/splitter.go
package fqdn

import (
	"fmt"

	"github.com/weppos/publicsuffix-go/publicsuffix"
)

// Splitter separates a host name into its registrable label and its public
// suffix. ok=false means no listed suffix applies.
type Splitter interface {
	Split(name string) (registrable, suffix string, ok bool)
}

// PSLSplitter splits against the ICANN section of a public suffix list.
// Private suffixes are ignored and there is no implicit "*" rule, so a name
// whose TLD is not on the list has no suffix.
type PSLSplitter struct {
	list *publicsuffix.List
	opts *publicsuffix.FindOptions
}

// NewPSLSplitter uses list, or the embedded default list when nil.
func NewPSLSplitter(list *publicsuffix.List) *PSLSplitter {
	if list == nil {
		list = publicsuffix.DefaultList
	}
	return &PSLSplitter{
		list: list,
		opts: &publicsuffix.FindOptions{IgnorePrivate: true, DefaultRule: nil},
	}
}

// LoadPSL reads a public_suffix_list.dat snapshot from path.
func LoadPSL(path string) (*PSLSplitter, error) {
	l, err := publicsuffix.NewListFromFile(path, &publicsuffix.ParserOption{PrivateDomains: false})
	if err != nil {
		return nil, fmt.Errorf("load public suffix list %q: %w", path, err)
	}
	if l.Size() == 0 {
		return nil, fmt.Errorf("load public suffix list %q: no rules", path)
	}
	return NewPSLSplitter(l), nil
}

func (p *PSLSplitter) Split(name string) (string, string, bool) {
	dn, err := publicsuffix.ParseFromListWithOptions(p.list, name, p.opts)
	if err != nil || dn == nil {
		return "", "", false
	}
	return dn.SLD, dn.TLD, dn.SLD != "" && dn.TLD != ""
}
