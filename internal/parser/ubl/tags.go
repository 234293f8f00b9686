package ubl

import "strings"

// namespaces carried by Fina/Moj-eRacun envelopes, in Clark notation
var nsFilter = [...]string{
	"{urn:oasis:names:specification:ubl:schema:xsd:CommonExtensionComponents-2}",
	"{urn:oasis:names:specification:ubl:schema:xsd:CommonBasicComponents-2}",
	"{urn:oasis:names:specification:ubl:schema:xsd:CommonAggregateComponents-2}",
	"{urn:oasis:names:specification:ubl:schema:xsd:Invoice-2}",
}

// prefixes conventionally bound to the namespaces above
var prefixFilter = map[string]bool{
	"ext": true,
	"cbc": true,
	"cac": true,
	"ubl": true,
}

// StripTag returns the local name of a qualified UBL tag. Both Clark
// notation ({uri}Name) and prefixed (cbc:Name) forms are handled; tags
// with unknown prefixes pass through unchanged. Stripping is idempotent,
// so it is safe to normalize a tag that is already bare.
func StripTag(tag string) string {
	for _, ns := range nsFilter {
		tag = strings.ReplaceAll(tag, ns, "")
	}
	if i := strings.IndexByte(tag, ':'); i >= 0 && prefixFilter[tag[:i]] {
		tag = tag[i+1:]
	}
	return tag
}
