package ubl

import "github.com/beevik/etree"

// Section is the flattened view of one XML aggregate: element text for
// leaf children, a nested Section for children that have children of
// their own. Later children with a duplicate tag overwrite earlier ones.
type Section map[string]any

// flatten visits each immediate child of el once, normalizing its tag and
// recursing into children that themselves have children. It is the default
// handler for any aggregate that needs no special treatment.
func flatten(el *etree.Element) Section {
	s := Section{}
	for _, child := range el.ChildElements() {
		tag := StripTag(child.Tag)
		if len(child.ChildElements()) > 0 {
			s[tag] = flatten(child)
		} else {
			s[tag] = child.Text()
		}
	}
	return s
}

// text returns the leaf value under tag, empty when absent or nested.
func (s Section) text(tag string) string {
	v, _ := s[tag].(string)
	return v
}

// childText returns the text of the last child of el with the given local
// tag, mirroring the last-wins duplicate handling of flatten.
func childText(el *etree.Element, tag string) string {
	var out string
	for _, c := range el.ChildElements() {
		if StripTag(c.Tag) == tag {
			out = c.Text()
		}
	}
	return out
}

// findChild returns the last child of el with the given local tag.
func findChild(el *etree.Element, tag string) *etree.Element {
	var out *etree.Element
	for _, c := range el.ChildElements() {
		if StripTag(c.Tag) == tag {
			out = c
		}
	}
	return out
}
