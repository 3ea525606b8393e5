package properties

import (
	"strings"
)

const importantMarker = "!important"

// Wrap builds declaration from raw name and value atoms. It strips and
// records importance marker, IE prefix and suffix hacks and derives name root
// and vendor prefix. Value slice is not retained.
func Wrap(name string, value []Atom, positions ...Position) Declaration {
	d := Declaration{
		Name:          name,
		NamePositions: positions,
		Value:         cloneAtoms(value),
	}

	bare := strings.TrimSpace(name)
	switch {
	case strings.HasPrefix(bare, "_"):
		d.Hack.Kind = HackUnderscore
		bare = bare[1:]
	case strings.HasPrefix(bare, "*"):
		d.Hack.Kind = HackAsterisk
		bare = bare[1:]
	}
	bare = strings.ToLower(bare)
	d.Prefix, d.NameRoot = splitPrefix(bare)

	if last := len(d.Value) - 1; last >= 0 && d.Value[last].Kind == AtomLiteral && strings.EqualFold(d.Value[last].Text, importantMarker) {
		d.Important = true
		d.Value = d.Value[:last]
	}

	if d.Hack.Kind != HackNone {
		return d
	}

	if last := len(d.Value) - 1; last >= 0 && d.Value[last].Kind == AtomLiteral {
		text := d.Value[last].Text
		switch {
		case strings.EqualFold(text, "!ie"):
			d.Hack = Hack{Kind: HackBang, Suffix: text}
			d.Value = d.Value[:last]
		case len(text) > 2 && strings.HasSuffix(text, `\9`):
			d.Hack = Hack{Kind: HackBackslash, Suffix: `\9`}
			d.Value[last].Text = strings.TrimSuffix(text, `\9`)
		case text == `\9`:
			d.Hack = Hack{Kind: HackBackslash, Suffix: `\9`}
			d.Value = d.Value[:last]
		}
	}
	return d
}

// splitPrefix separates vendor prefix from lowercased property name.
// Custom properties have no prefix.
func splitPrefix(name string) (prefix, root string) {
	if len(name) < 3 || name[0] != '-' || name[1] == '-' {
		return "", name
	}
	if i := strings.IndexByte(name[1:], '-'); i > 0 && i+2 < len(name) {
		return name[:i+2], name[i+2:]
	}
	return "", name
}

// IsCustom reports whether declaration defines a custom property.
func (d *Declaration) IsCustom() bool {
	return strings.HasPrefix(d.NameRoot, "--")
}
