// Package compat describes browser compatibility profiles. A profile gates
// which property merges are considered safe and which value syntax the
// validator accepts.
package compat

import (
	"fmt"
	"maps"
	"strings"
)

// Profile is a set of flags describing what target browsers understand.
type Profile struct {
	Name string

	Colors struct {
		Opacity  bool // rgba(), hsla() and friends
		HexAlpha bool // #rgba and #rrggbbaa
	}

	Properties struct {
		BackgroundClipMerging   bool // background-clip may be folded into background
		BackgroundOriginMerging bool // background-origin may be folded into background
		BackgroundSizeMerging   bool // background-size may be folded into background
		Merging                 bool // merging into shorthands which may break old browsers
		IEBangHack              bool // !ie suffix is recognized
		IEPrefixHack            bool // _ and * name prefixes are recognized
		IESuffixHack            bool // \9 value suffix is recognized
	}

	// Units lists non-universal length units and whether target browsers
	// understand them. Units missing from the map are always understood.
	Units map[string]bool
}

func modern() *Profile {
	p := &Profile{Name: "*"}
	p.Colors.Opacity = true
	p.Colors.HexAlpha = false
	p.Properties.BackgroundClipMerging = true
	p.Properties.BackgroundOriginMerging = true
	p.Properties.BackgroundSizeMerging = true
	p.Properties.Merging = true
	p.Units = map[string]bool{
		"ch": true, "in": true, "pc": true, "pt": true, "rem": true,
		"vh": true, "vm": true, "vmax": true, "vmin": true, "vw": true,
	}
	return p
}

func ie9() *Profile {
	p := modern()
	p.Name = "ie9"
	p.Properties.IESuffixHack = true
	return p
}

func ie8() *Profile {
	p := ie9()
	p.Name = "ie8"
	p.Colors.Opacity = false
	p.Properties.BackgroundClipMerging = false
	p.Properties.BackgroundOriginMerging = false
	p.Properties.BackgroundSizeMerging = false
	p.Properties.IEPrefixHack = true
	p.Properties.Merging = false
	for _, u := range []string{"ch", "rem", "vh", "vm", "vmax", "vmin", "vw"} {
		p.Units[u] = false
	}
	return p
}

func ie7() *Profile {
	p := ie8()
	p.Name = "ie7"
	p.Properties.IEBangHack = true
	return p
}

var presets = map[string]func() *Profile{
	"*":    modern,
	"all":  modern,
	"ie11": func() *Profile { p := modern(); p.Name = "ie11"; return p },
	"ie10": func() *Profile { p := modern(); p.Name = "ie10"; return p },
	"ie9":  ie9,
	"ie8":  ie8,
	"ie7":  ie7,
}

// Default returns profile targeting all modern browsers.
func Default() *Profile {
	return modern()
}

// Lookup returns a fresh copy of the named preset.
func Lookup(name string) (*Profile, error) {
	fn, ok := presets[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("unknown compatibility preset %q", name)
	}
	return fn(), nil
}

// Parse builds profile from a comma separated list: the first element may
// name a preset, the rest toggle individual flags with "+" or "-", for
// example "ie8,+properties.merging,-units.pt".
func Parse(spec string) (*Profile, error) {
	parts := strings.Split(spec, ",")
	p := Default()

	first := strings.TrimSpace(parts[0])
	if first != "" && first[0] != '+' && first[0] != '-' {
		var err error
		if p, err = Lookup(first); err != nil {
			return nil, err
		}
		parts = parts[1:]
	}

	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if len(part) < 2 || (part[0] != '+' && part[0] != '-') {
			return nil, fmt.Errorf("malformed compatibility flag %q", part)
		}
		if err := p.set(part[1:], part[0] == '+'); err != nil {
			return nil, err
		}
	}
	return p, nil
}

func (p *Profile) set(flag string, on bool) error {
	group, name, ok := strings.Cut(strings.ToLower(flag), ".")
	if !ok {
		return fmt.Errorf("compatibility flag %q must be in group.name form", flag)
	}
	switch group {
	case "colors":
		switch name {
		case "opacity":
			p.Colors.Opacity = on
		case "hexalpha":
			p.Colors.HexAlpha = on
		default:
			return fmt.Errorf("unknown colors flag %q", name)
		}
	case "properties":
		switch name {
		case "backgroundclipmerging":
			p.Properties.BackgroundClipMerging = on
		case "backgroundoriginmerging":
			p.Properties.BackgroundOriginMerging = on
		case "backgroundsizemerging":
			p.Properties.BackgroundSizeMerging = on
		case "merging":
			p.Properties.Merging = on
		case "iebanghack":
			p.Properties.IEBangHack = on
		case "ieprefixhack":
			p.Properties.IEPrefixHack = on
		case "iesuffixhack":
			p.Properties.IESuffixHack = on
		default:
			return fmt.Errorf("unknown properties flag %q", name)
		}
	case "units":
		p.Units[name] = on
	default:
		return fmt.Errorf("unknown compatibility group %q", group)
	}
	return nil
}

// Clone returns deep copy of the profile.
func (p *Profile) Clone() *Profile {
	c := *p
	c.Units = maps.Clone(p.Units)
	return &c
}

// SupportsUnit reports whether length unit is understood by target browsers.
func (p *Profile) SupportsUnit(unit string) bool {
	on, known := p.Units[strings.ToLower(unit)]
	return !known || on
}
