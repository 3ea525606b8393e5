// Package common holds enums shared by configuration and command line.
package common

//go:generate go tool go-enum --marshal --names

// Target browsers, see compat package for flags each preset sets.
// ENUM(all, ie11, ie10, ie9, ie8, ie7)
type Compatibility string

// Layout of produced stylesheet.
// ENUM(compact, pretty)
type OutputFormat int

func (o OutputFormat) Ext() string {
	switch o {
	case OutputFormatPretty:
		return ".css"
	default:
		return ".min.css"
	}
}
