// Package presets resolves a handful of named image-size shorthands (e.g.
// "floppy360k") to a raw byte count, so `mkfs` doesn't force every caller to
// remember magic numbers. It never changes the meaning of spec §6's
// `mkfs <bytes>`: a slug is resolved to a byte count before the engine ever
// sees it.
package presets

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/gocarina/gocsv"
)

// size is one row of the embedded preset table.
type size struct {
	Slug  string `csv:"slug"`
	Bytes uint64 `csv:"bytes"`
	Notes string `csv:"notes"`
}

//go:embed sizes.csv
var rawCSV string

var bySlug map[string]size

func init() {
	bySlug = make(map[string]size)
	var rows []size
	if err := gocsv.UnmarshalString(rawCSV, &rows); err != nil {
		panic(fmt.Sprintf("presets: embedded size table is malformed: %s", err))
	}
	for _, row := range rows {
		bySlug[row.Slug] = row
	}
}

// Resolve returns the byte count for a named preset, or ok=false if slug
// isn't one of the known presets.
func Resolve(slug string) (bytes uint64, ok bool) {
	row, found := bySlug[strings.ToLower(slug)]
	if !found {
		return 0, false
	}
	return row.Bytes, true
}

// Names returns every known preset slug, for help text.
func Names() []string {
	names := make([]string, 0, len(bySlug))
	for slug := range bySlug {
		names = append(names, slug)
	}
	return names
}
