// Package config reads and writes the persisted curation config.
//
// The config is the JSON file (config.json in the source directory) that
// records font parameters and, for every glyph worth remembering, its
// identity and current state:
//
//	{
//	  "name": "icons",
//	  "units_per_em": 1000,
//	  "ascent": 850,
//	  "glyphs": [
//	    {"uid": "3f1c...", "name": "home", "code": 59392,
//	     "contentHash": "9b2e...", "ownerFontId": "icons",
//	     "outline": "M0 0...", "width": 1000, "selected": true},
//	    {"uid": "lib-7a...", "name": "star", "code": 59393,
//	     "ownerFontId": "fontelico", "selected": true}
//	  ]
//	}
//
// [Serialize] lists the selected glyphs in selection order, then the
// unselected custom glyphs. Outlines are stored only for custom glyphs;
// library glyphs are restored from their font by uid.
//
// Configs written by older tools that use "src" for the owner font and an
// "svg" object with "path" and "width" are read transparently.
package config
