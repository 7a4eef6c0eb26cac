package core

// DrawerSettings are the per-drawer display preferences persisted inside
// the encrypted payload (spec §3/§6). All fields default to false.
type DrawerSettings struct {
	HideValues        bool `msgpack:"hide_values"`
	OpenAllValues     bool `msgpack:"open_all_values"`
	ValuesAsMarkdown  bool `msgpack:"values_as_markdown"`
}
