package config

import "path/filepath"

// Layout maps a project root to the working directory of each service.
// Everything is derived from Root so teardown never needs captured state.
type Layout struct {
	Root string
}

func (l Layout) Cardano() string { return filepath.Join(l.Root, "chains", "cardano") }

func (l Layout) Mithril() string { return filepath.Join(l.Root, "chains", "mithrils") }

func (l Layout) Gateway() string { return filepath.Join(l.Root, "cardano", "gateway") }

func (l Layout) Cosmos() string { return filepath.Join(l.Root, "cosmos") }

func (l Layout) Relayer() string { return filepath.Join(l.Root, "relayer") }

func (l Layout) Osmosis() string { return filepath.Join(l.Root, "chains", "osmosis", "osmosis") }

// OsmosisOverlay holds the files copied over a fresh Osmosis checkout.
func (l Layout) OsmosisOverlay() string {
	return filepath.Join(l.Root, "chains", "osmosis", "configuration")
}

// ImmutableDB is where the devnet node writes immutable chunk files.
func (l Layout) ImmutableDB() string {
	return filepath.Join(l.Cardano(), "devnet", "db", "immutable")
}
