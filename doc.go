// Package caribic provides orchestration for the Cardano to Cosmos IBC testbed.
//
// This repository starts and stops a local Cardano devnet, Mithril, the
// Cardano gateway, a Cosmos sidechain, the relayer and an Osmosis appchain,
// and connects Osmosis to the sidechain over IBC with Hermes.
//
// # Overview
//
// The caribic CLI provides:
//   - caribic check: prerequisite verification
//   - caribic start: ordered startup with automatic teardown on failure
//   - caribic stop: best-effort teardown of every service
//   - caribic status: endpoint health
//
// # Installation
//
//	go install github.com/blackwell-systems/caribic/cmd/caribic@latest
//
// # Quick Start
//
//	caribic check
//	caribic start --mithril
//	caribic status
//	caribic stop
//
// # Startup order
//
// Services start strictly one after another:
//   - prepare the Osmosis checkout
//   - Cardano devnet
//   - Mithril (optional)
//   - gateway
//   - Cosmos sidechain
//   - relayer
//   - Osmosis appchain
//   - Hermes channels
//   - Mithril genesis certification (optional)
//
// Any failure stops the Cardano network, Cosmos sidechain, relayer, Osmosis
// and Mithril, in that order, and exits with status 1.
//
// # License
//
// Apache 2.0 - See LICENSE file for details.
package caribic
