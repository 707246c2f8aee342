package orchestrator

import "fmt"

// Epoch is a Cardano ledger epoch number.
type Epoch uint64

// Stage identifies one step of the startup sequence.
type Stage int

const (
	StagePrepare Stage = iota + 1
	StageNetwork
	StageMithril
	StageGateway
	StageSidechain
	StageRelayer
	StageAppchain
	StageRelayConfig
	StageGenesis
)

type stageText struct {
	name    string
	success string
	failure string
}

var stages = map[Stage]stageText{
	StagePrepare: {
		name:    "prepare",
		success: "✅ Osmosis appchain prepared",
		failure: "Failed to prepare Osmosis appchain",
	},
	StageNetwork: {
		name:    "network",
		success: "✅ Local Cardano network has been started and prepared",
		failure: "Failed to start local Cardano network",
	},
	StageMithril: {
		name:    "mithril",
		success: "✅ Mithril up and running",
		failure: "Failed to start Mithril",
	},
	StageGateway: {
		name:    "gateway",
		success: "✅ Gateway started successfully",
		failure: "Failed to start gateway",
	},
	StageSidechain: {
		name:    "sidechain",
		success: "✅ Cosmos sidechain up and running",
		failure: "Failed to start Cosmos sidechain",
	},
	StageRelayer: {
		name:    "relayer",
		success: "✅ Relayer started successfully",
		failure: "Failed to start relayer",
	},
	StageAppchain: {
		name:    "appchain",
		success: "✅ Osmosis appchain is up and running",
		failure: "Failed to start Osmosis",
	},
	StageRelayConfig: {
		name:    "hermes",
		success: "✅ Hermes configured successfully and channels built",
		failure: "Failed to configure Hermes",
	},
	StageGenesis: {
		name:    "genesis",
		success: "✅ Immutable Cardano node files have been created, and Mithril is working as expected",
		failure: "Mithril failed to read the immutable cardano node files",
	},
}

func (s Stage) String() string {
	if t, ok := stages[s]; ok {
		return t.name
	}
	return fmt.Sprintf("stage(%d)", int(s))
}

// StepError is the outcome of a failed start: the stage that failed and why.
type StepError struct {
	Stage Stage
	Cause error
}

func (e *StepError) Error() string {
	if t, ok := stages[e.Stage]; ok {
		return fmt.Sprintf("%s: %v", t.failure, e.Cause)
	}
	return fmt.Sprintf("%s failed: %v", e.Stage, e.Cause)
}

func (e *StepError) Unwrap() error {
	return e.Cause
}
