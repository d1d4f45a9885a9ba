package model

// ModuleRecord is the wire form of one registered module.
// Address is 0x-prefixed hex.
type ModuleRecord struct {
	Name    string `json:"name"`
	Address string `json:"address"`
}

// PlanRequest asks the planner for upgrade actions against published history.
//
// History holds canonical module-set documents, newest first; tools usually
// hydrate it from the store by fingerprint.
type PlanRequest struct {
	History        [][]byte       `json:"history"`
	Deploy         []ModuleRecord `json:"deploy"`
	DisableNames   []string       `json:"disableNames,omitempty"`
	MinimumVersion string         `json:"minimumVersion,omitempty"`
}

// UpgradeAction is the wire form of one planned upgrade.
type UpgradeAction struct {
	FromFingerprint string         `json:"fromFingerprint"`
	ToFingerprint   string         `json:"toFingerprint"`
	Add             []ModuleRecord `json:"add"`
	Remove          []ModuleRecord `json:"remove"`
	Mechanism       string         `json:"mechanism"`
	UpgraderName    string         `json:"upgraderName"`
}

// PlanResponse is the planner's output for one request.
type PlanResponse struct {
	TargetFingerprint string          `json:"targetFingerprint"`
	TargetVersion     string          `json:"targetVersion"`
	Actions           []UpgradeAction `json:"actions"`
}

// MemberSignature is one admin group member's signature over a registry
// submission. Sig is base64 as emitted by the keys package signers.
type MemberSignature struct {
	KeyID string `json:"keyId"`
	Sig   string `json:"sig"`
}

// RegistrationRequest submits a module or upgrader entry for registration.
// Kind is "module" or "upgrader".
type RegistrationRequest struct {
	Kind       string            `json:"kind"`
	Name       string            `json:"name"`
	Address    string            `json:"address"`
	Signatures []MemberSignature `json:"signatures"`
}

// RelayReceipt is the wire form of a relay execution receipt.
type RelayReceipt struct {
	MessageHash string `json:"messageHash"`
	Wallet      string `json:"wallet"`
	Nonce       uint64 `json:"nonce"`
	Success     bool   `json:"success"`
	Reason      string `json:"reason,omitempty"`
}
