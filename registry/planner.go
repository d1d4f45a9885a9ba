package registry

import (
	"fmt"
	"sort"
	"time"
)

// Mechanism selects how one historical version is upgraded.
type Mechanism string

const (
	// MechanismLegacy is required when a historical version still carries
	// the legacy manager module; removal order matters there.
	MechanismLegacy Mechanism = "Legacy"
	// MechanismModuleBased uses a dedicated upgrader module.
	MechanismModuleBased Mechanism = "ModuleBased"
)

// LegacyManagerName marks a historical version as needing the legacy
// mechanism. When removed, this record is always ordered last: removing the
// manager before its dependents is unsafe.
const LegacyManagerName = "ModuleManager"

// UpgradeAction bridges one historical configuration directly to the new
// target. Immutable once computed.
type UpgradeAction struct {
	FromFingerprint string
	ToFingerprint   string
	Add             []ModuleRecord
	Remove          []ModuleRecord
	Mechanism       Mechanism

	// UpgraderName keys the upgrader entry in the module registry for this
	// fingerprint pair, regardless of mechanism.
	UpgraderName string
}

// PlanRequest describes one planning run.
type PlanRequest struct {
	// History holds the retained published versions, newest first.
	History History

	// Deploy lists the newly deployed module records to add.
	Deploy []ModuleRecord

	// DisableNames lists module names to strip from the current version.
	DisableNames []string

	// MinimumVersion, when set, is the lowest acceptable target version.
	// The target version is max(MinimumVersion, patch increment of the
	// newest version).
	MinimumVersion string
}

// Plan is the planner's output: the new target configuration plus one
// independent upgrade action per retained historical version.
type Plan struct {
	Target            *ModuleSet
	TargetFingerprint string
	Actions           []UpgradeAction
}

// Planner computes upgrade plans. Planning is pure: it never touches the
// store; submission of the emitted actions is the caller's concern and is
// per-action atomic.
type Planner struct {
	now func() time.Time
}

// NewPlanner constructs a planner. now stamps the target set's CreatedAt;
// nil means time.Now.
func NewPlanner(now func() time.Time) *Planner {
	if now == nil {
		now = time.Now
	}
	return &Planner{now: now}
}

// ComputePlan walks the history newest to oldest and emits one upgrade
// action per version, each a direct path to the new target (not a chain
// through intermediate versions).
//
// Any malformed historical record aborts the whole batch with a Plan error;
// no partial migration is emitted.
func (p *Planner) ComputePlan(req PlanRequest) (*Plan, error) {
	if req.History.Len() == 0 {
		return nil, newError(KindPlan, "REG-PLAN-010", "empty version history")
	}
	for i := 0; i < req.History.Len(); i++ {
		for _, r := range req.History.At(i).Records() {
			if err := checkRecord(r); err != nil {
				return nil, wrapError(KindPlan, "REG-PLAN-011", fmt.Sprintf("history version %d is corrupt", i), err)
			}
		}
	}
	for _, r := range req.Deploy {
		if err := checkRecord(r); err != nil {
			return nil, wrapError(KindPlan, "REG-PLAN-012", "malformed deployed module", err)
		}
	}

	newest := req.History.At(0)

	// Both disabled and newly-deployed names are stripped from the current
	// version before re-adding, so a redeployed module can never collide
	// with its predecessor by name.
	strip := make(map[string]bool, len(req.DisableNames)+len(req.Deploy))
	for _, n := range req.DisableNames {
		strip[n] = true
	}
	for _, r := range req.Deploy {
		strip[r.Name] = true
	}

	var headRemove []ModuleRecord
	target := make([]ModuleRecord, 0, newest.Len()+len(req.Deploy))
	for _, r := range newest.Records() {
		if strip[r.Name] {
			headRemove = append(headRemove, r)
			continue
		}
		target = append(target, r)
	}
	target = append(target, req.Deploy...)

	targetVersion, err := p.targetVersion(newest.Version(), req.MinimumVersion)
	if err != nil {
		return nil, err
	}
	targetSet, err := NewModuleSet(targetVersion, p.now(), target)
	if err != nil {
		return nil, wrapError(KindPlan, "REG-PLAN-013", "target configuration is inconsistent", err)
	}
	toFP, err := FingerprintString(targetSet)
	if err != nil {
		return nil, err
	}

	actions := make([]UpgradeAction, 0, req.History.Len())
	for i := 0; i < req.History.Len(); i++ {
		hist := req.History.At(i)
		fromFP, err := FingerprintString(hist)
		if err != nil {
			return nil, err
		}

		var add, remove []ModuleRecord
		if i == 0 {
			add = append(add, req.Deploy...)
			remove = append(remove, headRemove...)
		} else {
			for _, r := range targetSet.Records() {
				if !hist.ContainsAddress(r.Address) {
					add = append(add, r)
				}
			}
			for _, r := range hist.Records() {
				if !targetSet.ContainsAddress(r.Address) {
					remove = append(remove, r)
				}
			}
		}

		mechanism := MechanismModuleBased
		if hist.ContainsName(LegacyManagerName) {
			mechanism = MechanismLegacy
		}
		orderRemovals(remove)

		actions = append(actions, UpgradeAction{
			FromFingerprint: fromFP,
			ToFingerprint:   toFP,
			Add:             sortByName(add),
			Remove:          remove,
			Mechanism:       mechanism,
			UpgraderName:    fromFP + "-" + toFP,
		})
	}

	return &Plan{Target: targetSet, TargetFingerprint: toFP, Actions: actions}, nil
}

func (p *Planner) targetVersion(current, minimum string) (string, error) {
	cur, err := parseVersion(current)
	if err != nil {
		return "", wrapError(KindPlan, "REG-PLAN-014", fmt.Sprintf("current version %q is malformed", current), err)
	}
	next := cur.patchIncrement()
	if minimum != "" {
		min, err := parseVersion(minimum)
		if err != nil {
			return "", wrapError(KindPlan, "REG-PLAN-015", fmt.Sprintf("minimum version %q is malformed", minimum), err)
		}
		next = maxVersion(min, next)
	}
	return next.String(), nil
}

func sortByName(records []ModuleRecord) []ModuleRecord {
	sort.Slice(records, func(i, j int) bool { return records[i].Name < records[j].Name })
	return records
}

// orderRemovals sorts removals by name but keeps the legacy manager last.
func orderRemovals(records []ModuleRecord) {
	sortByName(records)
	for i, r := range records {
		if r.Name == LegacyManagerName && i != len(records)-1 {
			copy(records[i:], records[i+1:])
			records[len(records)-1] = r
			break
		}
	}
}
