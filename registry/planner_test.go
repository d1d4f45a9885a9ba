package registry

import (
	"testing"
	"time"
)

func testPlanner() *Planner {
	return NewPlanner(func() time.Time { return testCreatedAt })
}

func names(records []ModuleRecord) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, r.Name)
	}
	return out
}

func sameNames(got []ModuleRecord, want ...string) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range want {
		if got[i].Name != want[i] {
			return false
		}
	}
	return true
}

func TestComputePlan_SingleVersion(t *testing.T) {
	current := mustSet(t, "1.2.3", rec("TransferModule", 0x01), rec("GuardianModule", 0x02), rec("LockModule", 0x03))
	req := PlanRequest{
		History:      NewHistory([]*ModuleSet{current}),
		Deploy:       []ModuleRecord{rec("RecoveryModule", 0x04)},
		DisableNames: []string{"LockModule"},
	}

	plan, err := testPlanner().ComputePlan(req)
	if err != nil {
		t.Fatalf("ComputePlan: %v", err)
	}
	if plan.Target.Version() != "1.2.4" {
		t.Fatalf("target version: got %q want 1.2.4", plan.Target.Version())
	}
	if !sameNames(plan.Target.Records(), "GuardianModule", "RecoveryModule", "TransferModule") {
		t.Fatalf("target records: %v", names(plan.Target.Records()))
	}
	if len(plan.Actions) != 1 {
		t.Fatalf("actions: got %d want 1", len(plan.Actions))
	}

	a := plan.Actions[0]
	fromFP, _ := FingerprintString(current)
	if a.FromFingerprint != fromFP || a.ToFingerprint != plan.TargetFingerprint {
		t.Fatalf("fingerprints: %+v", a)
	}
	if !sameNames(a.Add, "RecoveryModule") || !sameNames(a.Remove, "LockModule") {
		t.Fatalf("diff: add=%v remove=%v", names(a.Add), names(a.Remove))
	}
	if a.Mechanism != MechanismModuleBased {
		t.Fatalf("mechanism: got %s", a.Mechanism)
	}
	if a.UpgraderName != fromFP+"-"+plan.TargetFingerprint {
		t.Fatalf("upgrader name: got %q", a.UpgraderName)
	}
}

func TestComputePlan_RedeployByNameStripsOldAddress(t *testing.T) {
	current := mustSet(t, "0.3.0", rec("TransferModule", 0x01), rec("GuardianModule", 0x02))
	redeployed := rec("TransferModule", 0x0a)
	req := PlanRequest{
		History: NewHistory([]*ModuleSet{current}),
		Deploy:  []ModuleRecord{redeployed},
	}

	plan, err := testPlanner().ComputePlan(req)
	if err != nil {
		t.Fatalf("ComputePlan: %v", err)
	}
	if !plan.Target.ContainsAddress(redeployed.Address) {
		t.Fatalf("redeployed address missing from target")
	}
	if plan.Target.ContainsAddress(rec("TransferModule", 0x01).Address) {
		t.Fatalf("old address must be stripped before re-adding")
	}

	a := plan.Actions[0]
	if !sameNames(a.Add, "TransferModule") || !sameNames(a.Remove, "TransferModule") {
		t.Fatalf("diff: add=%v remove=%v", names(a.Add), names(a.Remove))
	}
}

func TestComputePlan_DirectPathsPerVersion(t *testing.T) {
	// v2 (newest) has A,B; v1 has A only; v0 has A,C.
	v2 := mustSet(t, "1.0.2", rec("A", 0x01), rec("B", 0x02))
	v1 := mustSet(t, "1.0.1", rec("A", 0x01))
	v0 := mustSet(t, "1.0.0", rec("A", 0x01), rec("C", 0x03))
	req := PlanRequest{
		History: NewHistory([]*ModuleSet{v2, v1, v0}),
		Deploy:  []ModuleRecord{rec("D", 0x04)},
	}

	plan, err := testPlanner().ComputePlan(req)
	if err != nil {
		t.Fatalf("ComputePlan: %v", err)
	}
	if len(plan.Actions) != 3 {
		t.Fatalf("actions: got %d want 3", len(plan.Actions))
	}
	// Target is A,B,D.
	if !sameNames(plan.Target.Records(), "A", "B", "D") {
		t.Fatalf("target: %v", names(plan.Target.Records()))
	}

	// Each retained version bridges directly to the target, not through the
	// versions between.
	if !sameNames(plan.Actions[1].Add, "B", "D") || len(plan.Actions[1].Remove) != 0 {
		t.Fatalf("v1 diff: add=%v remove=%v", names(plan.Actions[1].Add), names(plan.Actions[1].Remove))
	}
	if !sameNames(plan.Actions[2].Add, "B", "D") || !sameNames(plan.Actions[2].Remove, "C") {
		t.Fatalf("v0 diff: add=%v remove=%v", names(plan.Actions[2].Add), names(plan.Actions[2].Remove))
	}

	// All actions share the same destination.
	for i, a := range plan.Actions {
		if a.ToFingerprint != plan.TargetFingerprint {
			t.Fatalf("action %d destination: %s", i, a.ToFingerprint)
		}
	}
	if plan.Actions[1].FromFingerprint == plan.Actions[2].FromFingerprint {
		t.Fatalf("distinct versions must have distinct source fingerprints")
	}
}

func TestComputePlan_LegacyMechanismAndRemovalOrder(t *testing.T) {
	legacy := mustSet(t, "0.1.0",
		rec(LegacyManagerName, 0x01), rec("TransferModule", 0x02), rec("ZModule", 0x03))
	current := mustSet(t, "0.2.0", rec("TransferModule", 0x02), rec("ZModule", 0x03), rec("GuardianModule", 0x05))
	req := PlanRequest{
		History:      NewHistory([]*ModuleSet{current, legacy}),
		Deploy:       []ModuleRecord{rec("RecoveryModule", 0x04)},
		DisableNames: []string{"ZModule"},
	}

	plan, err := testPlanner().ComputePlan(req)
	if err != nil {
		t.Fatalf("ComputePlan: %v", err)
	}
	if plan.Actions[0].Mechanism != MechanismModuleBased {
		t.Fatalf("newest version mechanism: got %s", plan.Actions[0].Mechanism)
	}

	a := plan.Actions[1]
	if a.Mechanism != MechanismLegacy {
		t.Fatalf("legacy version mechanism: got %s", a.Mechanism)
	}
	// ModuleManager and ZModule both leave; the manager must go last.
	if len(a.Remove) < 2 || a.Remove[len(a.Remove)-1].Name != LegacyManagerName {
		t.Fatalf("legacy manager must be removed last: %v", names(a.Remove))
	}
	// Even legacy upgrades register an upgrader entry.
	if a.UpgraderName != a.FromFingerprint+"-"+a.ToFingerprint {
		t.Fatalf("upgrader name: got %q", a.UpgraderName)
	}
}

// applyAction replays an action's diff onto its source version and returns
// the fingerprint of the resulting set.
func applyAction(t *testing.T, from *ModuleSet, a UpgradeAction) string {
	t.Helper()
	removed := make(map[ModuleRecord]bool, len(a.Remove))
	for _, r := range a.Remove {
		removed[r] = true
	}
	var records []ModuleRecord
	for _, r := range from.Records() {
		if !removed[r] {
			records = append(records, r)
		}
	}
	records = append(records, a.Add...)

	set, err := NewModuleSet("9.9.9", testCreatedAt, records)
	if err != nil {
		t.Fatalf("NewModuleSet after applying action: %v", err)
	}
	fp, err := FingerprintString(set)
	if err != nil {
		t.Fatalf("FingerprintString: %v", err)
	}
	return fp
}

func TestComputePlan_ActionsReproduceTargetFingerprint(t *testing.T) {
	// Two retained versions: the newest redeploys TransferModule and
	// disables ZModule; the older one carries the legacy manager so both
	// mechanisms are exercised.
	current := mustSet(t, "0.2.0", rec("TransferModule", 0x02), rec("ZModule", 0x03), rec("GuardianModule", 0x05))
	legacy := mustSet(t, "0.1.0", rec(LegacyManagerName, 0x01), rec("TransferModule", 0x02), rec("ZModule", 0x03))
	req := PlanRequest{
		History:      NewHistory([]*ModuleSet{current, legacy}),
		Deploy:       []ModuleRecord{rec("TransferModule", 0x0a), rec("RecoveryModule", 0x04)},
		DisableNames: []string{"ZModule"},
	}

	plan, err := testPlanner().ComputePlan(req)
	if err != nil {
		t.Fatalf("ComputePlan: %v", err)
	}
	if len(plan.Actions) != 2 {
		t.Fatalf("actions: got %d want 2", len(plan.Actions))
	}

	// Applying each action's Remove then Add to its source version must
	// land exactly on the target configuration.
	for i, a := range plan.Actions {
		if got := applyAction(t, req.History.At(i), a); got != plan.TargetFingerprint {
			t.Fatalf("action %d: applied fingerprint %s, target %s", i, got, plan.TargetFingerprint)
		}
	}
}

func TestComputePlan_MinimumVersion(t *testing.T) {
	current := mustSet(t, "1.2.3", rec("A", 0x01))
	base := PlanRequest{
		History: NewHistory([]*ModuleSet{current}),
		Deploy:  []ModuleRecord{rec("B", 0x02)},
	}

	req := base
	req.MinimumVersion = "2.0.0"
	plan, err := testPlanner().ComputePlan(req)
	if err != nil {
		t.Fatalf("ComputePlan: %v", err)
	}
	if plan.Target.Version() != "2.0.0" {
		t.Fatalf("minimum should win: got %q", plan.Target.Version())
	}

	req = base
	req.MinimumVersion = "1.0.0"
	plan, err = testPlanner().ComputePlan(req)
	if err != nil {
		t.Fatalf("ComputePlan: %v", err)
	}
	if plan.Target.Version() != "1.2.4" {
		t.Fatalf("patch bump should win: got %q", plan.Target.Version())
	}
}

func TestComputePlan_FailsFast(t *testing.T) {
	current := mustSet(t, "1.0.0", rec("A", 0x01))

	// Corrupt historical version: empty name slipped past construction.
	corrupt := &ModuleSet{version: "0.9.0", createdAt: testCreatedAt,
		records: []ModuleRecord{{Name: "", Address: rec("X", 0x09).Address}}}
	req := PlanRequest{
		History: NewHistory([]*ModuleSet{current, corrupt}),
		Deploy:  []ModuleRecord{rec("B", 0x02)},
	}
	plan, err := testPlanner().ComputePlan(req)
	if !IsKind(err, KindPlan) {
		t.Fatalf("corrupt history: got %v, want plan error", err)
	}
	if plan != nil {
		t.Fatalf("no partial plan may be emitted")
	}

	// Empty history.
	if _, err := testPlanner().ComputePlan(PlanRequest{Deploy: []ModuleRecord{rec("B", 0x02)}}); !IsKind(err, KindPlan) {
		t.Fatalf("empty history: got %v", err)
	}

	// Deployed module colliding by address with a retained module.
	collide := PlanRequest{
		History: NewHistory([]*ModuleSet{current}),
		Deploy:  []ModuleRecord{{Name: "B", Address: rec("A", 0x01).Address}},
	}
	if _, err := testPlanner().ComputePlan(collide); !IsKind(err, KindPlan) {
		t.Fatalf("address collision: got %v", err)
	}
}
