package featureflags

import (
	"strconv"
	"testing"

	"uniconnect/internal/models"
)

func TestEnabled_BooleanValues(t *testing.T) {
	m := NewManager("a=on,b=off,c=true,d=false,e=1,f=0")

	if !m.Enabled("a", "1") || !m.Enabled("c", "1") || !m.Enabled("e", "1") {
		t.Fatal("expected enabled boolean values to evaluate true")
	}
	if m.Enabled("b", "1") || m.Enabled("d", "1") || m.Enabled("f", "1") {
		t.Fatal("expected disabled boolean values to evaluate false")
	}
}

func TestEnabled_PercentageValues(t *testing.T) {
	m := NewManager("always=100%,never=0%,canary=25%")

	if !m.Enabled("always", "u1") {
		t.Fatal("100% rollout should always be enabled")
	}
	if m.Enabled("never", "u1") {
		t.Fatal("0% rollout should always be disabled")
	}

	first := m.Enabled("canary", "42")
	for i := 0; i < 5; i++ {
		if got := m.Enabled("canary", "42"); got != first {
			t.Fatal("rollout evaluation must be deterministic per subject")
		}
	}

	if m.Enabled("canary", "") {
		t.Fatal("percentage rollout requires a subject")
	}
}

func TestRemoteFor(t *testing.T) {
	m := NewManager(DefaultFlags)

	if !m.RemoteFor(models.RoleStudent, "7") {
		t.Fatal("students should be routed remotely by default")
	}
	if m.RemoteFor(models.RoleProfessor, "7") || m.RemoteFor(models.RoleInvestor, "7") {
		t.Fatal("other roles should use the local backend by default")
	}
	if m.RemoteFor(models.RoleNone, "7") {
		t.Fatal("an unset role is never routed remotely")
	}
	var nilManager *Manager
	if nilManager.RemoteFor(models.RoleStudent, "7") {
		t.Fatal("nil manager must disable everything")
	}
}

func TestParseAndSnapshot(t *testing.T) {
	m := NewManager(" bad ,x=on, y = 20% ,z=off ")

	raw := m.Raw()
	if len(raw) != 3 {
		t.Fatalf("expected 3 parsed flags, got %d", len(raw))
	}
	if raw["y"] != "20%" {
		t.Fatalf("expected normalized value 20%%, got %q", raw["y"])
	}

	snap := m.Snapshot("")
	if !snap["x"] || snap["z"] || snap["y"] {
		t.Fatalf("unexpected snapshot %v", snap)
	}
}

func TestRemoteFor_RoleRouting(t *testing.T) {
	tests := []struct {
		name  string
		flags string
		role  models.Role
		actor string
		want  bool
	}{
		{"Student Off Overrides Default", "remote_student=off", models.RoleStudent, "7", false},
		{"Professor Enabled", "remote_professor=on", models.RoleProfessor, "7", true},
		{"Investor Full Rollout", "remote_investor=100%", models.RoleInvestor, "", true},
		{"Investor Partial Rollout Without Actor", "remote_investor=50%", models.RoleInvestor, "", false},
		{"Mixed Case Keys", " Remote_Professor = ON ", models.RoleProfessor, "1", true},
		{"Unrelated Flag", "remote_students=on", models.RoleStudent, "1", false},
		{"None Ignores Flag", "remote_=on", models.RoleNone, "1", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NewManager(tt.flags).RemoteFor(tt.role, tt.actor); got != tt.want {
				t.Fatalf("RemoteFor(%q, %q) with %q = %v, want %v", tt.role, tt.actor, tt.flags, got, tt.want)
			}
		})
	}
}

func TestRemoteFor_PartialRolloutSplitsActors(t *testing.T) {
	m := NewManager("remote_investor=50%")

	remote := 0
	for i := 0; i < 200; i++ {
		actor := strconv.Itoa(i)
		got := m.RemoteFor(models.RoleInvestor, actor)
		if got != m.RemoteFor(models.RoleInvestor, actor) {
			t.Fatalf("actor %s routed inconsistently", actor)
		}
		if got {
			remote++
		}
	}
	if remote == 0 || remote == 200 {
		t.Fatalf("expected a split across actors, got %d/200 remote", remote)
	}
	if m.RemoteFor(models.RoleStudent, "1") {
		t.Fatal("an investor rollout must not route students")
	}
}
