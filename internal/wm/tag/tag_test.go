package tag

import "testing"

func TestBitfieldOfAndHas(t *testing.T) {
	b := Of(3)
	if !b.Has(3) {
		t.Fatal("expected workspace 3 set")
	}
	if b.Has(4) {
		t.Fatal("did not expect workspace 4 set")
	}
}

func TestBitfieldIntersects(t *testing.T) {
	active := Of(2)
	container := Of(2)
	if !container.Intersects(active) {
		t.Fatal("expected intersection on matching workspace")
	}
	if Of(1).Intersects(active) {
		t.Fatal("did not expect intersection across different workspaces")
	}
}

func TestMasterStateSetMwfactClamps(t *testing.T) {
	var m MasterState
	m.SetMwfact(0.95)
	if m.Mwfact != 0.9 {
		t.Fatalf("Mwfact = %v, want clamped 0.9", m.Mwfact)
	}
	m.SetMwfact(0.05)
	if m.Mwfact != 0.1 {
		t.Fatalf("Mwfact = %v, want clamped 0.1", m.Mwfact)
	}
	m.SetMwfact(0.7)
	if m.Mwfact != 0.7 {
		t.Fatalf("Mwfact = %v, want unchanged 0.7", m.Mwfact)
	}
}

func TestInfoSetUselessGapsClamps(t *testing.T) {
	var i Info
	i.SetUselessGaps(-4)
	if i.UselessGaps != 0 {
		t.Fatalf("UselessGaps = %d, want clamped 0", i.UselessGaps)
	}
}

func TestNewInfosPopulatesOneThroughMax(t *testing.T) {
	infos := NewInfos(30, 4)
	if len(infos) != 31 {
		t.Fatalf("len(infos) = %d, want 31", len(infos))
	}
	if infos[0].Index != 0 {
		t.Fatalf("infos[0] should be the reserved zero value")
	}
	for i := 1; i <= 30; i++ {
		if infos[i].Index != i {
			t.Fatalf("infos[%d].Index = %d, want %d", i, infos[i].Index, i)
		}
		if infos[i].UselessGaps != 4 {
			t.Fatalf("infos[%d].UselessGaps = %d, want 4", i, infos[i].UselessGaps)
		}
		if infos[i].LayoutMode != Floating {
			t.Fatalf("infos[%d].LayoutMode = %v, want Floating", i, infos[i].LayoutMode)
		}
		if infos[i].Master.Mwfact != 0.5 {
			t.Fatalf("infos[%d].Master.Mwfact = %v, want 0.5", i, infos[i].Master.Mwfact)
		}
	}
}
