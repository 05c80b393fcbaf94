package core

import "testing"

// resetRegistry clears the global module registry between tests.
func resetRegistry() {
	modulesMu.Lock()
	defer modulesMu.Unlock()
	modules = make(map[string]ModuleInfo)
}

// basicModule is the smallest possible Module.
type basicModule struct {
	id ModuleID
}

func (m *basicModule) ModuleInfo() ModuleInfo {
	id := m.id
	return ModuleInfo{
		ID:  id,
		New: func() Module { return &basicModule{id: id} },
	}
}

func TestRegisterModule_Duplicate(t *testing.T) {
	t.Cleanup(resetRegistry)

	RegisterModule(&basicModule{id: "test.dup"})

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on duplicate registration")
		}
	}()
	RegisterModule(&basicModule{id: "test.dup"})
}

func TestRegisterModule_EmptyID(t *testing.T) {
	t.Cleanup(resetRegistry)

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on empty module ID")
		}
	}()
	RegisterModule(&basicModule{id: ""})
}

func TestRegisterModule_NilNew(t *testing.T) {
	t.Cleanup(resetRegistry)

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on nil New function")
		}
	}()
	RegisterModule(nilNewModule{})
}

type nilNewModule struct{}

func (nilNewModule) ModuleInfo() ModuleInfo {
	return ModuleInfo{ID: "test.nilnew"}
}

func TestGetModule(t *testing.T) {
	t.Cleanup(resetRegistry)

	RegisterModule(&basicModule{id: "test.get"})

	info, ok := GetModule("test.get")
	if !ok {
		t.Fatal("expected module to be found")
	}
	if info.ID != "test.get" {
		t.Errorf("ID = %q, want %q", info.ID, "test.get")
	}

	if _, ok := GetModule("test.missing"); ok {
		t.Error("expected missing module to not be found")
	}
}

func TestModuleInfo_NewProducesFreshInstance(t *testing.T) {
	t.Cleanup(resetRegistry)

	original := &basicModule{id: "test.fresh"}
	RegisterModule(original)

	info, ok := GetModule("test.fresh")
	if !ok {
		t.Fatal("expected module to be found")
	}
	mod := info.New()
	if mod == nil {
		t.Fatal("New returned nil")
	}
	if mod == Module(original) {
		t.Error("New must return a fresh instance, not the registered one")
	}
	if mod.ModuleInfo().ID != info.ID {
		t.Errorf("instance ID = %q, want %q", mod.ModuleInfo().ID, info.ID)
	}
}

func TestGetModules_Sorted(t *testing.T) {
	t.Cleanup(resetRegistry)

	RegisterModule(&basicModule{id: "source.archive"})
	RegisterModule(&basicModule{id: "channel.telegram"})
	RegisterModule(&basicModule{id: "gateway.http"})

	infos := GetModules()
	if len(infos) != 3 {
		t.Fatalf("len = %d, want 3", len(infos))
	}
	want := []ModuleID{"channel.telegram", "gateway.http", "source.archive"}
	for i, w := range want {
		if infos[i].ID != w {
			t.Errorf("infos[%d].ID = %q, want %q", i, infos[i].ID, w)
		}
	}
}

func TestGetModulesByNamespace(t *testing.T) {
	t.Cleanup(resetRegistry)

	RegisterModule(&basicModule{id: "channel.telegram"})
	RegisterModule(&basicModule{id: "channel.discord"})
	RegisterModule(&basicModule{id: "source.archive"})

	infos := GetModulesByNamespace("channel")
	if len(infos) != 2 {
		t.Fatalf("len = %d, want 2", len(infos))
	}
	if infos[0].ID != "channel.discord" || infos[1].ID != "channel.telegram" {
		t.Errorf("unexpected order: %v, %v", infos[0].ID, infos[1].ID)
	}

	if got := GetModulesByNamespace("storage"); len(got) != 0 {
		t.Errorf("expected empty result for unknown namespace, got %d", len(got))
	}
}
