package registry

import "testing"

func TestRegistry_SetGet(t *testing.T) {
	r := New()
	if _, ok := r.GetGlobal("k"); ok {
		t.Fatal("empty registry returned a value")
	}
	r.SetGlobal("k", 42)
	v, ok := r.GetGlobal("k")
	if !ok || v.(int) != 42 {
		t.Fatalf("GetGlobal = %v, %v", v, ok)
	}
}

func TestRegistry_LockPanicsOnSet(t *testing.T) {
	r := New()
	r.Lock(KeyRegistryCmd)
	if !r.IsLocked(KeyRegistryCmd) {
		t.Fatal("IsLocked = false after Lock")
	}
	defer func() {
		if recover() == nil {
			t.Error("expected panic when setting a locked key")
		}
	}()
	r.SetGlobal(KeyRegistryCmd, nil)
}

func TestRegistry_UnlockForTesting(t *testing.T) {
	r := New()
	r.Lock(KeyRegistryCron)
	r.UnlockForTesting(KeyRegistryCron)
	if r.IsLocked(KeyRegistryCron) {
		t.Fatal("still locked")
	}
	r.SetGlobal(KeyRegistryCron, "ok")
}
