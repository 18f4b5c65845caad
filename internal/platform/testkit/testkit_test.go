package testkit_test

import (
	"testing"

	"lineview/internal/platform/testkit"
)

func TestMustPanicAndNotPanic(t *testing.T) {
	testkit.MustPanic(t, func() { panic("boom") })
	testkit.MustNotPanic(t, func() {})
}

func TestSwapRestores(t *testing.T) {
	v := 1
	t.Run("inner", func(t *testing.T) {
		testkit.Swap(t, &v, 2)
		if v != 2 {
			t.Fatalf("swap did not apply")
		}
	})
	if v != 1 {
		t.Fatalf("swap did not restore, v=%d", v)
	}
}
