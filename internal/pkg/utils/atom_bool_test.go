package utils

import (
	"testing"
)

func TestAtomBool(t *testing.T) {
	atomBool := new(TAtomBool)
	atomBool.Set(true)

	if !atomBool.Get() {
		t.Errorf("Expected atomBool.Get() to be true, but got false")
	}

	atomBool.Set(false)

	if atomBool.Get() {
		t.Errorf("Expected atomBool.Get() to be false, but got true")
	}
}
