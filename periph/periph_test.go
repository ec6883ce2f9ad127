package periph

import (
	"errors"
	"testing"
)

func TestClaimIsExclusive(t *testing.T) {
	h, err := Claim(I2C1)
	if err != nil {
		t.Fatalf("first claim failed: %v", err)
	}
	defer h.Release()

	if _, err := Claim(I2C1); !errors.Is(err, ErrAlreadyOwned) {
		t.Errorf("second claim: expected ErrAlreadyOwned, got %v", err)
	}

	// A different instance is unaffected.
	h2, err := Claim(I2C2)
	if err != nil {
		t.Errorf("claim of distinct instance failed: %v", err)
	}
	h2.Release()
}

func TestReleaseReturnsSlot(t *testing.T) {
	h, err := Claim(UART0)
	if err != nil {
		t.Fatalf("claim failed: %v", err)
	}
	h.Release()
	if h.Valid() {
		t.Error("handle still valid after Release")
	}

	h2, err := Claim(UART0)
	if err != nil {
		t.Errorf("reclaim after release failed: %v", err)
	}
	h2.Release()

	// Double release is a no-op.
	h.Release()
}

func TestUnknownInstance(t *testing.T) {
	if _, err := Claim(ID(200)); !errors.Is(err, ErrUnknownInstance) {
		t.Errorf("expected ErrUnknownInstance, got %v", err)
	}
}

func TestZeroHandleInvalid(t *testing.T) {
	var h Handle
	if h.Valid() {
		t.Error("zero handle must not be valid")
	}
}
