package i2c

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"sechal/fifo"
)

func TestSlaveRoundTripAllLengths(t *testing.T) {
	w := newSimWire(true)
	m := newMasterBus(t, w)
	s := newSlaveBus(t, w, 0x45, false)

	var storage [17]byte // 16 usable bytes
	ring := fifo.NewRing(storage[:])
	sess, err := s.Listen(ring, NewBytesSource(nil))
	if err != nil {
		t.Fatalf("listen: %v", err)
	}

	stopPump := startPump(w, m, s)
	defer stopPump()

	for n := 1; n <= ring.Cap(); n++ {
		payload := make([]byte, n)
		for i := range payload {
			payload[i] = byte(i ^ n)
		}
		if err := m.Write(0x45, payload, testTimeout); err != nil {
			t.Fatalf("length %d: write: %v", n, err)
		}
		if errs := drainUntilComplete(t, sess); len(errs) != 0 {
			t.Fatalf("length %d: slave errors: %v", n, errs)
		}
		got := make([]byte, n)
		if rn := ring.Read(got); rn != n {
			t.Fatalf("length %d: slave retained %d bytes", n, rn)
		}
		if !bytes.Equal(got, payload) {
			t.Fatalf("length %d: slave received %v, sent %v", n, got, payload)
		}
	}
}

func TestSlaveOverflowDropsNewest(t *testing.T) {
	w := newSimWire(true)
	m := newMasterBus(t, w)
	s := newSlaveBus(t, w, 0x45, false)

	var storage [9]byte // 8 usable bytes
	ring := fifo.NewRing(storage[:])
	sess, err := s.Listen(ring, NewBytesSource(nil))
	if err != nil {
		t.Fatalf("listen: %v", err)
	}

	stopPump := startPump(w, m, s)
	defer stopPump()

	payload := make([]byte, 12) // four more than capacity
	for i := range payload {
		payload[i] = byte(0xA0 + i)
	}
	if err := m.Write(0x45, payload, testTimeout); err != nil {
		t.Fatalf("write: %v", err)
	}

	errs := drainUntilComplete(t, sess)
	overflow := 0
	for _, e := range errs {
		if errors.Is(e, ErrBufferOverflow) {
			overflow++
		} else {
			t.Errorf("unexpected slave error: %v", e)
		}
	}
	// Reported exactly once per transaction, no matter how many bytes
	// were dropped.
	if overflow != 1 {
		t.Errorf("overflow reported %d times, expected exactly once", overflow)
	}

	// Drop-newest: the first capacity's worth of bytes is retained.
	got := make([]byte, 12)
	n := ring.Read(got)
	if n != ring.Cap() {
		t.Errorf("slave retained %d bytes, expected %d", n, ring.Cap())
	}
	if !bytes.Equal(got[:n], payload[:ring.Cap()]) {
		t.Errorf("retained %v, expected oldest bytes %v", got[:n], payload[:ring.Cap()])
	}

	// The session keeps working: the next transaction is clean.
	if err := m.Write(0x45, []byte{0x01}, testTimeout); err != nil {
		t.Fatalf("follow-up write: %v", err)
	}
	if errs := drainUntilComplete(t, sess); len(errs) != 0 {
		t.Errorf("follow-up transaction errors: %v", errs)
	}
}

func TestSlaveUnderrunSendsFiller(t *testing.T) {
	w := newSimWire(true)
	m := newMasterBus(t, w)
	s := newSlaveBus(t, w, 0x45, false)

	var storage [9]byte
	src := NewBytesSource([]byte{0x10, 0x20, 0x30})
	sess, err := s.Listen(fifo.NewRing(storage[:]), src)
	if err != nil {
		t.Fatalf("listen: %v", err)
	}

	stopPump := startPump(w, m, s)
	defer stopPump()

	got := make([]byte, 6)
	n, err := m.Read(0x45, got, testTimeout)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if n != 6 {
		t.Fatalf("read %d bytes, expected 6", n)
	}
	want := []byte{0x10, 0x20, 0x30, 0x00, 0x00, 0x00}
	if !bytes.Equal(got, want) {
		t.Errorf("read %v, expected source bytes then 0x00 filler: %v", got, want)
	}

	errs := drainUntilComplete(t, sess)
	underrun := 0
	for _, e := range errs {
		if errors.Is(e, ErrBufferUnderrun) {
			underrun++
		} else {
			t.Errorf("unexpected slave error: %v", e)
		}
	}
	if underrun != 1 {
		t.Errorf("underrun reported %d times, expected exactly once", underrun)
	}
}

func TestSlaveEventSequenceForWrite(t *testing.T) {
	w := newSimWire(true)
	m := newMasterBus(t, w)
	s := newSlaveBus(t, w, 0x45, false)

	var storage [9]byte
	sess, err := s.Listen(fifo.NewRing(storage[:]), NewBytesSource(nil))
	if err != nil {
		t.Fatalf("listen: %v", err)
	}

	stopPump := startPump(w, m, s)
	defer stopPump()

	if err := m.Write(0x45, []byte{0xAB, 0xCD}, testTimeout); err != nil {
		t.Fatalf("write: %v", err)
	}

	var kinds []EventKind
	var data []byte
	deadline := time.Now().Add(testTimeout)
	for {
		ev := sess.WaitEvent(testTimeout)
		if ev.Kind == EventNone || time.Now().After(deadline) {
			t.Fatal("session timed out mid-transaction")
		}
		kinds = append(kinds, ev.Kind)
		if ev.Kind == EventByteReceived {
			data = append(data, ev.Byte)
		}
		if ev.Kind == EventTransactionComplete {
			break
		}
	}

	want := []EventKind{
		EventAddressedForWrite,
		EventByteReceived,
		EventByteReceived,
		EventTransactionComplete,
	}
	if len(kinds) != len(want) {
		t.Fatalf("event sequence %v, expected %v", kinds, want)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Fatalf("event %d: got %v, expected %v", i, kinds[i], want[i])
		}
	}
	if !bytes.Equal(data, []byte{0xAB, 0xCD}) {
		t.Errorf("event payloads %v", data)
	}
}

func TestListenRequiresSlaveRole(t *testing.T) {
	w := newSimWire(false)
	m := newMasterBus(t, w)

	var storage [9]byte
	_, err := m.Listen(fifo.NewRing(storage[:]), NewBytesSource(nil))
	if !errors.Is(err, ErrWrongRole) {
		t.Errorf("expected ErrWrongRole, got %v", err)
	}
}

func TestListenSingleSession(t *testing.T) {
	w := newSimWire(true)
	s := newSlaveBus(t, w, 0x45, false)

	var storage [9]byte
	ring := fifo.NewRing(storage[:])
	sess, err := s.Listen(ring, NewBytesSource(nil))
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	if _, err := s.Listen(ring, NewBytesSource(nil)); !errors.Is(err, ErrInvalidState) {
		t.Errorf("second listen: expected ErrInvalidState, got %v", err)
	}

	// Closing the session frees the slot.
	sess.Close()
	if _, err := s.Listen(ring, NewBytesSource(nil)); err != nil {
		t.Errorf("listen after close: %v", err)
	}
}

func TestPollOnQuietSession(t *testing.T) {
	w := newSimWire(true)
	s := newSlaveBus(t, w, 0x45, false)

	var storage [9]byte
	sess, err := s.Listen(fifo.NewRing(storage[:]), NewBytesSource(nil))
	if err != nil {
		t.Fatalf("listen: %v", err)
	}

	if ev := sess.Poll(); ev.Kind != EventNone {
		t.Errorf("expected EventNone on quiet bus, got %v", ev.Kind)
	}
	if ev := sess.WaitEvent(10 * time.Millisecond); ev.Kind != EventNone {
		t.Errorf("expected EventNone after bounded wait, got %v", ev.Kind)
	}
}

func TestBytesSourceRewind(t *testing.T) {
	src := NewBytesSource([]byte{1, 2})
	if b, ok := src.NextByte(); !ok || b != 1 {
		t.Fatalf("first byte: %d %v", b, ok)
	}
	if b, ok := src.NextByte(); !ok || b != 2 {
		t.Fatalf("second byte: %d %v", b, ok)
	}
	if _, ok := src.NextByte(); ok {
		t.Fatal("exhausted source still yielding")
	}
	src.Rewind()
	if b, ok := src.NextByte(); !ok || b != 1 {
		t.Fatalf("after rewind: %d %v", b, ok)
	}
}
