package webcam

import "testing"

func TestCounter_NetTransitionsOnly(t *testing.T) {
	var c counter

	// Two devices opening: busy flips once.
	c.add(1)
	if !c.busy() {
		t.Fatal("busy after first open")
	}
	c.add(1)
	if !c.busy() {
		t.Fatal("still busy after second open")
	}

	// First close keeps the state; second close releases it.
	c.add(-1)
	if !c.busy() {
		t.Fatal("one device still open, must stay busy")
	}
	c.add(-1)
	if c.busy() {
		t.Fatal("all devices closed, must be idle")
	}
}

func TestCounter_NeverGoesNegative(t *testing.T) {
	var c counter

	// Close events for devices opened before we started watching.
	c.add(-1)
	c.add(-1)
	if c.busy() {
		t.Fatal("idle counter must stay idle on spurious closes")
	}

	c.add(1)
	if !c.busy() {
		t.Fatal("a single open after spurious closes must read busy")
	}
}

func TestCounter_BatchNetZero(t *testing.T) {
	var c counter

	// An open and close within one event batch cancel out.
	before := c.busy()
	c.add(1)
	c.add(-1)
	if c.busy() != before {
		t.Fatal("open+close within a batch must not change the state")
	}
}
