//go:build noebiten

package regulator

import "testing"

func TestWindowlessBuildRunsHeadless(t *testing.T) {
	opts := testOptions()
	opts.Headless = false
	r := newTestRegulator(t, thermostatLua, opts)

	if err := r.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	waitFor(t, "update cycles", func() bool { return r.Status().UpdateCount >= 3 })

	if got := r.Health().Components["render"].Status; got != HealthOK {
		t.Errorf("render health = %v, want ok without a window backend", got)
	}
	if err := r.Stop(); err != nil {
		t.Fatalf("Stop() error = %v", err)
	}
}
