package health

import "testing"

func TestSimulatedPoller(t *testing.T) {
	status, err := SimulatedPoller{}.Poll()
	if err != nil {
		t.Fatalf("poll: %v", err)
	}
	if !status.Healthy {
		t.Fatal("simulated environment must report healthy")
	}
	if status.Nodes != 1 || status.Pods != 3 {
		t.Fatalf("status = %+v", status)
	}
	for _, key := range []string{"cpu", "memory", "disk"} {
		if _, ok := status.Usage[key]; !ok {
			t.Fatalf("usage missing %q", key)
		}
	}
	if status.CheckedAt.IsZero() {
		t.Fatal("checked_at must be set")
	}
}
