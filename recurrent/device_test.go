package recurrent

import "testing"

func TestResolveDevice(t *testing.T) {
	cases := []struct {
		wantCUDA bool
		device   Device
		fellBack bool
	}{
		{false, CPU, false},
		{true, CPU, true},
	}
	for _, tc := range cases {
		device, fellBack := ResolveDevice(tc.wantCUDA)
		if device != tc.device || fellBack != tc.fellBack {
			t.Fatalf("ResolveDevice(%v) = %v, %v", tc.wantCUDA, device, fellBack)
		}
	}
	if CPU.String() != "cpu" || CUDA.String() != "cuda" {
		t.Fail()
	}
}
