package recurrent

/*
Device names where a Graph's arithmetic runs. Parameters and activations of a
forward pass must live on the same device.
*/
type Device int

const (
	// CPU runs the tape with the gonum kernels.
	CPU Device = iota
	// CUDA is accepted in configuration but has no kernels in this build.
	CUDA
)

func (d Device) String() string {
	switch d {
	case CPU:
		return "cpu"
	case CUDA:
		return "cuda"
	}
	return "unknown"
}

/*
Available reports whether this build can run tape ops on d.
*/
func (d Device) Available() bool {
	return d == CPU
}

/*
ResolveDevice picks the device once, at construction. Asking for CUDA when it
is not available falls back to CPU; fellBack tells the caller so it can say so.
*/
func ResolveDevice(wantCUDA bool) (device Device, fellBack bool) {
	if wantCUDA {
		if CUDA.Available() {
			return CUDA, false
		}
		return CPU, true
	}
	return CPU, false
}
