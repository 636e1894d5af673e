package stft

// Block geometry
const (
	// overlapFactor is the ratio of analysis block length to new samples
	// per block (50% overlap).
	overlapFactor = 2

	// primingBlocks is the number of leading blocks that only fill the
	// overlap history and emit no output.
	primingBlocks = 1
)

// Channel constants
const (
	stereoChannels = 2   // Stereo channel count (used by ProcessStereo)
	maxChannels    = 256 // Maximum channels accepted by ProcessMulti
)
