package asyncimage

// State is the load state of a Loader.
type State int

const (
	// StateIdle is the initial state: no image and no fetch in flight.
	StateIdle State = iota

	// StateCacheHit means the image was taken from the response cache without fetching.
	StateCacheHit

	// StateLoading means a fetch has been started and the image is cleared.
	StateLoading

	// StateLoaded means the last fetch completed and decoded successfully.
	StateLoaded

	// StateFailed means the last fetch or decode failed. The image is absent.
	StateFailed
)

var stateNames = [...]string{
	StateIdle:     "idle",
	StateCacheHit: "cache-hit",
	StateLoading:  "loading",
	StateLoaded:   "loaded",
	StateFailed:   "failed",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}

// HasImage reports whether an image is available in the state.
func (s State) HasImage() bool {
	return s == StateCacheHit || s == StateLoaded
}

// Snapshot is a consistent view of a Loader at one point in time.
type Snapshot struct {
	URL   string
	State State
	Image *Image

	// Err is the failure of the last load. It is nil unless State is StateFailed.
	Err error
}
