package enums

// WidgetState tracks the hosted payment widget lifecycle.
type WidgetState string

const (
	WidgetStateNotLoaded WidgetState = "not_loaded"
	WidgetStateLoading   WidgetState = "loading"
	WidgetStateReady     WidgetState = "ready"
	WidgetStateRendering WidgetState = "rendering"
	WidgetStateFailed    WidgetState = "failed"
)

// String implements fmt.Stringer.
func (w WidgetState) String() string {
	return string(w)
}
