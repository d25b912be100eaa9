package signals

// Topic name constants for every signal enumerated in spec §6. Payload
// types are documented per-topic; publishers live in internal/wm/container,
// internal/wm/output, internal/wm/cursor and internal/wm/focus.
const (
	ClientNew                = "client::new"
	ClientMap                = "client::map"
	ClientUnmap              = "client::unmap"
	ClientFocus              = "client::focus"
	ClientUnfocus            = "client::unfocus"
	ClientDestroy            = "client::destroy"
	ClientSwap               = "client::swap"
	ClientMouseEnter         = "client::mouse_enter"
	ClientMouseLeave         = "client::mouse_leave"
	ClientPropTitle          = "client::prop::title"
	ClientPropAppID          = "client::prop::appid"
	ClientPropertyUrgent     = "client::property::urgent"
	ClientPropertyTag        = "client::property::tag"
	ClientPropertyFullscreen = "client::property::fullscreen"
	ClientPropertyMaximized  = "client::property::maximized"
	ClientPropertyMinimized  = "client::property::minimized"
	ClientPropertyFloating   = "client::property::floating"

	ScreenNew           = "screen::new"
	ScreenFocus         = "screen::focus"
	ScreenUnfocus       = "screen::unfocus"
	ScreenDestroy       = "screen::destroy"
	ScreenMouseEnter    = "screen::mouse_enter"
	ScreenMouseLeave    = "screen::mouse_leave"
	ScreenPropActiveTag = "screen::prop::active_tag"

	ContainerGeometry = "container::geometry"
	ContainerSwap     = "container::swap"

	PointerMove        = "pointer::move"
	PointerButton      = "pointer::button"
	PointerAxis        = "pointer::axis"
	PointerSwipeBegin  = "pointer::swipe::begin"
	PointerSwipeUpdate = "pointer::swipe::update"
	PointerSwipeEnd    = "pointer::swipe::end"
	PointerPinchBegin  = "pointer::pinch::begin"
	PointerPinchUpdate = "pointer::pinch::update"
	PointerPinchEnd    = "pointer::pinch::end"
	PointerHoldBegin   = "pointer::hold::begin"
	PointerHoldEnd     = "pointer::hold::end"
)
