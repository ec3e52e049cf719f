package handler

const (
	// RootPath is the root path the route group.
	RootPath = "/"

	// RouterRootPath is the root path within a route group.
	RouterRootPath = "/"

	// ErrNilACDFatalLogMsg is used if app or cfg or db var pointer is nil.
	ErrNilACDFatalLogMsg = "app, cfg or db is nil"

	// CurrentUserIDKey is the fiber.Locals key the auth middleware fills
	// with the authenticated user's id.
	CurrentUserIDKey = "CurrentUserID"

	// CurrentUserKey is the fiber.Locals key holding the session user.
	CurrentUserKey = "CurrentUser"
)
