// Package apps holds the desktop's application panels. Each panel owns its own
// state; the window manager only opens, focuses and closes their windows.
package apps

// Panel is the capability set the desktop needs from an application.
type Panel interface {
	// Name is the app name the panel's window is provisioned under.
	Name() string
	// Activate is called when the panel's window is opened or focused.
	Activate()
	// Deactivate is called when the panel's window is minimized or closed.
	Deactivate()
}

// Notify posts a user-visible notification.
type Notify func(message string)

func (n Notify) send(message string) {
	if n != nil {
		n(message)
	}
}
