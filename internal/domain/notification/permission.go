package notification

// PermissionState is the platform notification permission of a subscriber.
// It is owned by the client platform, reported each session and never
// persisted by the service.
type PermissionState string

const (
	PermissionDefault PermissionState = "default"
	PermissionGranted PermissionState = "granted"
	PermissionDenied  PermissionState = "denied"
)
