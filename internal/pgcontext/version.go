package pgcontext

// Version constants backing pixelgrab_version_string/_major/_minor/_patch.
const (
	VersionMajor = 1
	VersionMinor = 0
	VersionPatch = 0
	VersionString = "1.0.0"
)
