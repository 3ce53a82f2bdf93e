package terminal

// Engine version, reported to hosts and in the secondary device
// attributes reply.
const (
	VersionMajor = 0
	VersionMinor = 1
	VersionPatch = 0
)

// VersionNumber encodes the version as major*10000 + minor*100 + patch.
func VersionNumber() uint32 {
	return VersionMajor*10000 + VersionMinor*100 + VersionPatch
}
