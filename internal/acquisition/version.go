package acquisition

import (
	"cmp"
	"fmt"

	"github.com/slaide/seaconfig/internal/schemaerr"
	"github.com/slaide/seaconfig/internal/tree"
)

// Version is the semantic version of the document schema.
type Version struct {
	Major int `json:"major"`
	Minor int `json:"minor"`
	Patch int `json:"patch"`
}

// Known schema versions, oldest first.
var (
	// VersionInitial is assumed for documents without a version tag.
	VersionInitial = Version{1, 0, 0}
	// VersionPerChannelZ moved the z stack from the grid onto each channel.
	VersionPerChannelZ = Version{2, 0, 0}
	// VersionMachineConfig added machine settings, comment and timestamp.
	VersionMachineConfig = Version{2, 1, 0}
	// VersionChannelEnabled added the per-channel enabled flag.
	VersionChannelEnabled = Version{2, 1, 1}

	// CurrentVersion is the version written by this package.
	CurrentVersion = VersionChannelEnabled
)

// Compare orders versions by major, then minor, then patch.
func (v Version) Compare(o Version) int {
	if c := cmp.Compare(v.Major, o.Major); c != 0 {
		return c
	}
	if c := cmp.Compare(v.Minor, o.Minor); c != 0 {
		return c
	}
	return cmp.Compare(v.Patch, o.Patch)
}

// Less reports whether v orders before o.
func (v Version) Less(o Version) bool {
	return v.Compare(o) < 0
}

// IsZero reports whether v is unset.
func (v Version) IsZero() bool {
	return v == Version{}
}

func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// ParseVersion parses "major.minor.patch".
func ParseVersion(s string) (Version, error) {
	var v Version
	var rest string
	n, _ := fmt.Sscanf(s, "%d.%d.%d%s", &v.Major, &v.Minor, &v.Patch, &rest)
	if n != 3 || v.Major < 0 || v.Minor < 0 || v.Patch < 0 {
		return Version{}, schemaerr.Structuralf("spec_version", "invalid version %q", s)
	}
	return v, nil
}

func versionFromTree(v any, path string) (Version, error) {
	r, err := tree.Object(v, path)
	if err != nil {
		return Version{}, err
	}
	var out Version
	if out.Major, err = r.Int("major"); err != nil {
		return Version{}, err
	}
	if out.Minor, err = r.OptInt("minor", 0); err != nil {
		return Version{}, err
	}
	if out.Patch, err = r.OptInt("patch", 0); err != nil {
		return Version{}, err
	}
	if out.Major < 0 || out.Minor < 0 || out.Patch < 0 {
		return Version{}, schemaerr.Structuralf(path, "negative version component in %s", out)
	}
	return out, nil
}

// DocumentVersion returns the schema version a document declares. Documents
// without spec_version are the initial shape. Versions newer than
// CurrentVersion cannot be read.
func DocumentVersion(doc tree.Map) (Version, error) {
	raw, ok := doc["spec_version"]
	if !ok || raw == nil {
		return VersionInitial, nil
	}
	v, err := versionFromTree(raw, "spec_version")
	if err != nil {
		return Version{}, err
	}
	if v.Less(VersionInitial) {
		return Version{}, schemaerr.Structuralf("spec_version", "unknown version %s", v)
	}
	if CurrentVersion.Less(v) {
		return Version{}, schemaerr.Structuralf("spec_version", "version %s is newer than supported %s", v, CurrentVersion)
	}
	return v, nil
}
