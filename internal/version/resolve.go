package version

// Resolve picks the version identity from the three possible sources,
// first match wins:
//
//  1. urlVersion, if valid (canonical or alias)
//  2. pathVersion, if valid
//  3. storedVersion, if valid
//  4. the default identity
//
// Empty strings stand for absent inputs. Invalid values at any tier
// silently fall through to the next one; Resolve never fails.
func (r *Registry) Resolve(urlVersion, pathVersion, storedVersion string) Version {
	if urlVersion != "" && r.IsValid(urlVersion) {
		return r.Canonical(urlVersion)
	}
	if pathVersion != "" && r.IsValid(pathVersion) {
		return r.Canonical(pathVersion)
	}
	if storedVersion != "" && r.IsValid(storedVersion) {
		return r.Canonical(storedVersion)
	}
	return DefaultVersion
}
