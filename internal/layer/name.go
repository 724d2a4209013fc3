package layer

import "regexp"

// arnPattern matches a Lambda layer ARN, optionally followed by a version.
// The first submatch is the layer name.
var arnPattern = regexp.MustCompile(
	`^arn:(?:aws[a-zA-Z-]*)?:lambda:[a-z]{2}(?:-gov|-iso(?:b?))?-[a-z]+-\d:\d{12}:layer:([a-zA-Z0-9_-]+)`,
)

// Normalize returns the short layer name for raw. If raw is a layer ARN
// (with or without a version suffix) the name segment is extracted;
// anything else is returned unchanged.
func Normalize(raw string) string {
	if m := arnPattern.FindStringSubmatch(raw); m != nil {
		return m[1]
	}
	return raw
}

// IsARN reports whether raw is a fully-qualified layer ARN.
func IsARN(raw string) bool {
	return arnPattern.MatchString(raw)
}
