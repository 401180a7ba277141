package behavior

import (
	"fmt"
	"strings"
)

// Kind names one of the behaviors a registry file can configure.
type Kind string

const (
	KindDefault  Kind = "default"
	KindTag      Kind = "tag"
	KindCollider Kind = "collider"
	KindSprite   Kind = "sprite"
	KindScript   Kind = "script"
)

var kinds = []Kind{KindDefault, KindTag, KindCollider, KindSprite, KindScript}

// ParseKind is case-insensitive; an empty string is KindDefault.
func ParseKind(s string) (Kind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return KindDefault, nil
	}
	for _, k := range kinds {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("behavior: unknown kind %q", s)
}
