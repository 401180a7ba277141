package ldtk

import (
	"fmt"
	"strconv"
	"strings"
)

type selectionKind int

const (
	selectIndex selectionKind = iota
	selectIdentifier
	selectIID
	selectUID
	selectAll
)

// LevelSelection picks which levels of a project get spawned.
type LevelSelection struct {
	kind       selectionKind
	index      int
	identifier string
	uid        int
}

func SelectIndex(i int) LevelSelection {
	return LevelSelection{kind: selectIndex, index: i}
}

func SelectIdentifier(identifier string) LevelSelection {
	return LevelSelection{kind: selectIdentifier, identifier: identifier}
}

func SelectIID(iid string) LevelSelection {
	return LevelSelection{kind: selectIID, identifier: iid}
}

func SelectUID(uid int) LevelSelection {
	return LevelSelection{kind: selectUID, uid: uid}
}

// SelectAll matches every level.
func SelectAll() LevelSelection {
	return LevelSelection{kind: selectAll}
}

// ParseLevelSelection accepts "*" (every level), "3" (index), "uid:12",
// "iid:<iid>" or a level identifier.
func ParseLevelSelection(s string) (LevelSelection, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return LevelSelection{}, fmt.Errorf("ldtk: empty level selection")
	}
	if s == "*" {
		return SelectAll(), nil
	}
	if after, ok := strings.CutPrefix(s, "uid:"); ok {
		uid, err := strconv.Atoi(after)
		if err != nil {
			return LevelSelection{}, fmt.Errorf("ldtk: parse level uid %q: %w", after, err)
		}
		return SelectUID(uid), nil
	}
	if after, ok := strings.CutPrefix(s, "iid:"); ok {
		return SelectIID(after), nil
	}
	if i, err := strconv.Atoi(s); err == nil {
		return SelectIndex(i), nil
	}
	return SelectIdentifier(s), nil
}

// Match reports whether the level at position i is selected.
func (s LevelSelection) Match(i int, level *Level) bool {
	switch s.kind {
	case selectIndex:
		return s.index == i
	case selectIdentifier:
		return level != nil && level.Identifier == s.identifier
	case selectIID:
		return level != nil && level.IID == s.identifier
	case selectUID:
		return level != nil && level.UID == s.uid
	case selectAll:
		return true
	}
	return false
}

func (s LevelSelection) String() string {
	switch s.kind {
	case selectIdentifier:
		return s.identifier
	case selectIID:
		return "iid:" + s.identifier
	case selectUID:
		return "uid:" + strconv.Itoa(s.uid)
	case selectAll:
		return "*"
	}
	return strconv.Itoa(s.index)
}
