package organizer

import (
	"github.com/kotae42/romaudit-cli/internal/catalog"
	"github.com/kotae42/romaudit-cli/internal/textutil"
)

// Layout holds the per-group container decision, computed once from the
// catalog so placement order never changes where a file lands.
type Layout struct {
	container map[string]bool
}

// NewLayout decides, for every group, whether its members live in a
// container directory named after the group or flat under the output root.
// A group gets a container when it declares more than one member, when any
// member carries a sub-path, or when its single member's name does not
// resemble the group name closely enough.
func NewLayout(index *catalog.Index, stop textutil.StopWords, tolerance float64) *Layout {
	layout := &Layout{container: make(map[string]bool, index.GroupCount())}
	for _, group := range index.Groups() {
		layout.container[group.ID] = needsContainer(group, stop, tolerance)
	}
	return layout
}

func needsContainer(group *catalog.Group, stop textutil.StopWords, tolerance float64) bool {
	if len(group.Members) > 1 {
		return true
	}
	for _, member := range group.Members {
		if member.SubPath != "" {
			return true
		}
	}
	if len(group.Members) != 1 {
		return false
	}
	member := group.Members[0]
	groupTokens := textutil.Tokenize(group.ID, stop)
	memberTokens := textutil.Tokenize(textutil.Stem(member.Name), stop)
	return textutil.OverlapRatio(groupTokens, memberTokens) < tolerance
}

// Container reports whether the group's members are placed inside a
// dedicated directory.
func (l *Layout) Container(group string) bool {
	return l.container[group]
}
