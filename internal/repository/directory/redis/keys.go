package redis

import (
	"strconv"
	"strings"
)

// DefaultKeyPrefix namespaces every directory key.
const DefaultKeyPrefix = "segmentd:"

func (r *Repo) entryKey(className string, classPK int64) string {
	return r.prefix + "entry:" + className + ":" + strconv.FormatInt(classPK, 10)
}

func (r *Repo) viewerTagsKey(viewerID int64) string {
	return r.prefix + "viewer:" + strconv.FormatInt(viewerID, 10) + ":tags"
}

func (r *Repo) viewsKey() string {
	return r.prefix + "views"
}

func (r *Repo) companyEntriesKey(companyID int64) string {
	return r.prefix + "company:" + strconv.FormatInt(companyID, 10) + ":entries"
}

// parseViewMember splits a views member "<className>:<classPK>".
// The class name may itself contain colons; the id is after the last one.
func parseViewMember(m string) (string, int64, bool) {
	i := strings.LastIndexByte(m, ':')
	if i <= 0 || i == len(m)-1 {
		return "", 0, false
	}
	pk, err := strconv.ParseInt(m[i+1:], 10, 64)
	if err != nil {
		return "", 0, false
	}
	return m[:i], pk, true
}
