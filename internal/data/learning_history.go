package data

import (
	"bytes"
	"encoding/json"
)

const (
	foundTrue  string = "true"
	foundFalse string = "false"
)

// LearningHistory is decoded leniently: the remote store sends found as
// the strings "true"/"false" and may omit records or send something other
// than a list, none of which is an error
type LearningHistory struct {
	DelegateId string
	FirstName  string
	LastName   string
	Found      *bool //nil when absent or unrecognized
	Records    []Course
}

type learningHistoryJson struct {
	DelegateId string   `json:"delegate_id,omitempty"`
	FirstName  string   `json:"first_name"`
	LastName   string   `json:"last_name"`
	Found      string   `json:"found,omitempty"`
	Records    []Course `json:"records"`
}

func (l *LearningHistory) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage

	*l = LearningHistory{}
	if err := json.Unmarshal(data, &fields); err != nil {
		//KIM: anything other than an object is treated as an empty history
		return nil
	}
	l.DelegateId = decodeString(fields["delegate_id"])
	l.FirstName = decodeString(fields["first_name"])
	l.LastName = decodeString(fields["last_name"])
	l.Found = decodeFound(fields["found"])
	l.Records = decodeRecords(fields["records"])
	return nil
}

func (l LearningHistory) MarshalJSON() ([]byte, error) {
	item := learningHistoryJson{
		DelegateId: l.DelegateId,
		FirstName:  l.FirstName,
		LastName:   l.LastName,
		Records:    l.records(),
	}
	if l.Found != nil {
		item.Found = foundFalse
		if *l.Found {
			item.Found = foundTrue
		}
	}
	return json.Marshal(&item)
}

func (l *LearningHistory) records() []Course {
	records := make([]Course, len(l.Records))
	copy(records, l.Records)
	return records
}

func (l *LearningHistory) Copy() *LearningHistory {
	learningHistory := &LearningHistory{}
	*learningHistory = *l
	if l.Found != nil {
		found := *l.Found
		learningHistory.Found = &found
	}
	learningHistory.Records = l.records()
	return learningHistory
}

func decodeString(raw json.RawMessage) string {
	var s string

	if len(raw) == 0 {
		return ""
	}
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}

func decodeFound(raw json.RawMessage) *bool {
	var found bool

	switch string(bytes.TrimSpace(raw)) {
	default:
		return nil
	case `"` + foundTrue + `"`, foundTrue:
		found = true
	case `"` + foundFalse + `"`, foundFalse:
		found = false
	}
	return &found
}

func decodeRecords(raw json.RawMessage) []Course {
	var items []json.RawMessage

	if err := json.Unmarshal(raw, &items); err != nil {
		return []Course{}
	}
	records := make([]Course, 0, len(items))
	for _, item := range items {
		var course Course

		if string(bytes.TrimSpace(item)) == "null" {
			continue
		}
		//KIM: a single malformed record shouldn't hide the rest
		if err := json.Unmarshal(item, &course); err != nil {
			continue
		}
		records = append(records, course)
	}
	return records
}
