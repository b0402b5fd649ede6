package homework

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// ParseResponse checks the shape of the API payload and returns the
// "homeworks" elements in API order, undecoded. The slice may be empty.
func ParseResponse(payload Payload) ([]RawRecord, error) {
	if !isJSONKind(payload, '{') {
		return nil, ErrNotAMapping
	}
	var top map[string]json.RawMessage
	if err := json.Unmarshal(payload, &top); err != nil {
		return nil, ErrNotAMapping
	}

	raw, ok := top["homeworks"]
	if !ok {
		return nil, ErrHomeworksMissing
	}
	if !isJSONKind(raw, '[') {
		return nil, ErrHomeworksNotASequence
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, ErrHomeworksNotASequence
	}
	records := make([]RawRecord, len(items))
	for i, item := range items {
		records[i] = RawRecord(item)
	}
	return records, nil
}

// Latest decodes the first record, which the API orders as the most recent one.
// Other records are never looked at.
func Latest(records []RawRecord) (Record, error) {
	if len(records) == 0 {
		return Record{}, ErrNoHomeworks
	}
	return DecodeRecord(records[0])
}

// DecodeRecord decodes a single record. Only homework_name and status must
// have the right type; optional fields of an unexpected type are skipped.
func DecodeRecord(raw RawRecord) (Record, error) {
	if !isJSONKind(raw, '{') {
		return Record{}, fmt.Errorf("%w: not a JSON object", ErrMalformedRecord)
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return Record{}, fmt.Errorf("%w: %v", ErrMalformedRecord, err)
	}

	var rec Record
	var err error
	if rec.Name, err = requiredString(fields, "homework_name"); err != nil {
		return Record{}, err
	}
	if rec.Status, err = requiredString(fields, "status"); err != nil {
		return Record{}, err
	}
	rec.ID = looseString(fields["id"])
	rec.LessonName = looseString(fields["lesson_name"])
	rec.ReviewerComment = looseString(fields["reviewer_comment"])
	if ts, err := time.Parse(time.RFC3339, looseString(fields["date_updated"])); err == nil {
		rec.DateUpdated = ts
	}
	return rec, nil
}

// StatusMessage builds the notification text for a record.
func StatusMessage(rec Record) (string, error) {
	if rec.Name == nil {
		return "", &MissingFieldError{Field: "homework_name"}
	}
	if rec.Status == nil {
		return "", &MissingFieldError{Field: "status"}
	}
	verdict, ok := Verdicts[*rec.Status]
	if !ok {
		return "", &UnknownStatusError{Status: *rec.Status}
	}
	// No separator before the verdict: existing chats rely on this exact text.
	return fmt.Sprintf("Изменился статус проверки работы \"%s\".%s", *rec.Name, verdict), nil
}

// HasChanged reports whether msg differs from the last notified message.
func HasChanged(msg, last string) bool {
	return msg != last
}

func requiredString(fields map[string]json.RawMessage, key string) (*string, error) {
	raw, ok := fields[key]
	if !ok || string(bytes.TrimSpace(raw)) == "null" {
		return nil, &MissingFieldError{Field: key}
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("%w: field %q is not a string", ErrMalformedRecord, key)
	}
	return &s, nil
}

// looseString renders a JSON string or number as text and returns "" for anything else.
func looseString(raw json.RawMessage) string {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return ""
	}
	var s string
	if json.Unmarshal(trimmed, &s) == nil {
		return s
	}
	var n json.Number
	if json.Unmarshal(trimmed, &n) == nil {
		return n.String()
	}
	return ""
}

func isJSONKind(data []byte, open byte) bool {
	trimmed := bytes.TrimSpace(data)
	return len(trimmed) > 0 && trimmed[0] == open
}
