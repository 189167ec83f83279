package session

import (
	"bytes"
	"encoding/json"
	"errors"
	"strconv"
)

// ErrUserRecordInvalid is returned by [DecodeUser] for malformed records.
var ErrUserRecordInvalid = errors.New("user record invalid")

// EncodeUser serializes u into the durable JSON record.
func EncodeUser(u User) (string, error) {
	b, err := json.Marshal(u)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

type userRecord struct {
	ID       json.RawMessage `json:"id"`
	Username string          `json:"username"`
	Email    string          `json:"email"`
	Role     string          `json:"role"`
}

// DecodeUser parses a durable user record. The id may be a JSON number or a
// numeric string; older records written by other clients used both.
func DecodeUser(raw string) (*User, error) {
	if raw == "" {
		return nil, ErrUserRecordInvalid
	}

	var rec userRecord
	dec := json.NewDecoder(bytes.NewReader([]byte(raw)))
	if err := dec.Decode(&rec); err != nil {
		return nil, ErrUserRecordInvalid
	}
	if dec.More() {
		return nil, ErrUserRecordInvalid
	}

	id, err := decodeID(rec.ID)
	if err != nil {
		return nil, err
	}
	return &User{
		ID:       id,
		Username: rec.Username,
		Email:    rec.Email,
		Role:     rec.Role,
	}, nil
}

func decodeID(raw json.RawMessage) (int64, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return 0, ErrUserRecordInvalid
	}

	s := string(raw)
	if raw[0] == '"' {
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0, ErrUserRecordInvalid
		}
	}
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, ErrUserRecordInvalid
	}
	return id, nil
}
